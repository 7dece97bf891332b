// SPDX-License-Identifier: MIT
// Package: matrix
//
// Sparse is a compressed-sparse-column block. Its row-compressed view is built
// lazily, once, and holds only structure plus positions into the CSC data, so
// value mutations (scaling, in-place casts) never stale it.

package matrix

import (
	"cmp"
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/glmat/sandwich"
)

// Sparse is a CSC numeric block.
type Sparse struct {
	rows    int
	cols    int
	indptr  []int // len cols+1
	indices []int // row per stored value, strictly increasing inside a column
	data    []float64
	dtype   DType
	opts    Options

	csrOnce sync.Once
	csr     sandwich.CSR
}

// NewSparse builds a block from CSC arrays (copied).
//
// Errors: ErrInvalidInput when the layout is inconsistent: len(indptr) != cols+1,
// indptr[0] != 0, decreasing indptr, indptr[cols] != len(indices) != len(data),
// row indices outside [0, rows) or not strictly increasing within a column.
// Complexity: O(cols + nnz).
func NewSparse(rows, cols int, indptr, indices []int, data []float64, opts ...Option) (*Sparse, error) {
	if err := validateCSC(rows, cols, indptr, indices, data); err != nil {
		return nil, matrixErrorf(opNewSparse, err)
	}

	return newSparse(rows, cols, slices.Clone(indptr), slices.Clone(indices), cloneFloats(data), gatherOptions(opts...)), nil
}

// newSparse adopts already validated arrays.
func newSparse(rows, cols int, indptr, indices []int, data []float64, o Options) *Sparse {
	return &Sparse{
		rows: rows, cols: cols,
		indptr: indptr, indices: indices, data: o.dtype.roundInPlace(data),
		dtype: o.dtype, opts: o,
	}
}

// NewSparseFromMatrix compresses any gonum matrix, storing its nonzeros.
//
// Errors: ErrNilMatrix for nil; ErrInvalidInput for a matrix without rows.
// Complexity: O(rows·cols).
func NewSparseFromMatrix(m mat.Matrix, opts ...Option) (*Sparse, error) {
	if m == nil {
		return nil, matrixErrorf(opNewSparse, ErrNilMatrix)
	}
	r, c := m.Dims()
	if r == 0 {
		return nil, detailErrorf(opNewSparse, ErrInvalidInput, "matrix has no rows")
	}
	indptr := make([]int, c+1)
	var indices []int
	var data []float64
	var i, j int
	var v float64
	for j = 0; j < c; j++ {
		for i = 0; i < r; i++ {
			if v = m.At(i, j); v != 0 {
				indices = append(indices, i)
				data = append(data, v)
			}
		}
		indptr[j+1] = len(indices)
	}

	return newSparse(r, c, indptr, indices, data, gatherOptions(opts...)), nil
}

// NewSparseFromTriplets builds a block from (row, col, value) triplets.
// Duplicated coordinates are summed; explicit zeros are kept as stored entries.
//
// Errors: ErrInvalidInput for a non-positive row count, negative cols,
// unequal triplet lengths or coordinates out of range.
// Complexity: O(t log t) for t triplets.
func NewSparseFromTriplets(rows, cols int, ri, ci []int, v []float64, opts ...Option) (*Sparse, error) {
	if rows <= 0 || cols < 0 {
		return nil, detailErrorf(opNewSparse, ErrInvalidInput, "shape %dx%d", rows, cols)
	}
	if len(ri) != len(ci) || len(ci) != len(v) {
		return nil, detailErrorf(opNewSparse, ErrInvalidInput, "triplet lengths %d/%d/%d", len(ri), len(ci), len(v))
	}
	for t := range ri {
		if ri[t] < 0 || ri[t] >= rows || ci[t] < 0 || ci[t] >= cols {
			return nil, detailErrorf(opNewSparse, ErrInvalidInput, "triplet %d at (%d,%d) outside %dx%d", t, ri[t], ci[t], rows, cols)
		}
	}

	order := make([]int, len(v))
	for t := range order {
		order[t] = t
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(ci[a], ci[b]); c != 0 {
			return c
		}
		return cmp.Compare(ri[a], ri[b])
	})

	indptr := make([]int, cols+1)
	indices := make([]int, 0, len(v))
	data := make([]float64, 0, len(v))
	last := len(order) // sentinel: no previous slot
	for _, t := range order {
		if last < len(order) && ci[t] == ci[last] && ri[t] == ri[last] {
			data[len(data)-1] += v[t]
			continue
		}
		indices = append(indices, ri[t])
		data = append(data, v[t])
		indptr[ci[t]+1]++
		last = t
	}
	for j := 0; j < cols; j++ {
		indptr[j+1] += indptr[j]
	}

	return newSparse(rows, cols, indptr, indices, data, gatherOptions(opts...)), nil
}

// Rows returns the number of rows.
func (m *Sparse) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Sparse) Cols() int { return m.cols }

// Shape returns (rows, cols).
func (m *Sparse) Shape() (int, int) { return m.rows, m.cols }

// DType returns the element type.
func (m *Sparse) DType() DType { return m.dtype }

// Kind returns KindSparse.
func (m *Sparse) Kind() Kind { return KindSparse }

// NNZ returns the number of stored entries.
func (m *Sparse) NNZ() int { return len(m.indices) }

// ColNNZ returns the number of stored entries in column j (0 when j is out of range).
func (m *Sparse) ColNNZ(j int) int {
	if j < 0 || j >= m.cols {
		return 0
	}

	return m.indptr[j+1] - m.indptr[j]
}

func (m *Sparse) csc() sandwich.CSC {
	return sandwich.CSC{Rows: m.rows, Cols: m.cols, Indptr: m.indptr, Indices: m.indices, Data: m.data}
}

// csrView returns the cached row-compressed view, building it on first use.
func (m *Sparse) csrView() sandwich.CSR {
	m.csrOnce.Do(func() { m.csr = sandwich.Transpose(m.csc()) })

	return m.csr
}

// Dot returns X·v.
// Complexity: O(nnz).
func (m *Sparse) Dot(v []float64) ([]float64, error) {
	if err := validateVecLen("v", v, m.cols); err != nil {
		return nil, matrixErrorf(opDot, err)
	}
	out := make([]float64, m.rows)
	var s int
	for j, vj := range v {
		if vj == 0 {
			continue
		}
		for s = m.indptr[j]; s < m.indptr[j+1]; s++ {
			out[m.indices[s]] += m.data[s] * vj
		}
	}

	return out, nil
}

// TransposeDot returns Xᵀ·v.
// Complexity: O(nnz).
func (m *Sparse) TransposeDot(v []float64) ([]float64, error) {
	if err := validateVecLen("v", v, m.rows); err != nil {
		return nil, matrixErrorf(opTransposeDot, err)
	}
	out := make([]float64, m.cols)
	var s int
	var acc float64
	for j := range out {
		acc = 0
		for s = m.indptr[j]; s < m.indptr[j+1]; s++ {
			acc += m.data[s] * v[m.indices[s]]
		}
		out[j] = acc
	}

	return out, nil
}

// DotMat returns X·B for B with Cols() rows.
// Complexity: O(nnz·p).
func (m *Sparse) DotMat(b *mat.Dense) (*mat.Dense, error) {
	if err := validateOperand(b, m.cols); err != nil {
		return nil, matrixErrorf(opDotMat, err)
	}
	_, p := b.Dims()
	out := mat.NewDense(m.rows, p, nil)
	var s int
	for j := 0; j < m.cols; j++ {
		src := b.RawRowView(j)
		for s = m.indptr[j]; s < m.indptr[j+1]; s++ {
			floats.AddScaled(out.RawRowView(m.indices[s]), m.data[s], src)
		}
	}

	return out, nil
}

// TransposeDotMat returns Xᵀ·B for B with Rows() rows.
// Complexity: O(nnz·p).
func (m *Sparse) TransposeDotMat(b *mat.Dense) (*mat.Dense, error) {
	if err := validateOperand(b, m.rows); err != nil {
		return nil, matrixErrorf(opTransposeDotMat, err)
	}
	if m.cols == 0 {
		return &mat.Dense{}, nil
	}
	_, p := b.Dims()
	out := mat.NewDense(m.cols, p, nil)
	var s int
	for j := 0; j < m.cols; j++ {
		dst := out.RawRowView(j)
		for s = m.indptr[j]; s < m.indptr[j+1]; s++ {
			floats.AddScaled(dst, m.data[s], b.RawRowView(m.indices[s]))
		}
	}

	return out, nil
}

// Sandwich returns Xᵀ·diag(d)·X.
func (m *Sparse) Sandwich(d []float64) (*mat.SymDense, error) {
	return m.SandwichLimited(d, nil, nil)
}

// SandwichLimited returns X[rows, cols]ᵀ·diag(d[rows])·X[rows, cols].
func (m *Sparse) SandwichLimited(d []float64, rows, cols []int) (*mat.SymDense, error) {
	return blockSandwich(m, &m.opts, d, rows, cols)
}

// ColMeans returns Σ_i w_i·X[i,j] for every column.
// Complexity: O(nnz).
func (m *Sparse) ColMeans(w []float64) ([]float64, error) {
	out, err := m.TransposeDot(w)
	if err != nil {
		return nil, matrixErrorf(opColMeans, err)
	}

	return m.dtype.roundInPlace(out), nil
}

// ColStds returns sqrt(Σ_i w_i·X[i,j]² − means[j]²) under the std policy.
// Complexity: O(nnz).
func (m *Sparse) ColStds(w, means []float64) ([]float64, error) {
	if err := validateStatsArgs(w, means, m.rows, m.cols); err != nil {
		return nil, matrixErrorf(opColStds, err)
	}
	sq := make([]float64, m.cols)
	var s int
	for j := range sq {
		for s = m.indptr[j]; s < m.indptr[j+1]; s++ {
			sq[j] += w[m.indices[s]] * m.data[s] * m.data[s]
		}
	}

	return finishStds(&m.opts, m.dtype, sq, means)
}

// ScaleColsInPlace multiplies column j by s[j]. The structure is untouched,
// so the cached row view stays valid.
// Complexity: O(nnz).
func (m *Sparse) ScaleColsInPlace(s []float64) error {
	if err := validateVecLen("s", s, m.cols); err != nil {
		return matrixErrorf(opScaleCols, err)
	}
	for j, f := range s {
		vals := m.data[m.indptr[j]:m.indptr[j+1]]
		floats.Scale(f, vals)
		m.dtype.roundInPlace(vals)
	}

	return nil
}

// AsType casts to dt. copy=false rounds the receiver in place and returns it;
// copy=true rebuilds arrays and caches.
func (m *Sparse) AsType(dt DType, copy bool) (Matrix, error) {
	if err := validateFloatDType(dt); err != nil {
		return nil, matrixErrorf(opAsType, err)
	}
	if !copy {
		m.dtype = dt
		dt.roundInPlace(m.data)

		return m, nil
	}
	o := m.opts
	o.dtype = dt

	return newSparse(m.rows, m.cols, slices.Clone(m.indptr), slices.Clone(m.indices), cloneFloats(m.data), o), nil
}

// Col returns column j densified; j wraps modulo Cols().
// Complexity: O(rows).
func (m *Sparse) Col(j int) ([]float64, error) {
	j, err := wrapCol(j, m.cols)
	if err != nil {
		return nil, matrixErrorf(opCol, err)
	}
	out := make([]float64, m.rows)
	for s := m.indptr[j]; s < m.indptr[j+1]; s++ {
		out[m.indices[s]] = m.data[s]
	}

	return out, nil
}

// ToDense materializes the block row-major.
// Complexity: O(rows·cols).
func (m *Sparse) ToDense() *mat.Dense {
	if m.cols == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(m.rows, m.cols, nil)
	var s int
	for j := 0; j < m.cols; j++ {
		for s = m.indptr[j]; s < m.indptr[j+1]; s++ {
			out.Set(m.indices[s], j, m.data[s])
		}
	}

	return out
}

// SelectRows returns a new block holding the given rows in order (nil = all).
//
// Implementation:
//   - Stage 1: walk the selected rows through the cached row view, counting
//     entries per column.
//   - Stage 2: scatter (new row, value) into columns; visiting new rows in
//     increasing order keeps every column sorted.
//
// Complexity: O(Σ nnz(row r) + cols).
func (m *Sparse) SelectRows(rows []int) (Matrix, error) {
	sel, err := resolveRows(rows, m.rows)
	if err != nil {
		return nil, matrixErrorf(opSelectRows, err)
	}
	t := m.csrView()

	indptr := make([]int, m.cols+1)
	var s int
	for _, r := range sel {
		for s = t.Indptr[r]; s < t.Indptr[r+1]; s++ {
			indptr[t.Indices[s]+1]++
		}
	}
	for j := 0; j < m.cols; j++ {
		indptr[j+1] += indptr[j]
	}

	next := slices.Clone(indptr[:m.cols])
	indices := make([]int, indptr[m.cols])
	data := make([]float64, indptr[m.cols])
	var slot int
	for p, r := range sel {
		for s = t.Indptr[r]; s < t.Indptr[r+1]; s++ {
			slot = next[t.Indices[s]]
			indices[slot] = p
			data[slot] = m.data[t.Pos[s]]
			next[t.Indices[s]]++
		}
	}

	return &Sparse{rows: len(sel), cols: m.cols, indptr: indptr, indices: indices, data: data, dtype: m.dtype, opts: m.opts}, nil
}
