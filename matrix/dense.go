// SPDX-License-Identifier: MIT
// Package: matrix
//
// Dense is a column-major numeric block: element (i, j) lives at data[j*rows+i],
// so every column is one contiguous run. The storage order is fixed at
// construction; the transposed view (cols×rows row-major) is what the blas64
// kernels consume.

package matrix

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/glmat/sandwich"
)

// Dense is a dense column-major block. Shapes are immutable; values change only
// through ScaleColsInPlace and in-place AsType.
type Dense struct {
	rows  int
	cols  int
	data  []float64 // column-major, len rows*cols
	dtype DType
	opts  Options
}

// NewDense builds a rows×cols block from column-major data (copied; nil = zeros).
// rows must be positive; zero-column blocks are legal.
//
// Errors: ErrInvalidInput for rows ≤ 0, cols < 0 or a data length other than rows*cols.
// Complexity: O(rows·cols).
func NewDense(rows, cols int, data []float64, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols < 0 {
		return nil, detailErrorf(opNewDense, ErrInvalidInput, "shape %dx%d", rows, cols)
	}
	if data != nil && len(data) != rows*cols {
		return nil, detailErrorf(opNewDense, ErrInvalidInput, "len(data)=%d, want %d", len(data), rows*cols)
	}
	o := gatherOptions(opts...)
	buf := make([]float64, rows*cols)
	copy(buf, data)

	return &Dense{rows: rows, cols: cols, data: o.dtype.roundInPlace(buf), dtype: o.dtype, opts: o}, nil
}

// NewDenseFromMatrix copies any gonum matrix into a column-major block.
//
// Errors: ErrNilMatrix for nil; ErrInvalidInput for a matrix without rows.
// Complexity: O(rows·cols).
func NewDenseFromMatrix(m mat.Matrix, opts ...Option) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opNewDense, ErrNilMatrix)
	}
	r, c := m.Dims()
	if r == 0 {
		return nil, detailErrorf(opNewDense, ErrInvalidInput, "matrix has no rows")
	}
	buf := make([]float64, r*c)
	var i, j int
	for j = 0; j < c; j++ {
		for i = 0; i < r; i++ {
			buf[j*r+i] = m.At(i, j)
		}
	}

	return NewDense(r, c, buf, opts...)
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.cols }

// Shape returns (rows, cols).
func (m *Dense) Shape() (int, int) { return m.rows, m.cols }

// DType returns the element type.
func (m *Dense) DType() DType { return m.dtype }

// Kind returns KindDense.
func (m *Dense) Kind() Kind { return KindDense }

// At returns element (i, j).
// Errors: ErrOutOfRange if i or j is outside the block.
func (m *Dense) At(i, j int) (float64, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, detailErrorf(opAt, ErrOutOfRange, "(%d, %d) in %dx%d", i, j, m.rows, m.cols)
	}

	return m.data[j*m.rows+i], nil
}

// colMajor exposes the raw buffer to the sandwich kernels (no copy).
func (m *Dense) colMajor() sandwich.ColMajor {
	return sandwich.ColMajor{Rows: m.rows, Cols: m.cols, Data: m.data}
}

// transposed is the row-major cols×rows view Xᵀ of the column-major buffer.
func (m *Dense) transposed() blas64.General {
	return blas64.General{Rows: m.cols, Cols: m.rows, Stride: m.rows, Data: m.data}
}

// Dot returns X·v.
//
// Implementation: one Gemv with blas.Trans over the transposed view.
// Complexity: O(rows·cols).
func (m *Dense) Dot(v []float64) ([]float64, error) {
	if err := validateVecLen("v", v, m.cols); err != nil {
		return nil, matrixErrorf(opDot, err)
	}
	out := make([]float64, m.rows)
	if m.cols == 0 {
		return out, nil
	}
	blas64.Gemv(blas.Trans, 1, m.transposed(),
		blas64.Vector{N: m.cols, Inc: 1, Data: v}, 0,
		blas64.Vector{N: m.rows, Inc: 1, Data: out})

	return out, nil
}

// TransposeDot returns Xᵀ·v.
// Complexity: O(rows·cols).
func (m *Dense) TransposeDot(v []float64) ([]float64, error) {
	if err := validateVecLen("v", v, m.rows); err != nil {
		return nil, matrixErrorf(opTransposeDot, err)
	}
	out := make([]float64, m.cols)
	if m.cols == 0 {
		return out, nil
	}
	blas64.Gemv(blas.NoTrans, 1, m.transposed(),
		blas64.Vector{N: m.rows, Inc: 1, Data: v}, 0,
		blas64.Vector{N: m.cols, Inc: 1, Data: out})

	return out, nil
}

// DotMat returns X·B for B with Cols() rows.
// Complexity: O(rows·cols·p).
func (m *Dense) DotMat(b *mat.Dense) (*mat.Dense, error) {
	if err := validateOperand(b, m.cols); err != nil {
		return nil, matrixErrorf(opDotMat, err)
	}
	_, p := b.Dims()
	out := mat.NewDense(m.rows, p, nil)
	blas64.Gemm(blas.Trans, blas.NoTrans, 1, m.transposed(), b.RawMatrix(), 0, out.RawMatrix())

	return out, nil
}

// TransposeDotMat returns Xᵀ·B for B with Rows() rows.
// Complexity: O(rows·cols·p).
func (m *Dense) TransposeDotMat(b *mat.Dense) (*mat.Dense, error) {
	if err := validateOperand(b, m.rows); err != nil {
		return nil, matrixErrorf(opTransposeDotMat, err)
	}
	if m.cols == 0 {
		return &mat.Dense{}, nil
	}
	_, p := b.Dims()
	out := mat.NewDense(m.cols, p, nil)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, m.transposed(), b.RawMatrix(), 0, out.RawMatrix())

	return out, nil
}

// Sandwich returns Xᵀ·diag(d)·X.
func (m *Dense) Sandwich(d []float64) (*mat.SymDense, error) {
	return m.SandwichLimited(d, nil, nil)
}

// SandwichLimited returns X[rows, cols]ᵀ·diag(d[rows])·X[rows, cols].
func (m *Dense) SandwichLimited(d []float64, rows, cols []int) (*mat.SymDense, error) {
	return blockSandwich(m, &m.opts, d, rows, cols)
}

// ColMeans returns Σ_i w_i·X[i,j] for every column.
// Complexity: O(rows·cols).
func (m *Dense) ColMeans(w []float64) ([]float64, error) {
	if err := validateVecLen("w", w, m.rows); err != nil {
		return nil, matrixErrorf(opColMeans, err)
	}
	out := make([]float64, m.cols)
	for j := range out {
		out[j] = floats.Dot(w, m.column(j))
	}

	return m.dtype.roundInPlace(out), nil
}

// ColStds returns sqrt(Σ_i w_i·X[i,j]² − means[j]²) under the std policy.
// Complexity: O(rows·cols).
func (m *Dense) ColStds(w, means []float64) ([]float64, error) {
	if err := validateStatsArgs(w, means, m.rows, m.cols); err != nil {
		return nil, matrixErrorf(opColStds, err)
	}
	sq := make([]float64, m.cols)
	var acc float64
	for j := range sq {
		acc = 0
		for i, x := range m.column(j) {
			acc += w[i] * x * x
		}
		sq[j] = acc
	}

	return finishStds(&m.opts, m.dtype, sq, means)
}

// ScaleColsInPlace multiplies column j by s[j].
// Complexity: O(rows·cols).
func (m *Dense) ScaleColsInPlace(s []float64) error {
	if err := validateVecLen("s", s, m.cols); err != nil {
		return matrixErrorf(opScaleCols, err)
	}
	for j, f := range s {
		col := m.column(j)
		floats.Scale(f, col)
		m.dtype.roundInPlace(col)
	}

	return nil
}

// AsType casts to dt. copy=false rounds the receiver in place and returns it.
func (m *Dense) AsType(dt DType, copy bool) (Matrix, error) {
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

	return &Dense{rows: m.rows, cols: m.cols, data: dt.roundInPlace(cloneFloats(m.data)), dtype: dt, opts: o}, nil
}

// Col returns a copy of column j; j wraps modulo Cols().
func (m *Dense) Col(j int) ([]float64, error) {
	j, err := wrapCol(j, m.cols)
	if err != nil {
		return nil, matrixErrorf(opCol, err)
	}

	return cloneFloats(m.column(j)), nil
}

// ToDense materializes the block row-major.
// Complexity: O(rows·cols).
func (m *Dense) ToDense() *mat.Dense {
	if m.cols == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(m.rows, m.cols, nil)
	for j := 0; j < m.cols; j++ {
		out.SetCol(j, m.column(j))
	}

	return out
}

// SelectRows returns a new block holding the given rows in order (nil = all).
// Complexity: O(len(rows)·cols).
func (m *Dense) SelectRows(rows []int) (Matrix, error) {
	sel, err := resolveRows(rows, m.rows)
	if err != nil {
		return nil, matrixErrorf(opSelectRows, err)
	}
	n := len(sel)
	buf := make([]float64, n*m.cols)
	var j int
	for j = 0; j < m.cols; j++ {
		src := m.column(j)
		dst := buf[j*n : (j+1)*n]
		for p, r := range sel {
			dst[p] = src[r]
		}
	}

	return &Dense{rows: n, cols: m.cols, data: buf, dtype: m.dtype, opts: m.opts}, nil
}

func (m *Dense) column(j int) []float64 {
	return m.data[j*m.rows : (j+1)*m.rows]
}
