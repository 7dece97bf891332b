// SPDX-License-Identifier: MIT
// Package: matrix
//
// Categorical is a one-hot column group kept as codes. Row i of the dense
// equivalent has exactly one nonzero, mult[codes[i]] (1 when no multiplier is
// set), so every product reduces to a gather or a segment-sum over codes.

package matrix

import (
	"math"
	"slices"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/glmat/sandwich"
)

// Categorical is a one-hot categorical block.
type Categorical struct {
	codes      []int
	nCat       int
	mult       []float64 // nil ⇔ no scaling
	categories []string
	dtype      DType
	opts       Options

	grpOnce sync.Once
	grpIdx  []int // rows grouped by code
	grpPtr  []int // len nCat+1
}

// NewCategorical builds a block from codes in [0, nCategories) and optional
// per-category multipliers (nil = no scaling). Inputs are copied. Category
// labels default to the decimal code.
//
// Errors: ErrInvalidInput for empty codes, nCategories ≤ 0, codes out of range
// or len(colMult) != nCategories.
// Complexity: O(rows + nCategories).
func NewCategorical(codes []int, nCategories int, colMult []float64, opts ...Option) (*Categorical, error) {
	if err := validateCodes(codes, nCategories); err != nil {
		return nil, matrixErrorf(opNewCategorical, err)
	}
	if colMult != nil && len(colMult) != nCategories {
		return nil, detailErrorf(opNewCategorical, ErrInvalidInput, "len(colMult)=%d, want %d", len(colMult), nCategories)
	}
	labels := make([]string, nCategories)
	for k := range labels {
		labels[k] = strconv.Itoa(k)
	}
	m := &Categorical{codes: slices.Clone(codes), nCat: nCategories, categories: labels, opts: gatherOptions(opts...)}
	m.dtype = m.opts.dtype
	m.setMult(cloneFloats(colMult))

	return m, nil
}

// NewCategoricalFromValues encodes raw values. Categories are the sorted unique
// values; codes index into them.
//
// Errors: ErrInvalidInput for an empty input.
// Complexity: O(n log n).
func NewCategoricalFromValues(values []string, opts ...Option) (*Categorical, error) {
	if len(values) == 0 {
		return nil, detailErrorf(opNewCategorical, ErrInvalidInput, "no values")
	}
	cats := slices.Compact(slices.Sorted(slices.Values(values)))
	codes := make([]int, len(values))
	for i, v := range values {
		codes[i], _ = slices.BinarySearch(cats, v)
	}
	o := gatherOptions(opts...)

	return &Categorical{codes: codes, nCat: len(cats), categories: cats, dtype: o.dtype, opts: o}, nil
}

// Rows returns the number of rows.
func (m *Categorical) Rows() int { return len(m.codes) }

// Cols returns the number of categories.
func (m *Categorical) Cols() int { return m.nCat }

// Shape returns (rows, categories).
func (m *Categorical) Shape() (int, int) { return len(m.codes), m.nCat }

// DType returns the element type.
func (m *Categorical) DType() DType { return m.dtype }

// Kind returns KindCategorical.
func (m *Categorical) Kind() Kind { return KindCategorical }

// Categories returns a copy of the category labels.
func (m *Categorical) Categories() []string { return slices.Clone(m.categories) }

// Codes returns a copy of the per-row category codes.
func (m *Categorical) Codes() []int { return slices.Clone(m.codes) }

// ColMult returns a copy of the multipliers, nil when no scaling is applied.
func (m *Categorical) ColMult() []float64 { return cloneFloats(m.mult) }

// RecoverOrig maps codes back to category labels.
// Complexity: O(rows).
func (m *Categorical) RecoverOrig() []string {
	out := make([]string, len(m.codes))
	for i, c := range m.codes {
		out[i] = m.categories[c]
	}

	return out
}

// groups returns the cached (indices, indptr) grouping of rows by code.
func (m *Categorical) groups() (indices, indptr []int) {
	m.grpOnce.Do(func() { m.grpIdx, m.grpPtr = sandwich.GroupRows(m.codes, m.nCat) })

	return m.grpIdx, m.grpPtr
}

// multOf returns the multiplier of category k.
func (m *Categorical) multOf(k int) float64 {
	if m.mult == nil {
		return 1
	}

	return m.mult[k]
}

// setMult stores mult, collapsing it to nil when every entry is within the
// scale tolerance of 1.
func (m *Categorical) setMult(mult []float64) {
	if mult != nil && withinOne(mult, m.opts.scaleTol) {
		m.opts.logger.Debug().Int("categories", m.nCat).Msg("categorical multipliers collapsed to identity")
		mult = nil
	}
	m.mult = mult
}

func withinOne(xs []float64, tol float64) bool {
	for _, x := range xs {
		if math.Abs(x-1) > tol {
			return false
		}
	}

	return true
}

// Dot returns X·v: out[i] = v[codes[i]]·mult[codes[i]].
// Complexity: O(rows).
func (m *Categorical) Dot(v []float64) ([]float64, error) {
	if err := validateVecLen("v", v, m.nCat); err != nil {
		return nil, matrixErrorf(opDot, err)
	}
	out := make([]float64, len(m.codes))
	for i, c := range m.codes {
		out[i] = v[c] * m.multOf(c)
	}

	return out, nil
}

// TransposeDot returns Xᵀ·v: a segment-sum of v by code, scaled by mult.
// Complexity: O(rows + categories).
func (m *Categorical) TransposeDot(v []float64) ([]float64, error) {
	if err := validateVecLen("v", v, len(m.codes)); err != nil {
		return nil, matrixErrorf(opTransposeDot, err)
	}
	indices, indptr := m.groups()
	out := sandwich.CategoricalDiag(indices, indptr, v)
	if m.mult != nil {
		floats.Mul(out, m.mult)
	}

	return out, nil
}

// DotMat returns X·B: row i of the result is row codes[i] of B times its multiplier.
// Complexity: O(rows·p).
func (m *Categorical) DotMat(b *mat.Dense) (*mat.Dense, error) {
	if err := validateOperand(b, m.nCat); err != nil {
		return nil, matrixErrorf(opDotMat, err)
	}
	_, p := b.Dims()
	out := mat.NewDense(len(m.codes), p, nil)
	for i, c := range m.codes {
		floats.ScaleTo(out.RawRowView(i), m.multOf(c), b.RawRowView(c))
	}

	return out, nil
}

// TransposeDotMat returns Xᵀ·B: rows of B summed per category, times mult.
// Complexity: O(rows·p).
func (m *Categorical) TransposeDotMat(b *mat.Dense) (*mat.Dense, error) {
	if err := validateOperand(b, len(m.codes)); err != nil {
		return nil, matrixErrorf(opTransposeDotMat, err)
	}
	_, p := b.Dims()
	out := mat.NewDense(m.nCat, p, nil)
	for i, c := range m.codes {
		floats.Add(out.RawRowView(c), b.RawRowView(i))
	}
	if m.mult != nil {
		for k, f := range m.mult {
			floats.Scale(f, out.RawRowView(k))
		}
	}

	return out, nil
}

// Sandwich returns the diagonal matrix diag[k] = mult[k]²·Σ_{codes[i]=k} d[i].
func (m *Categorical) Sandwich(d []float64) (*mat.SymDense, error) {
	return m.SandwichLimited(d, nil, nil)
}

// SandwichLimited restricts Sandwich to rows and selects cols.
func (m *Categorical) SandwichLimited(d []float64, rows, cols []int) (*mat.SymDense, error) {
	return blockSandwich(m, &m.opts, d, rows, cols)
}

// ColMeans returns mult[k]·Σ_{codes[i]=k} w_i.
// Complexity: O(rows).
func (m *Categorical) ColMeans(w []float64) ([]float64, error) {
	out, err := m.TransposeDot(w)
	if err != nil {
		return nil, matrixErrorf(opColMeans, err)
	}

	return m.dtype.roundInPlace(out), nil
}

// ColStds returns sqrt(mult[k]²·Σ_{codes[i]=k} w_i − means[k]²) under the std policy.
// Complexity: O(rows).
func (m *Categorical) ColStds(w, means []float64) ([]float64, error) {
	if err := validateStatsArgs(w, means, len(m.codes), m.nCat); err != nil {
		return nil, matrixErrorf(opColStds, err)
	}
	indices, indptr := m.groups()
	sq := sandwich.CategoricalDiag(indices, indptr, w)
	if m.mult != nil {
		floats.Mul(sq, m.mult)
		floats.Mul(sq, m.mult)
	}

	return finishStds(&m.opts, m.dtype, sq, means)
}

// ScaleColsInPlace multiplies mult by s (mult starts as s when absent) and
// collapses back to "no scaling" when the product is uniformly 1.
// Complexity: O(categories).
func (m *Categorical) ScaleColsInPlace(s []float64) error {
	if err := validateVecLen("s", s, m.nCat); err != nil {
		return matrixErrorf(opScaleCols, err)
	}
	next := cloneFloats(s)
	if m.mult != nil {
		floats.Mul(next, m.mult)
	}
	m.setMult(m.dtype.roundInPlace(next))

	return nil
}

// AsType casts to dt. Only the multipliers carry values, so a cast rounds them.
func (m *Categorical) AsType(dt DType, copy bool) (Matrix, error) {
	if err := validateFloatDType(dt); err != nil {
		return nil, matrixErrorf(opAsType, err)
	}
	if !copy {
		m.dtype = dt
		dt.roundInPlace(m.mult)

		return m, nil
	}
	o := m.opts
	o.dtype = dt

	return &Categorical{
		codes: slices.Clone(m.codes), nCat: m.nCat,
		mult: dt.roundInPlace(cloneFloats(m.mult)), categories: slices.Clone(m.categories),
		dtype: dt, opts: o,
	}, nil
}

// Col returns the indicator of category j (times its multiplier); j wraps.
// Complexity: O(rows).
func (m *Categorical) Col(j int) ([]float64, error) {
	j, err := wrapCol(j, m.nCat)
	if err != nil {
		return nil, matrixErrorf(opCol, err)
	}
	out := make([]float64, len(m.codes))
	f := m.multOf(j)
	for i, c := range m.codes {
		if c == j {
			out[i] = f
		}
	}

	return out, nil
}

// ToDense materializes the one-hot matrix.
// Complexity: O(rows·categories).
func (m *Categorical) ToDense() *mat.Dense {
	out := mat.NewDense(len(m.codes), m.nCat, nil)
	for i, c := range m.codes {
		out.Set(i, c, m.multOf(c))
	}

	return out
}

// ToSparse materializes the block as CSC; column k stores its rows in order.
// Complexity: O(rows + categories).
func (m *Categorical) ToSparse() *Sparse {
	indices, indptr := m.groups()
	data := make([]float64, len(indices))
	var s int
	for k := 0; k < m.nCat; k++ {
		f := m.multOf(k)
		for s = indptr[k]; s < indptr[k+1]; s++ {
			data[s] = f
		}
	}

	return newSparse(len(m.codes), m.nCat, slices.Clone(indptr), slices.Clone(indices), data, m.opts)
}

// SelectRows returns a new block with codes re-selected by row (nil = all),
// the same categories and a copy of mult.
// Complexity: O(len(rows) + categories).
func (m *Categorical) SelectRows(rows []int) (Matrix, error) {
	sel, err := resolveRows(rows, len(m.codes))
	if err != nil {
		return nil, matrixErrorf(opSelectRows, err)
	}

	return &Categorical{
		codes: gatherInts(m.codes, sel), nCat: m.nCat,
		mult: cloneFloats(m.mult), categories: slices.Clone(m.categories),
		dtype: m.dtype, opts: m.opts,
	}, nil
}
