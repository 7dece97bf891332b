// SPDX-License-Identifier: MIT
// Package: matrix
//
// Sandwich dispatch: a closed table from ordered (Kind, Kind) pairs to pair
// kernels. A lookup tries the ordered pair, then the reversed pair (result
// transposed), and otherwise reports ErrUnsupportedOperation. Categorical
// blocks have no cross kernel with dense or sparse blocks.

package matrix

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/glmat/sandwich"
)

// pairKernel returns Aᵀ·diag(d)·B over the block-local selections colsA, colsB
// (both already resolved, never nil) as a row-major len(colsA)×len(colsB) table.
// When a and b are the same block the result is the block's own sandwich.
type pairKernel func(a, b Matrix, colsA, colsB []int, d []float64) []float64

// sandwichTable is the complete set of supported kernel pairs.
var sandwichTable = map[pairKey]pairKernel{
	{KindDense, KindDense}:             denseDenseKernel,
	{KindSparse, KindSparse}:           sparseSparseKernel,
	{KindCategorical, KindCategorical}: categoricalKernel,
	{KindSparse, KindDense}:            sparseDenseKernel,
}

func denseDenseKernel(a, b Matrix, colsA, colsB []int, d []float64) []float64 {
	return sandwich.DenseCross(a.(*Dense).colMajor(), colsA, b.(*Dense).colMajor(), colsB, d)
}

func sparseSparseKernel(a, b Matrix, colsA, colsB []int, d []float64) []float64 {
	x, y := a.(*Sparse), b.(*Sparse)
	if x == y && slices.Equal(colsA, colsB) {
		return sandwich.Sparse(x.csc(), x.csrView(), d, colsA)
	}

	return sandwich.SparseCross(x.csc(), colsA, y.csc(), y.csrView(), colsB, d)
}

func sparseDenseKernel(a, b Matrix, colsA, colsB []int, d []float64) []float64 {
	return sandwich.SparseDense(a.(*Sparse).csc(), colsA, b.(*Dense).colMajor(), colsB, d)
}

// categoricalKernel covers both shapes of a categorical pair: one block against
// itself is diagonal (segment-sum), two distinct blocks form a weighted
// contingency table.
func categoricalKernel(a, b Matrix, colsA, colsB []int, d []float64) []float64 {
	x, y := a.(*Categorical), b.(*Categorical)
	ka, kb := len(colsA), len(colsB)
	out := make([]float64, ka*kb)

	if x == y {
		indices, indptr := x.groups()
		diag := sandwich.CategoricalDiag(indices, indptr, d)
		var f float64
		for p, ca := range colsA {
			for q, cb := range colsB {
				if ca == cb {
					f = x.multOf(ca)
					out[p*kb+q] = f * f * diag[ca]
				}
			}
		}

		return out
	}

	table := sandwich.CategoricalCross(x.codes, x.nCat, y.codes, y.nCat, d)
	for p, ca := range colsA {
		for q, cb := range colsB {
			out[p*kb+q] = x.multOf(ca) * y.multOf(cb) * table[ca*y.nCat+cb]
		}
	}

	return out
}

// crossSandwich runs the kernel registered for (a.Kind(), b.Kind()), falling
// back to the reversed pair. Kernel wall time is recorded per ordered pair.
//
// Errors: ErrUnsupportedOperation when neither orientation has a kernel.
func crossSandwich(o *Options, a, b Matrix, colsA, colsB []int, d []float64) ([]float64, error) {
	key := pairKey{a.Kind(), b.Kind()}
	if k, ok := sandwichTable[key]; ok {
		start := time.Now()
		out := k(a, b, colsA, colsB, d)
		o.metrics.observeKernel(key, time.Since(start))

		return out, nil
	}

	rev := pairKey{b.Kind(), a.Kind()}
	if k, ok := sandwichTable[rev]; ok {
		start := time.Now()
		out := transposeTable(k(b, a, colsB, colsA, d), len(colsB), len(colsA))
		o.metrics.observeKernel(rev, time.Since(start))

		return out, nil
	}

	o.metrics.countUnsupported(key)
	o.logger.Warn().Stringer("pair", key).Msg("no sandwich kernel for block pair")

	return nil, detailErrorf(opSandwich, ErrUnsupportedOperation, "no kernel for %s", key)
}

// blockSandwich is the shared body of Sandwich/SandwichLimited for the three
// block kinds: validate, mask d by rows, run the diagonal pair, wrap as SymDense.
func blockSandwich(m Matrix, o *Options, d []float64, rows, cols []int) (*mat.SymDense, error) {
	n, k := m.Shape()
	if err := validateLimits(d, rows, cols, n, k); err != nil {
		return nil, matrixErrorf(opSandwich, err)
	}
	if cols == nil {
		cols = identity(k)
	}
	out, err := crossSandwich(o, m, m, cols, cols, maskWeights(d, rows))
	if err != nil {
		return nil, err
	}

	return symFromTable(len(cols), out, m.DType()), nil
}

// validateLimits checks the (d, rows, cols) triple of a limited sandwich.
func validateLimits(d []float64, rows, cols []int, n, k int) error {
	if err := validateVecLen("d", d, n); err != nil {
		return err
	}
	if err := validateRowSelection(rows, n); err != nil {
		return err
	}

	return validateColSelection(cols, k)
}

// symFromTable wraps a k×k row-major symmetric table. NewSymDense reads the
// upper triangle only, so the result is exactly symmetric by construction.
// k == 0 yields the zero-value SymDense.
func symFromTable(k int, table []float64, dt DType) *mat.SymDense {
	if k == 0 {
		return &mat.SymDense{}
	}

	return mat.NewSymDense(k, dt.roundInPlace(table))
}

// transposeTable returns the c×r transpose of a row-major r×c table.
func transposeTable(t []float64, r, c int) []float64 {
	out := make([]float64, len(t))
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			out[j*r+i] = t[i*c+j]
		}
	}

	return out
}
