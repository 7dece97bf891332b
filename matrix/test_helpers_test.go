// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Deterministic fixtures (seeded rand) for every block kind and for Split.
//   - A naive dense reference Xᵀ·diag(d)·X computed with gonum mat.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/glmat/matrix"
)

const tol = 1e-9

// randDense returns an n×k gonum matrix where about density of the entries are
// nonzero standard normals.
func randDense(rng *rand.Rand, n, k int, density float64) *mat.Dense {
	out := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			if rng.Float64() < density {
				out.Set(i, j, rng.NormFloat64())
			}
		}
	}

	return out
}

// randWeights returns n weights in [0, 1).
func randWeights(rng *rand.Rand, n int) []float64 {
	d := make([]float64, n)
	for i := range d {
		d[i] = rng.Float64()
	}

	return d
}

// normalized returns w scaled to sum to one.
func normalized(w []float64) []float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = v / s
	}

	return out
}

// naiveSandwich is the reference Xᵀ·diag(d)·X.
func naiveSandwich(x mat.Matrix, d []float64) *mat.Dense {
	n, k := x.Dims()
	dx := mat.NewDense(n, k, nil)
	dx.Apply(func(i, _ int, v float64) float64 { return d[i] * v }, x)
	var out mat.Dense
	out.Mul(x.T(), dx)

	return &out
}

// subColumns returns x[:, cols] as a new matrix.
func subColumns(x *mat.Dense, cols []int) *mat.Dense {
	n, _ := x.Dims()
	out := mat.NewDense(n, len(cols), nil)
	for p, c := range cols {
		out.SetCol(p, mat.Col(nil, c, x))
	}

	return out
}

// maskRows zeroes d outside rows.
func maskRows(d []float64, rows []int) []float64 {
	out := make([]float64, len(d))
	for _, r := range rows {
		out[r] += d[r]
	}

	return out
}

// requireClose asserts want ≈ got element-wise within tol.
func requireClose(t *testing.T, want, got mat.Matrix) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, []int{wr, wc}, []int{gr, gc}, "dims")
	require.True(t, mat.EqualApprox(want, got, tol), "want\n%v\ngot\n%v", mat.Formatted(want), mat.Formatted(got))
}

// requireExactlySymmetric asserts m == mᵀ with no tolerance.
func requireExactlySymmetric(t *testing.T, m mat.Matrix) {
	t.Helper()
	r, c := m.Dims()
	require.Equal(t, r, c)
	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			require.Equal(t, m.At(i, j), m.At(j, i), "(%d,%d)", i, j)
		}
	}
}

// mustDense builds a Dense block from a gonum matrix or fails the test.
func mustDense(t testing.TB, x mat.Matrix, opts ...matrix.Option) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromMatrix(x, opts...)
	require.NoError(t, err)

	return m
}

// mustSparse builds a Sparse block from a gonum matrix or fails the test.
func mustSparse(t testing.TB, x mat.Matrix, opts ...matrix.Option) *matrix.Sparse {
	t.Helper()
	m, err := matrix.NewSparseFromMatrix(x, opts...)
	require.NoError(t, err)

	return m
}

// mustCategorical builds a Categorical block or fails the test.
func mustCategorical(t testing.TB, codes []int, k int, mult []float64, opts ...matrix.Option) *matrix.Categorical {
	t.Helper()
	m, err := matrix.NewCategorical(codes, k, mult, opts...)
	require.NoError(t, err)

	return m
}

// randCodes returns n codes in [0, k).
func randCodes(rng *rand.Rand, n, k int) []int {
	codes := make([]int, n)
	for i := range codes {
		codes[i] = rng.Intn(k)
	}

	return codes
}

// numericSplit returns a Split of a dense block (global columns 0, 3) and a
// sparse block (global columns 1, 2, 4) plus the reference matrix.
func numericSplit(t testing.TB, rng *rand.Rand, n int, opts ...matrix.Option) (*matrix.Split, *mat.Dense) {
	t.Helper()
	dx := randDense(rng, n, 2, 1)
	sx := randDense(rng, n, 3, 0.25)
	s, err := matrix.NewSplit(
		[]matrix.Matrix{mustDense(t, dx, opts...), mustSparse(t, sx, opts...)},
		[][]int{{0, 3}, {1, 2, 4}},
		opts...,
	)
	require.NoError(t, err)

	ref := mat.NewDense(n, 5, nil)
	for l, g := range []int{0, 3} {
		ref.SetCol(g, mat.Col(nil, l, dx))
	}
	for l, g := range []int{1, 2, 4} {
		ref.SetCol(g, mat.Col(nil, l, sx))
	}

	return s, ref
}

// categoricalSplit returns a Split of two categorical blocks with interleaved
// columns (3 categories at 0, 2, 4; 2 categories at 1, 3) plus the reference.
func categoricalSplit(t testing.TB, rng *rand.Rand, n int) (*matrix.Split, *mat.Dense) {
	t.Helper()
	a := mustCategorical(t, randCodes(rng, n, 3), 3, []float64{1.5, 1, 0.5})
	b := mustCategorical(t, randCodes(rng, n, 2), 2, nil)
	s, err := matrix.NewSplit([]matrix.Matrix{a, b}, [][]int{{0, 2, 4}, {1, 3}})
	require.NoError(t, err)

	ref := mat.NewDense(n, 5, nil)
	ad, bd := a.ToDense(), b.ToDense()
	for l, g := range []int{0, 2, 4} {
		ref.SetCol(g, mat.Col(nil, l, ad))
	}
	for l, g := range []int{1, 3} {
		ref.SetCol(g, mat.Col(nil, l, bd))
	}

	return s, ref
}
