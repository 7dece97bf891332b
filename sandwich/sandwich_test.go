// SPDX-License-Identifier: MIT

package sandwich_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/glmat/sandwich"
)

const tol = 1e-10

// randColMajor builds an n×k column-major buffer where roughly density of the
// entries are nonzero, plus its gonum row-major twin.
func randColMajor(rng *rand.Rand, n, k int, density float64) (sandwich.ColMajor, *mat.Dense) {
	x := sandwich.ColMajor{Rows: n, Cols: k, Data: make([]float64, n*k)}
	ref := mat.NewDense(n, k, nil)
	for j := 0; j < k; j++ {
		for i := 0; i < n; i++ {
			if rng.Float64() < density {
				v := rng.NormFloat64()
				x.Data[j*n+i] = v
				ref.Set(i, j, v)
			}
		}
	}

	return x, ref
}

// toCSC compresses a column-major buffer, dropping zeros.
func toCSC(x sandwich.ColMajor) sandwich.CSC {
	out := sandwich.CSC{Rows: x.Rows, Cols: x.Cols, Indptr: make([]int, x.Cols+1)}
	for j := 0; j < x.Cols; j++ {
		for i, v := range x.Column(j) {
			if v != 0 {
				out.Indices = append(out.Indices, i)
				out.Data = append(out.Data, v)
			}
		}
		out.Indptr[j+1] = len(out.Indices)
	}

	return out
}

// naive returns Aᵀ·diag(d)·B via gonum.
func naive(a, b *mat.Dense, d []float64) *mat.Dense {
	n, kb := b.Dims()
	db := mat.NewDense(n, kb, nil)
	db.Apply(func(i, _ int, v float64) float64 { return d[i] * v }, b)
	var out mat.Dense
	out.Mul(a.T(), db)

	return &out
}

func requireTable(t *testing.T, want *mat.Dense, got []float64) {
	t.Helper()
	r, c := want.Dims()
	require.Len(t, got, r*c)
	require.True(t, mat.EqualApprox(want, mat.NewDense(r, c, got), tol), "want\n%v\ngot %v", mat.Formatted(want), got)
}

func weights(rng *rand.Rand, n int) []float64 {
	d := make([]float64, n)
	for i := range d {
		d[i] = rng.Float64()
	}

	return d
}

func TestDense_MatchesNaive(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	x, ref := randColMajor(rng, 40, 6, 1)
	d := weights(rng, 40)

	requireTable(t, naive(ref, ref, d), sandwich.Dense(x, d, nil))
}

func TestDense_SelectedColumnsFollowOrder(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(2))
	x, ref := randColMajor(rng, 25, 5, 1)
	d := weights(rng, 25)
	cols := []int{4, 1, 2}

	sub := mat.NewDense(25, len(cols), nil)
	for p, c := range cols {
		sub.SetCol(p, mat.Col(nil, c, ref))
	}
	requireTable(t, naive(sub, sub, d), sandwich.Dense(x, d, cols))
}

func TestDenseCross_MatchesNaive(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(3))
	a, refA := randColMajor(rng, 30, 4, 1)
	b, refB := randColMajor(rng, 30, 3, 1)
	d := weights(rng, 30)

	requireTable(t, naive(refA, refB, d), sandwich.DenseCross(a, nil, b, nil, d))
}

func TestDense_ZeroColumns(t *testing.T) {
	t.Parallel()
	x := sandwich.ColMajor{Rows: 3, Cols: 0}
	require.Empty(t, sandwich.Dense(x, []float64{1, 2, 3}, nil))
}

func TestSparse_MatchesNaive(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(4))
	x, ref := randColMajor(rng, 60, 7, 0.2)
	csc := toCSC(x)
	d := weights(rng, 60)

	requireTable(t, naive(ref, ref, d), sandwich.Sparse(csc, sandwich.Transpose(csc), d, nil))
}

func TestSparseCross_MatchesNaive(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(5))
	a, refA := randColMajor(rng, 50, 5, 0.3)
	b, refB := randColMajor(rng, 50, 4, 0.3)
	ca, cb := toCSC(a), toCSC(b)
	d := weights(rng, 50)

	requireTable(t, naive(refA, refB, d), sandwich.SparseCross(ca, nil, cb, sandwich.Transpose(cb), nil, d))
}

func TestSparseDense_MatchesNaive(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(6))
	a, refA := randColMajor(rng, 45, 6, 0.15)
	b, refB := randColMajor(rng, 45, 3, 1)
	d := weights(rng, 45)

	requireTable(t, naive(refA, refB, d), sandwich.SparseDense(toCSC(a), nil, b, nil, d))
}

func TestTranspose_RowsSortedByColumn(t *testing.T) {
	t.Parallel()
	// 3×3:
	//   [1 0 2]
	//   [0 3 0]
	//   [4 0 5]
	x := sandwich.CSC{
		Rows: 3, Cols: 3,
		Indptr:  []int{0, 2, 3, 5},
		Indices: []int{0, 2, 1, 0, 2},
		Data:    []float64{1, 4, 3, 2, 5},
	}
	tr := sandwich.Transpose(x)
	require.Equal(t, []int{0, 2, 3, 5}, tr.Indptr)
	require.Equal(t, []int{0, 2, 1, 0, 2}, tr.Indices)

	vals := make([]float64, len(tr.Pos))
	for s, p := range tr.Pos {
		vals[s] = x.Data[p]
	}
	require.Equal(t, []float64{1, 2, 3, 4, 5}, vals)
}

func TestCategoricalDiag_SegmentSum(t *testing.T) {
	t.Parallel()
	codes := []int{0, 1, 0, 2}
	indices, indptr := sandwich.GroupRows(codes, 3)
	require.Equal(t, []int{0, 2, 1, 3}, indices)
	require.Equal(t, []int{0, 2, 3, 4}, indptr)

	require.Equal(t, []float64{4, 2, 4}, sandwich.CategoricalDiag(indices, indptr, []float64{1, 2, 3, 4}))
}

func TestCategoricalDiag_EmptyCategory(t *testing.T) {
	t.Parallel()
	indices, indptr := sandwich.GroupRows([]int{2, 2, 0}, 4)
	require.Equal(t, []float64{5, 0, 3, 0}, sandwich.CategoricalDiag(indices, indptr, []float64{1, 2, 5}))
}

func TestCategoricalCross_Contingency(t *testing.T) {
	t.Parallel()
	got := sandwich.CategoricalCross([]int{0, 1, 0, 1}, 2, []int{0, 0, 2, 2}, 3, []float64{1, 2, 3, 4})
	require.Equal(t, []float64{
		1, 0, 3,
		2, 0, 4,
	}, got)
}

func TestKernels_PanicOnRawLengthMismatch(t *testing.T) {
	t.Parallel()
	x := sandwich.ColMajor{Rows: 2, Cols: 1, Data: []float64{1, 2}}
	require.Panics(t, func() { sandwich.Dense(x, []float64{1}, nil) })
	require.Panics(t, func() { sandwich.CategoricalCross([]int{0}, 1, []int{0, 0}, 1, []float64{1}) })
}
