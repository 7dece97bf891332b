// SPDX-License-Identifier: MIT

package matrix_test

import (
	"bytes"
	"math/rand"
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/glmat/matrix"
)

func TestNewSplit_Invariants(t *testing.T) {
	t.Parallel()
	d3, err := matrix.NewDense(3, 2, nil)
	require.NoError(t, err)
	d4, err := matrix.NewDense(4, 1, nil)
	require.NoError(t, err)
	empty, err := matrix.NewDense(3, 0, nil)
	require.NoError(t, err)
	inner, err := matrix.HStack([]matrix.Matrix{d3})
	require.NoError(t, err)

	cases := []struct {
		name    string
		blocks  []matrix.Matrix
		indices [][]int
		target  error
	}{
		{"no blocks", nil, nil, matrix.ErrInvalidInput},
		{"index lists count", []matrix.Matrix{d3}, [][]int{{0, 1}, {2}}, matrix.ErrInvalidInput},
		{"nil block", []matrix.Matrix{nil}, [][]int{{}}, matrix.ErrNilMatrix},
		{"rows disagree", []matrix.Matrix{d3, d4}, [][]int{{0, 1}, {2}}, matrix.ErrInvalidInput},
		{"nested split", []matrix.Matrix{inner}, [][]int{{0, 1}}, matrix.ErrInvalidInput},
		{"index length", []matrix.Matrix{d3}, [][]int{{0}}, matrix.ErrInvalidInput},
		{"overlap", []matrix.Matrix{d3}, [][]int{{0, 0}}, matrix.ErrInvalidInput},
		{"gap", []matrix.Matrix{d3}, [][]int{{0, 2}}, matrix.ErrInvalidInput},
		{"no columns", []matrix.Matrix{empty}, [][]int{{}}, matrix.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := matrix.NewSplit(tc.blocks, tc.indices)
			require.ErrorIs(t, err, tc.target)
		})
	}
}

func TestSplit_PartitionAndRoundTrip(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(41))
	s, ref := numericSplit(t, rng, 25)

	var all []int
	for _, idx := range s.Indices() {
		all = append(all, idx...)
	}
	slices.Sort(all)
	require.Equal(t, []int{0, 1, 2, 3, 4}, all)
	require.Equal(t, ref.RawMatrix().Data, s.ToDense().RawMatrix().Data)

	// Indices returns a copy
	s.Indices()[0][0] = 99
	require.Equal(t, 0, s.Indices()[0][0])
}

func TestSplit_SandwichMatchesNaive(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))
	d := randWeights(rng, 60)

	t.Run("dense+sparse", func(t *testing.T) {
		s, ref := numericSplit(t, rand.New(rand.NewSource(43)), 60)
		got, err := s.Sandwich(d)
		require.NoError(t, err)
		requireClose(t, naiveSandwich(ref, d), got)
		requireExactlySymmetric(t, got)
	})
	t.Run("categorical+categorical", func(t *testing.T) {
		s, ref := categoricalSplit(t, rand.New(rand.NewSource(44)), 60)
		got, err := s.Sandwich(d)
		require.NoError(t, err)
		requireClose(t, naiveSandwich(ref, d), got)
		requireExactlySymmetric(t, got)
	})
	t.Run("two dense blocks", func(t *testing.T) {
		r := rand.New(rand.NewSource(45))
		a, b := randDense(r, 60, 2, 1), randDense(r, 60, 3, 1)
		s, err := matrix.NewSplit([]matrix.Matrix{mustDense(t, a), mustDense(t, b)}, [][]int{{4, 0}, {1, 3, 2}})
		require.NoError(t, err)
		got, err := s.Sandwich(d)
		require.NoError(t, err)
		requireClose(t, naiveSandwich(s.ToDense(), d), got)
	})
	t.Run("two sparse blocks", func(t *testing.T) {
		r := rand.New(rand.NewSource(46))
		a, b := randDense(r, 60, 3, 0.2), randDense(r, 60, 2, 0.2)
		s, err := matrix.NewSplit([]matrix.Matrix{mustSparse(t, a), mustSparse(t, b)}, [][]int{{0, 2, 4}, {3, 1}})
		require.NoError(t, err)
		got, err := s.Sandwich(d)
		require.NoError(t, err)
		requireClose(t, naiveSandwich(s.ToDense(), d), got)
	})
}

func TestSplit_CategoricalWithNumericIsUnsupported(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(47))
	c := mustCategorical(t, randCodes(rng, 10, 3), 3, nil)
	dn := mustDense(t, randDense(rng, 10, 2, 1))
	sp := mustSparse(t, randDense(rng, 10, 2, 0.3))

	cases := []struct {
		name   string
		blocks []matrix.Matrix
	}{
		{"categorical first", []matrix.Matrix{c, dn}},
		{"dense first", []matrix.Matrix{dn, c}},
		{"sparse first", []matrix.Matrix{sp, c}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := matrix.HStack(tc.blocks)
			require.NoError(t, err)

			_, err = s.Sandwich(randWeights(rand.New(rand.NewSource(470)), 10))
			require.ErrorIs(t, err, matrix.ErrUnsupportedOperation)

			// products that do not go through the pair table still work
			_, err = s.Dot(randWeights(rand.New(rand.NewSource(471)), 5))
			require.NoError(t, err)
		})
	}
}

func TestSplit_Products(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(48))
	s, ref := numericSplit(t, rng, 30)

	v := randWeights(rng, 5)
	got, err := s.Dot(v)
	require.NoError(t, err)
	var want mat.VecDense
	want.MulVec(ref, mat.NewVecDense(5, v))
	requireClose(t, &want, mat.NewVecDense(30, got))

	u := randWeights(rng, 30)
	got, err = s.TransposeDot(u)
	require.NoError(t, err)
	var wantT mat.VecDense
	wantT.MulVec(ref.T(), mat.NewVecDense(30, u))
	requireClose(t, &wantT, mat.NewVecDense(5, got))

	b := randDense(rng, 5, 2, 1)
	gm, err := s.DotMat(b)
	require.NoError(t, err)
	var wm mat.Dense
	wm.Mul(ref, b)
	requireClose(t, &wm, gm)

	c := randDense(rng, 30, 3, 1)
	gm, err = s.TransposeDotMat(c)
	require.NoError(t, err)
	var wt mat.Dense
	wt.Mul(ref.T(), c)
	requireClose(t, &wt, gm)
}

func TestSplit_StatsMergeInGlobalOrder(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(49))
	s, ref := numericSplit(t, rng, 40)
	w := normalized(randWeights(rng, 40))
	whole := mustDense(t, ref)

	means, err := s.ColMeans(w)
	require.NoError(t, err)
	wantMeans, err := whole.ColMeans(w)
	require.NoError(t, err)
	require.InDeltaSlice(t, wantMeans, means, tol)

	stds, err := s.ColStds(w, means)
	require.NoError(t, err)
	wantStds, err := whole.ColStds(w, means)
	require.NoError(t, err)
	require.InDeltaSlice(t, wantStds, stds, tol)
}

func TestSplit_ScaleColsInPlace(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(50))
	s, ref := numericSplit(t, rng, 20)
	f := []float64{1, 2, 3, 4, 5}
	require.NoError(t, s.ScaleColsInPlace(f))

	for j, fj := range f {
		col, err := s.Col(j)
		require.NoError(t, err)
		want := mat.Col(nil, j, ref)
		for i := range want {
			want[i] *= fj
		}
		require.InDeltaSlice(t, want, col, tol)
	}
}

func TestSplit_SelectRowsAndIndex(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(51))
	s, ref := numericSplit(t, rng, 15)
	rows := []int{14, 2, 7}

	sub, err := s.SelectRows(rows)
	require.NoError(t, err)
	want := mat.NewDense(3, 5, nil)
	for p, r := range rows {
		want.SetRow(p, mat.Row(nil, r, ref))
	}
	requireClose(t, want, sub.ToDense())
	require.Equal(t, s.Indices(), sub.(*matrix.Split).Indices())

	same, err := s.Index(rows, nil)
	require.NoError(t, err)
	requireClose(t, want, same.ToDense())

	_, err = s.Index(nil, []int{0})
	require.ErrorIs(t, err, matrix.ErrUnsupportedOperation)
}

func TestSplit_AsType(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(52))
	s, _ := numericSplit(t, rng, 10)

	c, err := s.AsType(matrix.Float32, true)
	require.NoError(t, err)
	require.Equal(t, matrix.Float32, c.DType())
	require.Equal(t, matrix.Float64, s.DType())
	for _, b := range c.(*matrix.Split).Blocks() {
		require.Equal(t, matrix.Float32, b.DType())
	}
	for _, b := range s.Blocks() {
		require.Equal(t, matrix.Float64, b.DType(), "copying cast rebuilds blocks")
	}
}

func TestSplit_MixedDTypesPromoteAndWarn(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	a, err := matrix.NewDense(2, 1, []float64{1, 2}, matrix.WithDType(matrix.Float32))
	require.NoError(t, err)
	b, err := matrix.NewDense(2, 1, []float64{3, 4})
	require.NoError(t, err)

	s, err := matrix.HStack([]matrix.Matrix{a, b}, matrix.WithLogger(logger))
	require.NoError(t, err)
	require.Equal(t, matrix.Float64, s.DType())
	require.Contains(t, buf.String(), "mixed dtypes")
}

func TestSplit_ParallelEqualsSequential(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(53))
	n := 70
	blocks := []*mat.Dense{
		randDense(rng, n, 3, 1),
		randDense(rng, n, 4, 0.1),
		randDense(rng, n, 2, 1),
		randDense(rng, n, 3, 0.2),
	}
	build := func(opts ...matrix.Option) *matrix.Split {
		s, err := matrix.HStack([]matrix.Matrix{
			mustDense(t, blocks[0]), mustSparse(t, blocks[1]),
			mustDense(t, blocks[2]), mustSparse(t, blocks[3]),
		}, opts...)
		require.NoError(t, err)
		return s
	}
	d := randWeights(rng, n)

	seq, err := build().Sandwich(d)
	require.NoError(t, err)
	par, err := build(matrix.WithParallelism(4)).Sandwich(d)
	require.NoError(t, err)
	require.Equal(t, mat.DenseCopyOf(seq).RawMatrix().Data, mat.DenseCopyOf(par).RawMatrix().Data)
}

func TestSplit_ColWrapsAround(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(54))
	s, ref := numericSplit(t, rng, 8)
	col, err := s.Col(-2)
	require.NoError(t, err)
	require.Equal(t, mat.Col(nil, 3, ref), col)
}
