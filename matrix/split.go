// SPDX-License-Identifier: MIT
// Package: matrix
//
// Split is a flat composite of heterogeneous blocks. Block b owns the global
// columns indices[b] (block-local position → global column); the index lists
// partition 0..Cols()-1. Every operation fans out to the blocks and merges
// their results back into global column order.

package matrix

import (
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Split is the composite design matrix.
type Split struct {
	blocks  []Matrix
	indices [][]int
	rows    int
	cols    int
	dtype   DType
	opts    Options

	// owner maps a global column to its block and local position.
	owner []colOwner
}

type colOwner struct {
	block int
	local int
}

// NewSplit assembles blocks with their global column indices. Slices are
// copied; the blocks themselves are adopted and must not be shared with
// another composite that mutates them.
//
// Implementation:
//   - Stage 1: structure (non-empty, no nil, no nested Split, equal rows,
//     len(indices[b]) == blocks[b].Cols()).
//   - Stage 2: the index lists partition 0..total-1, total > 0.
//   - Stage 3: dtype = promotion of the block dtypes (warned when mixed).
//
// Errors: ErrNilMatrix for a nil block; ErrInvalidInput for everything else.
// Complexity: O(blocks + total).
func NewSplit(blocks []Matrix, indices [][]int, opts ...Option) (*Split, error) {
	if len(blocks) == 0 {
		return nil, detailErrorf(opNewSplit, ErrInvalidInput, "no blocks")
	}
	if len(indices) != len(blocks) {
		return nil, detailErrorf(opNewSplit, ErrInvalidInput, "%d index lists for %d blocks", len(indices), len(blocks))
	}
	var total int
	for b, m := range blocks {
		if m == nil {
			return nil, detailErrorf(opNewSplit, ErrNilMatrix, "block %d", b)
		}
		if m.Kind() == KindSplit {
			return nil, detailErrorf(opNewSplit, ErrInvalidInput, "block %d is a Split (nesting is not supported)", b)
		}
		if m.Rows() != blocks[0].Rows() {
			return nil, detailErrorf(opNewSplit, ErrInvalidInput, "block %d has %d rows, want %d", b, m.Rows(), blocks[0].Rows())
		}
		if len(indices[b]) != m.Cols() {
			return nil, detailErrorf(opNewSplit, ErrInvalidInput, "block %d has %d columns but %d indices", b, m.Cols(), len(indices[b]))
		}
		total += m.Cols()
	}
	if total == 0 {
		return nil, detailErrorf(opNewSplit, ErrInvalidInput, "no columns")
	}
	if err := validatePartition(indices, total); err != nil {
		return nil, matrixErrorf(opNewSplit, err)
	}

	o := gatherOptions(opts...)
	s := &Split{
		blocks:  slices.Clone(blocks),
		indices: make([][]int, len(indices)),
		rows:    blocks[0].Rows(),
		cols:    total,
		opts:    o,
		owner:   make([]colOwner, total),
	}
	dts := make([]DType, len(blocks))
	for b, idx := range indices {
		s.indices[b] = slices.Clone(idx)
		dts[b] = blocks[b].DType()
		for l, g := range idx {
			s.owner[g] = colOwner{block: b, local: l}
		}
	}
	s.dtype = promoteAll(dts...)
	if slices.ContainsFunc(dts, func(t DType) bool { return t != s.dtype }) {
		o.logger.Warn().Stringer("dtype", s.dtype).Int("blocks", len(blocks)).Msg("split blocks have mixed dtypes; promoting")
	}

	return s, nil
}

// Rows returns the shared row count.
func (s *Split) Rows() int { return s.rows }

// Cols returns the total column count.
func (s *Split) Cols() int { return s.cols }

// Shape returns (rows, cols).
func (s *Split) Shape() (int, int) { return s.rows, s.cols }

// DType returns the promoted dtype of the blocks.
func (s *Split) DType() DType { return s.dtype }

// Kind returns KindSplit.
func (s *Split) Kind() Kind { return KindSplit }

// Blocks returns the blocks in order (a new slice; blocks are shared).
func (s *Split) Blocks() []Matrix { return slices.Clone(s.blocks) }

// Indices returns a deep copy of the per-block global column indices.
func (s *Split) Indices() [][]int {
	out := make([][]int, len(s.indices))
	for b, idx := range s.indices {
		out[b] = slices.Clone(idx)
	}

	return out
}

// Dot returns X·v = Σ_b block_b · v[indices[b]].
// Complexity: Σ_b cost(block_b.Dot).
func (s *Split) Dot(v []float64) ([]float64, error) {
	if err := validateVecLen("v", v, s.cols); err != nil {
		return nil, matrixErrorf(opDot, err)
	}
	out := make([]float64, s.rows)
	for b, m := range s.blocks {
		if m.Cols() == 0 {
			continue
		}
		part, err := m.Dot(gatherFloats(v, s.indices[b]))
		if err != nil {
			return nil, err
		}
		floats.Add(out, part)
	}

	return out, nil
}

// TransposeDot returns Xᵀ·v; each block fills its own global columns.
func (s *Split) TransposeDot(v []float64) ([]float64, error) {
	if err := validateVecLen("v", v, s.rows); err != nil {
		return nil, matrixErrorf(opTransposeDot, err)
	}
	out := make([]float64, s.cols)
	for b, m := range s.blocks {
		if m.Cols() == 0 {
			continue
		}
		part, err := m.TransposeDot(v)
		if err != nil {
			return nil, err
		}
		scatter(out, s.indices[b], part)
	}

	return out, nil
}

// DotMat returns X·B, summing block_b · B[indices[b], :].
func (s *Split) DotMat(b *mat.Dense) (*mat.Dense, error) {
	if err := validateOperand(b, s.cols); err != nil {
		return nil, matrixErrorf(opDotMat, err)
	}
	_, p := b.Dims()
	out := mat.NewDense(s.rows, p, nil)
	for bi, m := range s.blocks {
		if m.Cols() == 0 {
			continue
		}
		sub := mat.NewDense(m.Cols(), p, nil)
		for l, g := range s.indices[bi] {
			copy(sub.RawRowView(l), b.RawRowView(g))
		}
		part, err := m.DotMat(sub)
		if err != nil {
			return nil, err
		}
		out.Add(out, part)
	}

	return out, nil
}

// TransposeDotMat returns Xᵀ·B; block rows land on their global rows.
func (s *Split) TransposeDotMat(b *mat.Dense) (*mat.Dense, error) {
	if err := validateOperand(b, s.rows); err != nil {
		return nil, matrixErrorf(opTransposeDotMat, err)
	}
	_, p := b.Dims()
	out := mat.NewDense(s.cols, p, nil)
	for bi, m := range s.blocks {
		if m.Cols() == 0 {
			continue
		}
		part, err := m.TransposeDotMat(b)
		if err != nil {
			return nil, err
		}
		for l, g := range s.indices[bi] {
			copy(out.RawRowView(g), part.RawRowView(l))
		}
	}

	return out, nil
}

// Sandwich returns the full Cols()×Cols() product Xᵀ·diag(d)·X.
func (s *Split) Sandwich(d []float64) (*mat.SymDense, error) {
	return s.SandwichLimited(d, nil, nil)
}

// SandwichLimited returns X[rows, cols]ᵀ·diag(d[rows])·X[rows, cols], the
// output ordered as cols (nil = all columns in natural order).
//
// Implementation:
//   - Stage 1: route each selected global column to (block, local, output slot).
//   - Stage 2: for every block pair i ≤ j with selected columns, dispatch the
//     pair kernel and write the table at [slots_i, slots_j] and its transpose
//     at [slots_j, slots_i]. Pairs cover disjoint cells, so with
//     WithParallelism(p > 1) they run concurrently.
//   - Stage 3: wrap the table as SymDense.
//
// Errors: ErrShapeMismatch / ErrOutOfRange / ErrInvalidInput from validation,
// ErrUnsupportedOperation for a pair without a kernel.
// Complexity: Σ over pairs of the pair kernel cost.
func (s *Split) SandwichLimited(d []float64, rows, cols []int) (*mat.SymDense, error) {
	if err := validateLimits(d, rows, cols, s.rows, s.cols); err != nil {
		return nil, matrixErrorf(opSandwich, err)
	}
	local, slots := s.route(cols)
	k := s.cols
	if cols != nil {
		k = len(cols)
	}
	dm := maskWeights(d, rows)
	out := make([]float64, k*k)

	type pair struct{ i, j int }
	var pairs []pair
	for i := range s.blocks {
		if len(local[i]) == 0 {
			continue
		}
		for j := i; j < len(s.blocks); j++ {
			if len(local[j]) > 0 {
				pairs = append(pairs, pair{i, j})
			}
		}
	}

	run := func(pr pair) error {
		table, err := crossSandwich(&s.opts, s.blocks[pr.i], s.blocks[pr.j], local[pr.i], local[pr.j], dm)
		if err != nil {
			return err
		}
		si, sj := slots[pr.i], slots[pr.j]
		kj := len(sj)
		var v float64
		for p, gi := range si {
			for q, gj := range sj {
				v = table[p*kj+q]
				out[gi*k+gj] = v
				out[gj*k+gi] = v
			}
		}

		return nil
	}

	if s.opts.parallelism > 1 && len(pairs) > 1 {
		s.opts.logger.Debug().Int("pairs", len(pairs)).Int("parallelism", s.opts.parallelism).Msg("parallel sandwich dispatch")
		var g errgroup.Group
		g.SetLimit(s.opts.parallelism)
		for _, pr := range pairs {
			g.Go(func() error { return run(pr) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, pr := range pairs {
			if err := run(pr); err != nil {
				return nil, err
			}
		}
	}

	return symFromTable(k, out, s.dtype), nil
}

// route splits a global column selection by block. For nil cols every block
// takes all its columns and output slots are the global indices.
func (s *Split) route(cols []int) (local, slots [][]int) {
	local = make([][]int, len(s.blocks))
	slots = make([][]int, len(s.blocks))
	if cols == nil {
		for b, idx := range s.indices {
			local[b] = identity(len(idx))
			slots[b] = idx
		}

		return local, slots
	}
	for p, g := range cols {
		o := s.owner[g]
		local[o.block] = append(local[o.block], o.local)
		slots[o.block] = append(slots[o.block], p)
	}

	return local, slots
}

// ColMeans merges per-block means into global column order.
func (s *Split) ColMeans(w []float64) ([]float64, error) {
	if err := validateVecLen("w", w, s.rows); err != nil {
		return nil, matrixErrorf(opColMeans, err)
	}
	out := make([]float64, s.cols)
	for b, m := range s.blocks {
		if m.Cols() == 0 {
			continue
		}
		part, err := m.ColMeans(w)
		if err != nil {
			return nil, err
		}
		scatter(out, s.indices[b], part)
	}

	return out, nil
}

// ColStds merges per-block stds; block b sees only means[indices[b]].
func (s *Split) ColStds(w, means []float64) ([]float64, error) {
	if err := validateStatsArgs(w, means, s.rows, s.cols); err != nil {
		return nil, matrixErrorf(opColStds, err)
	}
	out := make([]float64, s.cols)
	for b, m := range s.blocks {
		if m.Cols() == 0 {
			continue
		}
		part, err := m.ColStds(w, gatherFloats(means, s.indices[b]))
		if err != nil {
			return nil, err
		}
		scatter(out, s.indices[b], part)
	}

	return out, nil
}

// ScaleColsInPlace scales every block by its slice of s.
func (s *Split) ScaleColsInPlace(f []float64) error {
	if err := validateVecLen("s", f, s.cols); err != nil {
		return matrixErrorf(opScaleCols, err)
	}
	for b, m := range s.blocks {
		if m.Cols() == 0 {
			continue
		}
		if err := m.ScaleColsInPlace(gatherFloats(f, s.indices[b])); err != nil {
			return err
		}
	}

	return nil
}

// AsType casts every block. copy=true rebuilds all blocks into a new
// composite; copy=false casts the blocks in place and returns the receiver.
func (s *Split) AsType(dt DType, copy bool) (Matrix, error) {
	if err := validateFloatDType(dt); err != nil {
		return nil, matrixErrorf(opAsType, err)
	}
	blocks := make([]Matrix, len(s.blocks))
	for b, m := range s.blocks {
		cast, err := m.AsType(dt, copy)
		if err != nil {
			return nil, err
		}
		blocks[b] = cast
	}
	if !copy {
		s.dtype = dt

		return s, nil
	}

	return s.rebuild(blocks, dt), nil
}

// Col returns global column j; j wraps modulo Cols().
func (s *Split) Col(j int) ([]float64, error) {
	j, err := wrapCol(j, s.cols)
	if err != nil {
		return nil, matrixErrorf(opCol, err)
	}
	o := s.owner[j]

	return s.blocks[o.block].Col(o.local)
}

// ToDense materializes all blocks into global column order.
// Complexity: O(rows·cols).
func (s *Split) ToDense() *mat.Dense {
	out := mat.NewDense(s.rows, s.cols, nil)
	for b, m := range s.blocks {
		if m.Cols() == 0 {
			continue
		}
		part := m.ToDense()
		for l, g := range s.indices[b] {
			out.SetCol(g, mat.Col(nil, l, part))
		}
	}

	return out
}

// SelectRows row-indexes every block and keeps the column mapping.
func (s *Split) SelectRows(rows []int) (Matrix, error) {
	if _, err := resolveRows(rows, s.rows); err != nil {
		return nil, matrixErrorf(opSelectRows, err)
	}
	blocks := make([]Matrix, len(s.blocks))
	for b, m := range s.blocks {
		sub, err := m.SelectRows(rows)
		if err != nil {
			return nil, err
		}
		blocks[b] = sub
	}

	return s.rebuild(blocks, s.dtype), nil
}

// Index selects rows; column reslicing of a composite is not supported.
//
// Errors: ErrUnsupportedOperation for non-nil cols.
func (s *Split) Index(rows, cols []int) (Matrix, error) {
	if cols != nil {
		return nil, detailErrorf(opIndex, ErrUnsupportedOperation, "column indexing of a Split")
	}

	return s.SelectRows(rows)
}

// rebuild wraps new blocks with the receiver's column layout. The layout was
// validated at construction and block shapes are preserved, so no checks rerun.
func (s *Split) rebuild(blocks []Matrix, dt DType) *Split {
	return &Split{
		blocks:  blocks,
		indices: s.Indices(),
		rows:    blocks[0].Rows(),
		cols:    s.cols,
		dtype:   dt,
		opts:    s.opts,
		owner:   slices.Clone(s.owner),
	}
}

// scatter writes part[l] to out[idx[l]].
func scatter(out []float64, idx []int, part []float64) {
	for l, g := range idx {
		out[g] = part[l]
	}
}
