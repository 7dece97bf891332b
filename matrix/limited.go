// SPDX-License-Identifier: MIT
// Package: matrix
//
// Limited products restrict a matrix to an active row set and an active
// column set without materializing the sub-matrix. Solvers use them with the
// set of nonzero coefficients (cols) and the rows of the current fold (rows).

package matrix

// LimitedDot returns X[rows, cols]·v[cols]. Columns outside cols contribute
// nothing; the result has one entry per selected row, in rows order
// (nil rows = all rows, nil cols = all columns).
//
// For a Split, blocks without an active column are skipped entirely.
//
// Errors: ErrNilMatrix; ErrShapeMismatch for len(v) != Cols(); ErrOutOfRange /
// ErrInvalidInput for bad selections.
// Complexity: one Dot over the active blocks.
func LimitedDot(m Matrix, v []float64, rows, cols []int) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opLimitedDot, ErrNilMatrix)
	}
	if err := validateVecLen("v", v, m.Cols()); err != nil {
		return nil, matrixErrorf(opLimitedDot, err)
	}
	if err := validateRowSelection(rows, m.Rows()); err != nil {
		return nil, matrixErrorf(opLimitedDot, err)
	}
	if err := validateColSelection(cols, m.Cols()); err != nil {
		return nil, matrixErrorf(opLimitedDot, err)
	}

	vz := v
	if cols != nil {
		vz = make([]float64, len(v))
		for _, c := range cols {
			vz[c] = v[c]
		}
	}

	var full []float64
	var err error
	if s, ok := m.(*Split); ok && cols != nil {
		full, err = s.activeDot(vz, cols)
	} else {
		full, err = m.Dot(vz)
	}
	if err != nil {
		return nil, matrixErrorf(opLimitedDot, err)
	}
	if rows == nil {
		return full, nil
	}

	return gatherFloats(full, rows), nil
}

// LimitedTransposeDot returns X[rows, cols]ᵀ·v[rows]: v is zero outside rows
// (a repeated row counts repeatedly) and the result has one entry per
// selected column, in cols order.
//
// Errors: ErrNilMatrix; ErrShapeMismatch for len(v) != Rows(); ErrOutOfRange /
// ErrInvalidInput for bad selections.
func LimitedTransposeDot(m Matrix, v []float64, rows, cols []int) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opLimitedTDot, ErrNilMatrix)
	}
	if err := validateLimits(v, rows, cols, m.Rows(), m.Cols()); err != nil {
		return nil, matrixErrorf(opLimitedTDot, err)
	}
	vm := maskWeights(v, rows)

	var full []float64
	var err error
	if s, ok := m.(*Split); ok && cols != nil {
		full, err = s.activeTransposeDot(vm, cols)
	} else {
		full, err = m.TransposeDot(vm)
	}
	if err != nil {
		return nil, matrixErrorf(opLimitedTDot, err)
	}
	if cols == nil {
		return full, nil
	}

	return gatherFloats(full, cols), nil
}

// activeBlocks marks the blocks owning at least one of cols.
func (s *Split) activeBlocks(cols []int) []bool {
	active := make([]bool, len(s.blocks))
	for _, g := range cols {
		active[s.owner[g].block] = true
	}

	return active
}

// activeDot is Dot restricted to blocks owning an active column.
func (s *Split) activeDot(v []float64, cols []int) ([]float64, error) {
	active := s.activeBlocks(cols)
	out := make([]float64, s.rows)
	for b, m := range s.blocks {
		if !active[b] {
			continue
		}
		part, err := m.Dot(gatherFloats(v, s.indices[b]))
		if err != nil {
			return nil, err
		}
		for i, x := range part {
			out[i] += x
		}
	}

	return out, nil
}

// activeTransposeDot is TransposeDot restricted to blocks owning an active column;
// inactive columns stay zero.
func (s *Split) activeTransposeDot(v []float64, cols []int) ([]float64, error) {
	active := s.activeBlocks(cols)
	out := make([]float64, s.cols)
	for b, m := range s.blocks {
		if !active[b] {
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
