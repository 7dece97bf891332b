// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide a single, canonical source of truth for the shape, index and
//     layout checks shared by every block kind and by Split.
//   - Return sentinel errors carrying a short detail; call sites wrap them once
//     with their operation tag (matrixErrorf).
//
// Determinism & Performance:
//   - All checks are pure and deterministic.
//   - Index checks are O(len) and allocate at most one O(n) marker slice.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// validateVecLen ensures len(x) == n (ErrShapeMismatch otherwise).
// Complexity: O(1).
func validateVecLen(name string, x []float64, n int) error {
	if len(x) != n {
		return fmt.Errorf("%w: len(%s)=%d, want %d", ErrShapeMismatch, name, len(x), n)
	}

	return nil
}

// validateOperand ensures a 2-D operand exists and has n rows.
// A zero-value *mat.Dense (0×0) is rejected: it carries no columns to broadcast over.
func validateOperand(b *mat.Dense, n int) error {
	if b == nil || b.IsEmpty() {
		return fmt.Errorf("%w: empty operand", ErrShapeMismatch)
	}
	if r, _ := b.Dims(); r != n {
		return fmt.Errorf("%w: operand has %d rows, want %d", ErrShapeMismatch, r, n)
	}

	return nil
}

// validateRowSelection ensures every row index lies in [0, n).
// Duplicates and arbitrary order are legal (row re-selection may repeat rows).
// Complexity: O(len(rows)).
func validateRowSelection(rows []int, n int) error {
	for _, r := range rows {
		if r < 0 || r >= n {
			return fmt.Errorf("%w: row %d not in [0,%d)", ErrOutOfRange, r, n)
		}
	}

	return nil
}

// validateColSelection ensures every column index lies in [0, n) and appears
// at most once (a limited sandwich is indexed by distinct columns).
// Complexity: O(n + len(cols)).
func validateColSelection(cols []int, n int) error {
	if cols == nil {
		return nil
	}
	seen := make([]bool, n)
	for _, c := range cols {
		if c < 0 || c >= n {
			return fmt.Errorf("%w: column %d not in [0,%d)", ErrInvalidInput, c, n)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate column %d", ErrInvalidInput, c)
		}
		seen[c] = true
	}

	return nil
}

// validatePartition ensures the per-block index lists partition {0..total-1}:
// every global column appears exactly once, nothing outside the range.
// Complexity: O(total).
func validatePartition(indices [][]int, total int) error {
	seen := make([]bool, total)
	for b, idx := range indices {
		for _, g := range idx {
			if g < 0 || g >= total {
				return fmt.Errorf("%w: block %d maps to column %d outside [0,%d)", ErrInvalidInput, b, g, total)
			}
			if seen[g] {
				return fmt.Errorf("%w: column %d claimed twice (block %d)", ErrInvalidInput, g, b)
			}
			seen[g] = true
		}
	}

	return nil
}

// validateThreshold ensures t ∈ [0, 1]; NaN fails both comparisons and is rejected.
func validateThreshold(t float64) error {
	if !(t >= 0 && t <= 1) {
		return fmt.Errorf("%w: threshold %g not in [0,1]", ErrInvalidInput, t)
	}

	return nil
}

// validateFloatDType rejects integer and unknown dtypes for matrices.
func validateFloatDType(dt DType) error {
	if !dt.IsFloat() {
		return fmt.Errorf("%w: dtype %s is not a float type", ErrInvalidInput, dt)
	}

	return nil
}

// validateCSC checks a compressed-sparse-column layout.
//
// Implementation:
//   - Stage 1: shape and array lengths.
//   - Stage 2: indptr starts at 0, never decreases, ends at nnz.
//   - Stage 3: row indices in range and strictly increasing per column.
//
// Complexity: O(cols + nnz).
func validateCSC(rows, cols int, indptr, indices []int, data []float64) error {
	if rows <= 0 || cols < 0 {
		return fmt.Errorf("%w: shape %dx%d", ErrInvalidInput, rows, cols)
	}
	if len(indptr) != cols+1 {
		return fmt.Errorf("%w: len(indptr)=%d, want %d", ErrInvalidInput, len(indptr), cols+1)
	}
	if len(indices) != len(data) {
		return fmt.Errorf("%w: len(indices)=%d != len(data)=%d", ErrInvalidInput, len(indices), len(data))
	}
	if indptr[0] != 0 || indptr[cols] != len(indices) {
		return fmt.Errorf("%w: indptr must span [0,%d]", ErrInvalidInput, len(indices))
	}
	var j, s int
	for j = 0; j < cols; j++ {
		if indptr[j+1] < indptr[j] {
			return fmt.Errorf("%w: indptr decreases at column %d", ErrInvalidInput, j)
		}
	}
	for j = 0; j < cols; j++ {
		for s = indptr[j]; s < indptr[j+1]; s++ {
			if indices[s] < 0 || indices[s] >= rows {
				return fmt.Errorf("%w: row %d not in [0,%d) (column %d)", ErrInvalidInput, indices[s], rows, j)
			}
			if s > indptr[j] && indices[s] <= indices[s-1] {
				return fmt.Errorf("%w: rows not strictly increasing in column %d", ErrInvalidInput, j)
			}
		}
	}

	return nil
}

// validateCodes ensures every code lies in [0, nCat).
// Complexity: O(len(codes)).
func validateCodes(codes []int, nCat int) error {
	if len(codes) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidInput)
	}
	if nCat <= 0 {
		return fmt.Errorf("%w: n_categories=%d", ErrInvalidInput, nCat)
	}
	for i, c := range codes {
		if c < 0 || c >= nCat {
			return fmt.Errorf("%w: code %d at row %d not in [0,%d)", ErrInvalidInput, c, i, nCat)
		}
	}

	return nil
}

// validateStatsArgs checks the (w, means) pair of ColStds.
func validateStatsArgs(w, means []float64, rows, cols int) error {
	if err := validateVecLen("w", w, rows); err != nil {
		return err
	}

	return validateVecLen("means", means, cols)
}

// resolveRows validates a row selection and expands nil into 0..n-1.
// An explicit empty selection is rejected: blocks always have rows.
func resolveRows(rows []int, n int) ([]int, error) {
	if rows == nil {
		return identity(n), nil
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty row selection", ErrInvalidInput)
	}
	if err := validateRowSelection(rows, n); err != nil {
		return nil, err
	}

	return rows, nil
}

// wrapCol maps j into [0, n) the way negative indexing does (-1 is the last column).
func wrapCol(j, n int) (int, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: block has no columns", ErrOutOfRange)
	}

	return ((j % n) + n) % n, nil
}
