// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Thin entry points for the common construction paths.
//   - No logic duplication: each facade delegates to the canonical constructor.

package matrix

import "gonum.org/v1/gonum/mat"

// FromMatrix compresses a gonum matrix and density-splits it into a Split
// (threshold from WithThreshold). Options apply to both blocks and the composite.
//
// AI-Hints:
//   - Use NewSplit directly when categorical groups are already known; the
//     density split only sees numeric columns.
func FromMatrix(m mat.Matrix, opts ...Option) (*Split, error) {
	x, err := NewSparseFromMatrix(m, opts...)
	if err != nil {
		return nil, err
	}

	return CSCToSplit(x, opts...)
}

// HStack places blocks side by side: block b owns the next Cols() global
// columns. Zero-column blocks are kept and own nothing.
//
// Errors: as NewSplit.
func HStack(blocks []Matrix, opts ...Option) (*Split, error) {
	indices := make([][]int, len(blocks))
	var next int
	for b, m := range blocks {
		if m == nil {
			return nil, detailErrorf(opNewSplit, ErrNilMatrix, "block %d", b)
		}
		indices[b] = make([]int, m.Cols())
		for l := range indices[b] {
			indices[b][l] = next
			next++
		}
	}

	return NewSplit(blocks, indices, opts...)
}
