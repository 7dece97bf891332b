// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Every operation returns one of these sentinels (wrapped with an
// operation tag) and tests MUST check them via errors.Is. No operation panics
// on user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency. Sentinels are
// wrapped once at the detection site with matrixErrorf(op, err), which keeps
// the "<Op>: matrix: <reason>" shape and preserves errors.Is matching.
//
// Propagation policy: fail fast, no retries. Computation is deterministic, so
// retrying can never change the outcome.

var (
	// ErrInvalidInput signals malformed construction arguments: wrong layout,
	// out-of-range threshold, codes outside [0, n_categories), indices that do
	// not partition the columns, block row counts that disagree.
	ErrInvalidInput = errors.New("matrix: invalid input")

	// ErrUnsupportedOperation marks an intentionally unsupported operation:
	// column reslicing of a Split, a block-kind pair without a sandwich kernel,
	// nesting a Split inside a Split.
	ErrUnsupportedOperation = errors.New("matrix: unsupported operation")

	// ErrShapeMismatch signals operand shape disagreement in Dot, TransposeDot,
	// Sandwich, statistics and scaling (vector length vs matrix dimension).
	ErrShapeMismatch = errors.New("matrix: shape mismatch")

	// ErrInvalidValue signals a numerically invalid result, e.g. a negative
	// variance before a square root under StdStrict.
	ErrInvalidValue = errors.New("matrix: invalid numeric value")

	// ErrOutOfRange indicates a column or row index outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)

// Operation tags for error wrapping (no magic strings at call sites).
const (
	opNewDense        = "NewDense"
	opNewSparse       = "NewSparse"
	opNewCategorical  = "NewCategorical"
	opNewSplit        = "NewSplit"
	opSplitSparse     = "SplitSparseDense"
	opDot             = "Dot"
	opDotMat          = "DotMat"
	opTransposeDot    = "TransposeDot"
	opTransposeDotMat = "TransposeDotMat"
	opSandwich        = "Sandwich"
	opAt              = "At"
	opColMeans        = "ColMeans"
	opColStds         = "ColStds"
	opScaleCols       = "ScaleColsInPlace"
	opAsType          = "AsType"
	opCol             = "Col"
	opSelectRows      = "SelectRows"
	opIndex           = "Index"
	opLimitedDot      = "LimitedDot"
	opLimitedTDot     = "LimitedTransposeDot"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
// Complexity: O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// detailErrorf wraps a sentinel with an operation tag and a formatted detail,
// e.g. "Dot: matrix: shape mismatch: got 3, want 4".
func detailErrorf(tag string, err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", tag, err, fmt.Sprintf(format, args...))
}

// nilInputErrorf tags a nil operand as both ErrNilMatrix and ErrInvalidInput.
func nilInputErrorf(tag string) error {
	return fmt.Errorf("%s: %w: %w", tag, ErrNilMatrix, ErrInvalidInput)
}
