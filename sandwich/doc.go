// SPDX-License-Identifier: MIT

// Package sandwich holds the raw kernels behind matrix.Sandwich: functions that
// compute Aᵀ·diag(d)·B for one pair of column blocks given their block-local
// storage.
//
// Kernels:
//   - Dense / DenseCross        — column-major blocks, two BLAS-3 calls (blas64.Gemm).
//   - Sparse / SparseCross      — CSC blocks walked row-wise through a CSR view.
//   - SparseDense               — CSC block against a column-major block.
//   - CategoricalDiag           — segment-sum of d over rows grouped by category.
//   - CategoricalCross          — weighted contingency table of two code vectors.
//
// Contract:
//   - Inputs are trusted: the matrix package validates shapes before calling in.
//     A raw length mismatch is a programmer error and panics.
//   - Column lists select and order the output; nil means "all columns".
//   - Every kernel returns a fresh row-major len(colsA)×len(colsB) slice.
//   - Kernels never mutate their inputs and are safe to call concurrently on
//     shared read-only storage.
//
// AI-Hints:
//   - Restrict rows by zeroing d outside the active set; kernels skip nothing
//     else, so the masked weight vector is the cheapest row filter.
//   - Prefer Dense for columns with density above ~10%, Sparse below.
package sandwich
