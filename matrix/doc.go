// SPDX-License-Identifier: MIT

// Package matrix is the design-matrix layer of glmat: dense, sparse and
// categorical column blocks behind one Matrix interface, and the Split
// composite that assembles them into a single design matrix.
//
// The central operation is the sandwich product Xᵀ·diag(d)·X. A Split computes
// it block pair by block pair through a closed dispatch table keyed by the
// blocks' Kind (dense/dense, sparse/sparse, categorical/categorical,
// sparse/dense and its reverse) and writes every pair result, and its
// transpose, into the full symmetric output. Categorical blocks paired with
// dense or sparse blocks report ErrUnsupportedOperation.
//
// Construction:
//
//   - NewDense / NewDenseFromMatrix: column-major dense block.
//   - NewSparse / NewSparseFromMatrix / NewSparseFromTriplets: CSC block.
//   - NewCategorical / NewCategoricalFromValues: one-hot block kept as codes.
//   - NewSplit / HStack: composite from blocks and their global columns.
//   - SplitSparseDense / CSCToSplit / FromMatrix: density-based split of a
//     sparse matrix into a dense and a sparse block.
//
// Every operation validates shapes first and returns a sentinel error
// (errors.Is) instead of panicking. Configuration is through functional
// options; logging (zerolog) and Prometheus metrics are injected.
//
// Results that the matrix's DType should bound (sandwich, means, stds) are
// rounded through float32 for Float32 matrices.
package matrix
