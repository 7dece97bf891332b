// Package glmat is a design-matrix layer for fitting generalized linear
// models on data with mixed column types: dense numeric, sparse numeric and
// one-hot categorical.
//
// Its core operation is the sandwich product Xᵀ·diag(d)·X, the dominant cost
// of IRLS and coordinate-descent solvers. glmat keeps every group of columns
// in the representation that computes that product fastest and assembles the
// full symmetric result block pair by block pair.
//
// Packages:
//
//	matrix/   — Matrix interface; Dense, Sparse, Categorical blocks; the Split
//	            composite; density splitter; sandwich dispatch table; column
//	            statistics; options, logging and Prometheus metrics hooks
//	sandwich/ — reference kernels on raw block storage (column-major dense,
//	            CSC/CSR sparse, grouped categorical codes)
//	glm/      — solver-side helpers: linear predictor over active
//	            coefficients, intercept-augmented limited sandwich
//
// Quick start:
//
//	x, _ := matrix.NewSparseFromMatrix(data)
//	X, _ := matrix.CSCToSplit(x, matrix.WithThreshold(0.1))
//	H, _ := X.Sandwich(weights)
//
// See examples/poisson_irls for a complete IRLS loop.
package glmat
