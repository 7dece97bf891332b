// SPDX-License-Identifier: MIT

// Package matrix: the polymorphic Matrix surface and the block-kind tags used
// by the sandwich dispatch table.
package matrix

import "gonum.org/v1/gonum/mat"

// Kind tags the concrete representation of a Matrix. The sandwich dispatch
// table is keyed by ordered pairs of Kind, which keeps the kernel-pair set
// closed and checkable in tests.
type Kind uint8

const (
	// KindDense is a column-major dense block (*Dense).
	KindDense Kind = iota + 1
	// KindSparse is a compressed-sparse-column block (*Sparse).
	KindSparse
	// KindCategorical is a one-hot categorical block (*Categorical).
	KindCategorical
	// KindSplit is the composite (*Split). It never appears inside a Split.
	KindSplit
)

// String returns the lower-case kind name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSparse:
		return "sparse"
	case KindCategorical:
		return "categorical"
	case KindSplit:
		return "split"
	default:
		return "unknown"
	}
}

// pairKey is an ordered pair of block kinds (a = left operand, b = right).
type pairKey struct {
	a Kind
	b Kind
}

func (p pairKey) String() string { return p.a.String() + "/" + p.b.String() }

// Matrix is the capability set shared by every block kind and by Split.
//
// Conventions:
//   - Vectors are []float64; 2-D operands and results are gonum *mat.Dense.
//   - Weight vectors have length Rows(); column vectors have length Cols().
//   - Shape disagreement returns ErrShapeMismatch; nothing panics on user input.
//   - ColMeans/ColStds expect weights that sum to one.
type Matrix interface {
	// Rows returns the number of rows. Complexity: O(1).
	Rows() int
	// Cols returns the number of columns. Complexity: O(1).
	Cols() int
	// Shape packs Rows() and Cols(). Complexity: O(1).
	Shape() (rows, cols int)
	// DType returns the semantic element type.
	DType() DType
	// Kind returns the representation tag.
	Kind() Kind

	// Dot returns X·v, len(v) == Cols().
	Dot(v []float64) ([]float64, error)
	// DotMat returns X·B, B.Rows == Cols().
	DotMat(b *mat.Dense) (*mat.Dense, error)
	// TransposeDot returns Xᵀ·v, len(v) == Rows().
	TransposeDot(v []float64) ([]float64, error)
	// TransposeDotMat returns Xᵀ·B, B.Rows == Rows().
	TransposeDotMat(b *mat.Dense) (*mat.Dense, error)

	// Sandwich returns Xᵀ·diag(d)·X (Cols()×Cols(), exactly symmetric).
	Sandwich(d []float64) (*mat.SymDense, error)
	// SandwichLimited returns X[rows, cols]ᵀ·diag(d[rows])·X[rows, cols].
	// nil rows means all rows; nil cols means all columns in natural order.
	SandwichLimited(d []float64, rows, cols []int) (*mat.SymDense, error)

	// ColMeans returns Σ_i w_i·X[i,j] per column.
	ColMeans(w []float64) ([]float64, error)
	// ColStds returns sqrt(Σ_i w_i·X[i,j]² − means[j]²) per column.
	ColStds(w, means []float64) ([]float64, error)
	// ScaleColsInPlace multiplies column j by s[j].
	ScaleColsInPlace(s []float64) error

	// AsType casts to dt; copy=false mutates and returns the receiver.
	AsType(dt DType, copy bool) (Matrix, error)
	// Col returns column j as a dense vector; j wraps modulo Cols().
	Col(j int) ([]float64, error)
	// ToDense materializes the matrix as a gonum row-major Dense.
	ToDense() *mat.Dense
	// SelectRows returns a new matrix made of the given rows (nil = all).
	SelectRows(rows []int) (Matrix, error)
}

// Compile-time conformance.
var (
	_ Matrix = (*Dense)(nil)
	_ Matrix = (*Sparse)(nil)
	_ Matrix = (*Categorical)(nil)
	_ Matrix = (*Split)(nil)
)
