// SPDX-License-Identifier: MIT

package glm

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/glmat/matrix"
)

// LinearPredictor returns η = X·β + β₀ + offset.
//
// coef has either X.Cols() entries (no intercept) or X.Cols()+1 entries with
// the intercept first. Only nonzero coefficients take part in the product, so
// a sparse β skips inactive blocks of a Split. offset may be nil.
//
// Errors: matrix.ErrNilMatrix; matrix.ErrShapeMismatch for a coef or offset of
// the wrong length.
// Complexity: one limited dot over the active columns, plus O(rows).
func LinearPredictor(x matrix.Matrix, coef, offset []float64) ([]float64, error) {
	if x == nil {
		return nil, fmt.Errorf("LinearPredictor: %w", matrix.ErrNilMatrix)
	}
	k := x.Cols()
	var intercept float64
	switch len(coef) {
	case k:
	case k + 1:
		intercept, coef = coef[0], coef[1:]
	default:
		return nil, fmt.Errorf("LinearPredictor: %w: len(coef)=%d, want %d or %d", matrix.ErrShapeMismatch, len(coef), k, k+1)
	}
	if offset != nil && len(offset) != x.Rows() {
		return nil, fmt.Errorf("LinearPredictor: %w: len(offset)=%d, want %d", matrix.ErrShapeMismatch, len(offset), x.Rows())
	}

	active := make([]int, 0, k)
	for j, b := range coef {
		if b != 0 {
			active = append(active, j)
		}
	}

	var eta []float64
	if len(active) == 0 {
		eta = make([]float64, x.Rows())
	} else {
		var err error
		if eta, err = matrix.LimitedDot(x, coef, nil, active); err != nil {
			return nil, fmt.Errorf("LinearPredictor: %w", err)
		}
	}
	if intercept != 0 {
		floats.AddConst(intercept, eta)
	}
	if offset != nil {
		floats.Add(eta, offset)
	}

	return eta, nil
}

// SandwichWithIntercept returns the limited sandwich X[rows, cols]ᵀ·D·X[rows, cols]
// and, when intercept is set, borders it with the intercept column of ones:
//
//	[ Σ d[rows]          (Xᵀd)[cols]ᵀ ]
//	[ (Xᵀd)[cols]        sandwich     ]
//
// nil rows means all rows, nil cols all columns.
//
// Errors: as matrix.Matrix.SandwichLimited and matrix.LimitedTransposeDot.
func SandwichWithIntercept(x matrix.Matrix, d []float64, rows, cols []int, intercept bool) (*mat.SymDense, error) {
	if x == nil {
		return nil, fmt.Errorf("SandwichWithIntercept: %w", matrix.ErrNilMatrix)
	}
	inner, err := x.SandwichLimited(d, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("SandwichWithIntercept: %w", err)
	}
	if !intercept {
		return inner, nil
	}

	border, err := matrix.LimitedTransposeDot(x, d, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("SandwichWithIntercept: %w", err)
	}
	var total float64
	if rows == nil {
		total = floats.Sum(d)
	} else {
		for _, r := range rows {
			total += d[r]
		}
	}

	k := len(border)
	out := mat.NewSymDense(k+1, nil)
	out.SetSym(0, 0, total)
	var i, j int
	for i = 0; i < k; i++ {
		out.SetSym(0, i+1, border[i])
		for j = i; j < k; j++ {
			out.SetSym(i+1, j+1, inner.At(i, j))
		}
	}

	return out, nil
}
