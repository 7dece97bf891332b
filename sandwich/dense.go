// SPDX-License-Identifier: MIT

package sandwich

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// Dense computes Xᵀ·diag(d)·X over the selected columns of a column-major block.
// The result is row-major len(cols)×len(cols).
//
// Implementation:
//   - Stage 1: gather the selected columns into a contiguous buffer (skipped for nil cols).
//   - Stage 2: build W = diag(d)·X column by column.
//   - Stage 3: one Gemm on the transposed views: out = Xᵀ·W.
//
// Complexity: O(n·k²) flops, O(n·k) extra space for W.
func Dense(x ColMajor, d []float64, cols []int) []float64 {
	return DenseCross(x, cols, x, cols, d)
}

// DenseCross computes Aᵀ·diag(d)·B for two column-major blocks sharing n rows.
// The result is row-major len(colsA)×len(colsB).
//
// The column-major n×k buffer is, read row-major, the k×n matrix Xᵀ; the
// kernel therefore hands blas64 the buffers as-is and asks for A·Wᵀ.
func DenseCross(a ColMajor, colsA []int, b ColMajor, colsB []int, d []float64) []float64 {
	mustLen("d", len(d), a.Rows)
	mustLen("rows", b.Rows, a.Rows)
	colsA = resolveCols(colsA, a.Cols)
	colsB = resolveCols(colsB, b.Cols)
	n, ka, kb := a.Rows, len(colsA), len(colsB)
	out := make([]float64, ka*kb)
	if n == 0 || ka == 0 || kb == 0 {
		return out
	}

	at := gather(a, colsA)
	w := make([]float64, kb*n)
	for q, c := range colsB {
		floats.MulTo(w[q*n:(q+1)*n], d, b.Column(c))
	}

	blas64.Gemm(blas.NoTrans, blas.Trans, 1,
		blas64.General{Rows: ka, Cols: n, Stride: n, Data: at},
		blas64.General{Rows: kb, Cols: n, Stride: n, Data: w},
		0,
		blas64.General{Rows: ka, Cols: kb, Stride: kb, Data: out},
	)

	return out
}

// gather returns the selected columns as one contiguous column-major buffer.
// When cols is the identity selection over the whole block it aliases x.Data.
func gather(x ColMajor, cols []int) []float64 {
	if len(cols) == x.Cols && isIdentity(cols) {
		return x.Data[:x.Rows*x.Cols]
	}
	buf := make([]float64, x.Rows*len(cols))
	for p, c := range cols {
		copy(buf[p*x.Rows:(p+1)*x.Rows], x.Column(c))
	}

	return buf
}

func isIdentity(cols []int) bool {
	for p, c := range cols {
		if p != c {
			return false
		}
	}

	return true
}
