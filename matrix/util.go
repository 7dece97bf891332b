// SPDX-License-Identifier: MIT

package matrix

import "slices"

// identity returns 0..n-1.
func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

// cloneFloats copies xs; nil stays nil.
func cloneFloats(xs []float64) []float64 { return slices.Clone(xs) }

// gatherFloats returns xs[idx[0]], xs[idx[1]], ...
func gatherFloats(xs []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for p, i := range idx {
		out[p] = xs[i]
	}

	return out
}

// maskWeights returns d restricted to rows: zero outside the selection and
// d[r] once per occurrence of r, so a repeated row counts repeatedly.
// nil rows returns d itself.
func maskWeights(d []float64, rows []int) []float64 {
	if rows == nil {
		return d
	}
	out := make([]float64, len(d))
	for _, r := range rows {
		out[r] += d[r]
	}

	return out
}

// gatherInts returns xs[idx[0]], xs[idx[1]], ...
func gatherInts(xs, idx []int) []int {
	out := make([]int, len(idx))
	for p, i := range idx {
		out[p] = xs[i]
	}

	return out
}
