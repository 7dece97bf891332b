// SPDX-License-Identifier: MIT

package matrix

// Test-Bridge (White-Box) for the dispatch table and the options snapshot.
//
// Compiled only with the package tests; matrix_test reaches the kernel-pair
// set and resolved Options through these hooks.

// HasKernel reports whether the ordered pair (a, b) has a registered kernel.
func HasKernel(a, b Kind) bool {
	_, ok := sandwichTable[pairKey{a, b}]

	return ok
}

// KernelPairCount returns the number of registered ordered pairs.
func KernelPairCount() int { return len(sandwichTable) }

// OptionsSnapshot is a read-only view of resolved Options.
type OptionsSnapshot struct {
	Threshold   float64
	ScaleTol    float64
	StdPolicy   StdPolicy
	DType       DType
	Parallelism int
	HasMetrics  bool
}

// GatherOptionsSnapshot resolves opts the way constructors do.
func GatherOptionsSnapshot(opts ...Option) OptionsSnapshot {
	o := gatherOptions(opts...)

	return OptionsSnapshot{
		Threshold:   o.threshold,
		ScaleTol:    o.scaleTol,
		StdPolicy:   o.stdPolicy,
		DType:       o.dtype,
		Parallelism: o.parallelism,
		HasMetrics:  o.metrics != nil,
	}
}
