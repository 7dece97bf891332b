// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for block constructors, the
// density splitter and the Split composite. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors (panic only on nonsensical values: programmer error),
//   - gatherOptions, the single place where defaults are applied.
//
// Design goals:
//   - Deterministic behavior: no global state; loggers and metrics are injected.
//   - No dead switches: each flag changes behavior and is covered by tests.
package matrix

import (
	"math"

	"github.com/rs/zerolog"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultThreshold is the density above which a column goes to the dense
	// block in CSCToSplit.
	DefaultThreshold = 0.1

	// DefaultScaleTolerance is the distance from 1 under which every categorical
	// multiplier counts as "no scaling" and col_mult collapses back to nil.
	DefaultScaleTolerance = 1e-12

	// DefaultStdPolicy clamps negative variances (cancellation noise) at zero.
	DefaultStdPolicy = StdClamp

	// DefaultParallelism runs block pairs of a Split sandwich sequentially.
	DefaultParallelism = 1

	// DefaultDType is the element type of newly built blocks.
	DefaultDType = Float64
)

// StdPolicy decides what ColStds does with a negative variance
// E[x²] − E[x]² < 0 produced by floating-point cancellation.
type StdPolicy uint8

const (
	// StdClamp replaces negative variances with 0 and logs a warning.
	StdClamp StdPolicy = iota
	// StdStrict fails with ErrInvalidValue.
	StdStrict
)

const (
	panicScaleTolInvalid = "matrix: WithScaleTolerance: tolerance must be finite, non-negative"
	panicDTypeInvalid    = "matrix: WithDType: dtype must be Float32 or Float64"
)

// ---------- Public option type (functional) ----------

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept ...Option.
type Options struct {
	// split policy
	threshold float64 // DefaultThreshold

	// numeric policy
	scaleTol  float64   // DefaultScaleTolerance
	stdPolicy StdPolicy // DefaultStdPolicy
	dtype     DType     // DefaultDType

	// execution
	parallelism int // DefaultParallelism

	// observability
	logger  zerolog.Logger // zerolog.Nop() unless WithLogger
	metrics *Metrics       // nil ⇒ no-op
}

// WithThreshold sets the density threshold used by CSCToSplit.
// Range validation happens in the splitter, which reports ErrInvalidInput.
func WithThreshold(t float64) Option {
	return func(o *Options) { o.threshold = t }
}

// WithScaleTolerance sets the collapse tolerance for categorical multipliers.
// Panics when tol is negative, NaN or ±Inf.
func WithScaleTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicScaleTolInvalid)
	}

	return func(o *Options) { o.scaleTol = tol }
}

// WithStdPolicy selects the negative-variance policy of ColStds.
func WithStdPolicy(p StdPolicy) Option {
	return func(o *Options) { o.stdPolicy = p }
}

// WithDType sets the element type of newly constructed blocks.
// Panics for non-float dtypes.
func WithDType(dt DType) Option {
	if !dt.IsFloat() {
		panic(panicDTypeInvalid)
	}

	return func(o *Options) { o.dtype = dt }
}

// WithParallelism bounds how many block pairs a Split sandwich computes
// concurrently. Values below 1 are normalized to 1 (sequential).
//
// AI-Hints:
//   - Pairs write disjoint output cells, so p = number of pairs is the useful maximum.
func WithParallelism(p int) Option {
	return func(o *Options) { o.parallelism = p }
}

// WithLogger injects a zerolog logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithMetrics attaches kernel instrumentation (see NewMetrics).
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.metrics = m }
}

// gatherOptions applies user setters on top of the defaults (last-writer-wins)
// and normalizes derived invariants.
// Complexity: O(k) for k setters.
func gatherOptions(user ...Option) Options {
	o := Options{
		threshold:   DefaultThreshold,
		scaleTol:    DefaultScaleTolerance,
		stdPolicy:   DefaultStdPolicy,
		dtype:       DefaultDType,
		parallelism: DefaultParallelism,
		logger:      zerolog.Nop(),
	}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}
	if o.parallelism < 1 {
		o.parallelism = 1
	}

	return o
}
