// SPDX-License-Identifier: MIT

// Package glm holds the solver-side helpers that sit directly on top of a
// design matrix: the linear predictor η = Xβ (+ intercept, + offset) evaluated
// over the active coefficients only, and the intercept-augmented limited
// sandwich used to build the Hessian approximation of an IRLS or
// coordinate-descent step.
//
// The solver loop, link functions and penalties are not part of this module.
package glm
