// SPDX-License-Identifier: MIT
// Package: matrix
//
// Column statistics shared by every block kind. Blocks compute the weighted
// second moment E[x²] per column; finishStds turns it into a standard
// deviation under the configured StdPolicy.

package matrix

import (
	"math"
)

// finishStds returns sqrt(sq[j] − means[j]²) per column, reusing sq.
//
// Negative variances come from cancellation in E[x²] − E[x]². Under StdClamp
// they become 0 and one warning reports how many columns were clamped; under
// StdStrict the first one fails with ErrInvalidValue.
//
// Complexity: O(cols).
func finishStds(o *Options, dt DType, sq, means []float64) ([]float64, error) {
	var clamped int
	var v float64
	for j := range sq {
		v = sq[j] - means[j]*means[j]
		if v < 0 {
			if o.stdPolicy == StdStrict {
				return nil, detailErrorf(opColStds, ErrInvalidValue, "negative variance %g in column %d", v, j)
			}
			clamped++
			v = 0
		}
		sq[j] = math.Sqrt(v)
	}
	if clamped > 0 {
		o.logger.Warn().Int("columns", clamped).Msg("negative variance clamped to zero")
	}

	return dt.roundInPlace(sq), nil
}
