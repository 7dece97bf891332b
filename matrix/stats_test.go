// SPDX-License-Identifier: MIT

package matrix_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/glmat/matrix"
)

// Means larger than sqrt(E[x²]) force a negative variance.
func TestColStds_NegativeVariancePolicy(t *testing.T) {
	t.Parallel()
	w := []float64{0.5, 0.5}
	means := []float64{2, 1}

	t.Run("clamp", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		m, err := matrix.NewDense(2, 2, []float64{1, 1, 1, 1}, matrix.WithLogger(zerolog.New(&buf)))
		require.NoError(t, err)

		stds, err := m.ColStds(w, means)
		require.NoError(t, err)
		require.Equal(t, []float64{0, 0}, stds)
		require.Contains(t, buf.String(), "negative variance clamped")
		require.Contains(t, buf.String(), `"columns":1`)
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()
		m, err := matrix.NewDense(2, 2, []float64{1, 1, 1, 1}, matrix.WithStdPolicy(matrix.StdStrict))
		require.NoError(t, err)

		_, err = m.ColStds(w, means)
		require.ErrorIs(t, err, matrix.ErrInvalidValue)
	})

	t.Run("categorical strict", func(t *testing.T) {
		t.Parallel()
		c := mustCategorical(t, []int{0, 1}, 2, nil, matrix.WithStdPolicy(matrix.StdStrict))
		_, err := c.ColStds(w, []float64{0.5, 3})
		require.ErrorIs(t, err, matrix.ErrInvalidValue)
	})
}
