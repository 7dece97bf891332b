// SPDX-License-Identifier: MIT

package matrix

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the sandwich dispatch table:
//   - glmat_sandwich_kernel_duration_seconds{pair}: wall time per kernel call,
//   - glmat_sandwich_unsupported_total{pair}: lookups with no kernel.
//
// The pair label is the ordered "kind/kind" key that served the call.
// A nil *Metrics is a valid no-op.
type Metrics struct {
	KernelDuration *prometheus.HistogramVec
	Unsupported    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors (useful in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		KernelDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glmat_sandwich_kernel_duration_seconds",
				Help:    "Duration of sandwich pair kernels in seconds",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12), // 1µs .. ~4s
			},
			[]string{"pair"},
		),
		Unsupported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glmat_sandwich_unsupported_total",
				Help: "Total number of block pairs without a sandwich kernel",
			},
			[]string{"pair"},
		),
	}
}

func (m *Metrics) observeKernel(pair pairKey, d time.Duration) {
	if m == nil {
		return
	}
	m.KernelDuration.WithLabelValues(pair.String()).Observe(d.Seconds())
}

func (m *Metrics) countUnsupported(pair pairKey) {
	if m == nil {
		return
	}
	m.Unsupported.WithLabelValues(pair.String()).Inc()
}
