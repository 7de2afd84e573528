// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/lethe/store"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	QuerySuccessCounter  = "query_success_count"
	QueryFailureCounter  = "query_failure_count"
	QueryDurationSeconds = "query_duration_seconds"
)

// ProvideMetrics returns the metrics relevant to this package.
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: QuerySuccessCounter,
				Help: "The total number of successful storage queries",
			},
			store.TypeLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: QueryFailureCounter,
				Help: "The total number of failed storage queries",
			},
			store.TypeLabel,
		),
		touchstone.HistogramVec(
			prometheus.HistogramOpts{
				Name:    QueryDurationSeconds,
				Help:    "A histogram of storage query latencies",
				Buckets: []float64{0.0625, 0.125, .25, .5, 1, 5, 10, 20, 40, 80, 160},
			},
			store.TypeLabel,
		),
	)
}

type Measures struct {
	fx.In
	QuerySuccessCount *prometheus.CounterVec   `name:"query_success_count"`
	QueryFailureCount *prometheus.CounterVec   `name:"query_failure_count"`
	QueryDuration     *prometheus.HistogramVec `name:"query_duration_seconds"`
}
