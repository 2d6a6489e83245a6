// Package metrics defines the Prometheus instruments exported by cartlift.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartlift_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cartlift_http_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	// Recommendation queries
	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cartlift_recommendation_results",
			Help:    "Number of recommendations returned per query",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)

	RecommendationMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cartlift_recommendation_misses_total",
			Help: "Queries that returned no recommendations",
		},
	)

	// Rule table
	RuleTableSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cartlift_rule_table_rules",
			Help: "Number of rules in the served rule table",
		},
	)

	RuleTableReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartlift_rule_table_reloads_total",
			Help: "Rule table reload attempts by outcome",
		},
		[]string{"outcome"}, // "success", "error"
	)

	// Training
	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cartlift_training_stage_duration_seconds",
			Help:    "Duration of training stages in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"stage"}, // "read", "clean", "sample", "aggregate", "rules", "save"
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation records the size of one recommendation result.
func RecordRecommendation(results int) {
	RecommendationResults.Observe(float64(results))
	if results == 0 {
		RecommendationMisses.Inc()
	}
}

// RecordReload records a rule table reload attempt.
func RecordReload(err error) {
	if err != nil {
		RuleTableReloads.WithLabelValues("error").Inc()
		return
	}
	RuleTableReloads.WithLabelValues("success").Inc()
}

// RecordTrainingStage records how long a training stage took.
func RecordTrainingStage(stage string, duration time.Duration) {
	TrainingDuration.WithLabelValues(stage).Observe(duration.Seconds())
}
