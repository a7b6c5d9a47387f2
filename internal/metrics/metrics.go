package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipe_generator"

var (
	storeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "requests_total",
			Help:      "Record store calls by backend, table, operation and outcome",
		},
		[]string{"backend", "table", "op", "outcome"},
	)

	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "request_duration_seconds",
			Help:      "Record store call latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend", "table", "op"},
	)

	generationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Generation calls by kind, provider and outcome",
		},
		[]string{"kind", "provider", "outcome"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "request_duration_seconds",
			Help:      "Generation call latency",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		},
		[]string{"kind", "provider"},
	)

	generatedCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "candidates",
			Help:      "Usable recipe candidates per generation call",
			Buckets:   []float64{0, 1, 2, 3, 5, 7, 10},
		},
		[]string{"provider"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveStore records one store call started at start.
func ObserveStore(backend, table, op string, start time.Time, err error) {
	storeRequests.WithLabelValues(backend, table, op, outcome(err)).Inc()
	storeDuration.WithLabelValues(backend, table, op).Observe(time.Since(start).Seconds())
}

func ObserveGeneration(kind, provider string, start time.Time, err error) {
	generationRequests.WithLabelValues(kind, provider, outcome(err)).Inc()
	generationDuration.WithLabelValues(kind, provider).Observe(time.Since(start).Seconds())
}

func ObserveCandidates(provider string, n int) {
	generatedCandidates.WithLabelValues(provider).Observe(float64(n))
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
