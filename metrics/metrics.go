package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptui_submissions_total",
		Help: "Prompt submissions by outcome.",
	}, []string{"outcome"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "promptui_inflight",
		Help: "Submissions waiting on the query endpoint.",
	})

	duration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "promptui_submission_duration_seconds",
		Help:    "Time from sending the prompt to settling the submission.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

// ObserveSubmission records one settled submission.
func ObserveSubmission(outcome string, elapsed time.Duration) {
	submissions.WithLabelValues(outcome).Inc()
	duration.Observe(elapsed.Seconds())
}

// SetInFlight publishes the current in-flight count.
func SetInFlight(n int) {
	inFlight.Set(float64(n))
}
