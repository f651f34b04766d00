package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"smsclassifier/internal/domain"
)

// Metrics counts predictions served over HTTP.
type Metrics struct {
	predictions *prometheus.CounterVec
	errors      prometheus.Counter
	duration    prometheus.Histogram
}

// NewMetrics registers the classifier collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smsclassifier",
			Name:      "predictions_total",
			Help:      "Messages classified, by label.",
		}, []string{"label"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smsclassifier",
			Name:      "prediction_errors_total",
			Help:      "Classification requests that failed in the vectorizer or classifier.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smsclassifier",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent classifying one message.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
	}
	reg.MustRegister(m.predictions, m.errors, m.duration)
	return m
}

func (m *Metrics) observe(label domain.Label, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	if err != nil {
		m.errors.Inc()
		return
	}
	m.predictions.WithLabelValues(string(label)).Inc()
}
