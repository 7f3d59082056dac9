package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the verification and HTTP collectors. A nil *Metrics is a no-op.
type Metrics struct {
	Transitions     *prometheus.CounterVec
	DocumentUploads *prometheus.CounterVec
	SweepMoved      prometheus.Counter
	HTTPDuration    *prometheus.HistogramVec
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorlink_verification_transitions_total",
			Help: "Committed verification status transitions",
		}, []string{"from", "to", "user_type"}),

		DocumentUploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorlink_verification_documents_uploaded_total",
			Help: "Verification document uploads by outcome",
		}, []string{"user_type", "result"}), // result: "ok", "storage_error", "metadata_error", "rejected"

		SweepMoved: f.NewCounter(prometheus.CounterOpts{
			Name: "tutorlink_reverification_sweep_requests_total",
			Help: "Verified requests moved back to pending by the re-verification sweep",
		}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tutorlink_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncTransition(from, to, userType string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to, userType).Inc()
	}
}

func (m *Metrics) IncDocumentUpload(userType, result string) {
	if m != nil {
		m.DocumentUploads.WithLabelValues(userType, result).Inc()
	}
}

func (m *Metrics) AddSweepMoved(n int) {
	if m != nil && n > 0 {
		m.SweepMoved.Add(float64(n))
	}
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m != nil {
		m.HTTPDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
	}
}
