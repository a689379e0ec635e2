package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for verification attempts.
const (
	OutcomeVerified     = "verified"
	OutcomeNotFound     = "not_found"
	OutcomeMissingInput = "missing_input"
	OutcomeRateLimited  = "rate_limited"
	OutcomeError        = "error"
)

// Metrics tracks clinic verification volume and latency.
type Metrics struct {
	Verifications        *prometheus.CounterVec
	VerificationDuration prometheus.Histogram
	RegistrySize         prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netra_clinic_verifications_total",
			Help: "Clinic license verifications by outcome",
		}, []string{"outcome"}),
		VerificationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "netra_clinic_verification_duration_seconds",
			Help:    "Duration of clinic verification lookups",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		RegistrySize: f.NewGauge(prometheus.GaugeOpts{
			Name: "netra_clinic_registry_size",
			Help: "Number of clinics loaded into the registry",
		}),
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	m.Verifications.WithLabelValues(outcome).Inc()
}

// ObserveVerification records the duration of a verification.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveVerification(start time.Time) {
	m.VerificationDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetRegistrySize(n int) {
	m.RegistrySize.Set(float64(n))
}
