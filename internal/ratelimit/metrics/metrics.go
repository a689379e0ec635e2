package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FailuresRecorded prometheus.Counter
	LockoutsTotal    prometheus.Counter
	LockedClients    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FailuresRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "netra_verification_failures_recorded_total",
			Help: "Total number of failed clinic verifications recorded for lockout",
		}),
		LockoutsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "netra_verification_lockouts_total",
			Help: "Total number of clients locked out of clinic verification",
		}),
		LockedClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "netra_verification_locked_clients",
			Help: "Clients currently locked out, sampled by the in-memory sweeper",
		}),
	}
}

func (m *Metrics) IncrementFailures() {
	m.FailuresRecorded.Inc()
}

func (m *Metrics) IncrementLockouts() {
	m.LockoutsTotal.Inc()
}

func (m *Metrics) SetLockedClients(n int) {
	m.LockedClients.Set(float64(n))
}
