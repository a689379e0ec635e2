package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts account creation attempts.
type Metrics struct {
	AccountsCreated  prometheus.Counter
	CreationRejected *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AccountsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "netra_accounts_created_total",
			Help: "Clinic accounts created",
		}),
		CreationRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netra_account_creation_rejected_total",
			Help: "Account creations rejected, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.AccountsCreated.Inc()
}

func (m *Metrics) IncrementRejected(reason string) {
	m.CreationRejected.WithLabelValues(reason).Inc()
}
