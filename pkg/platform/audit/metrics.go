package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RegisterMetrics exports the publisher's buffer depth and drop count.
func RegisterMetrics(reg prometheus.Registerer, p *Publisher) {
	f := promauto.With(reg)
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "netra_audit_events_pending",
		Help: "Audit events buffered and not yet written to the store",
	}, func() float64 { return float64(p.Pending()) })
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "netra_audit_events_dropped_total",
		Help: "Audit events discarded because the buffer was full",
	}, func() float64 { return float64(p.Dropped()) })
}
