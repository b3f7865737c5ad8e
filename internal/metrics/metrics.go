package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AllocationsIssued   prometheus.Counter
	AllocationConflicts prometheus.Counter
	RangesExhausted     prometheus.Counter
	DonationsCreated    prometheus.Counter
}

// New creates and registers all metrics against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AllocationsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "devasthan_allocations_issued_total",
			Help: "Total number of receipt numbers successfully allocated",
		}),
		AllocationConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "devasthan_allocation_conflicts_total",
			Help: "Total number of lost conditional-update races during allocation",
		}),
		RangesExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "devasthan_ranges_exhausted_total",
			Help: "Total number of ranges that reached their final number",
		}),
		DonationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "devasthan_donations_created_total",
			Help: "Total number of donation receipts recorded",
		}),
	}
}
