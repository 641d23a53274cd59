package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the reissuance engine
type Metrics struct {
	RunsStarted     prometheus.Counter
	RunsCompleted   prometheus.Counter
	RunsFailed      prometheus.Counter
	RunsCancelled   prometheus.Counter
	TicketsIssued   prometheus.Counter
	DegradedTickets prometheus.Counter
	ProcessingTime  prometheus.Histogram
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered against reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "The total number of reissuance runs launched",
		}),
		RunsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_completed_total",
			Help:      "The total number of reissuance runs completed",
		}),
		RunsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "The total number of reissuance runs that failed",
		}),
		RunsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_cancelled_total",
			Help:      "The total number of reissuance runs cancelled before completion",
		}),
		TicketsIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_issued_total",
			Help:      "The total number of tickets issued",
		}),
		DegradedTickets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_tickets_total",
			Help:      "The total number of tickets issued from unresolvable bookings",
		}),
		ProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_processing_time_seconds",
			Help:      "Time taken to process a reissuance run",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
