package seqpool

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics exports the pool counters as Prometheus
// collectors. It satisfies MetricsPolicy.
type PrometheusMetrics struct {
	JobsDispatched prometheus.Counter
	JobsExecuted   prometheus.Counter
	JobsDelivered  prometheus.Counter
	JobsDropped    prometheus.Counter
}

// NewPrometheusMetrics creates and registers the pool collectors on
// the default registry.
func NewPrometheusMetrics(namespace, subsystem string) *PrometheusMetrics {
	m := &PrometheusMetrics{
		JobsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_dispatched_total",
			Help:      "Total number of jobs admitted to pool queues",
		}),
		JobsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_executed_total",
			Help:      "Total number of job functions run by workers",
		}),
		JobsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "results_delivered_total",
			Help:      "Total number of results consumed from output queues",
		}),
		JobsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_dropped_total",
			Help:      "Total number of jobs discarded on queue destruction",
		}),
	}
	prometheus.MustRegister(
		m.JobsDispatched,
		m.JobsExecuted,
		m.JobsDelivered,
		m.JobsDropped,
	)
	return m
}

func (m *PrometheusMetrics) IncDispatched() { m.JobsDispatched.Inc() }
func (m *PrometheusMetrics) IncExecuted()   { m.JobsExecuted.Inc() }
func (m *PrometheusMetrics) IncDelivered()  { m.JobsDelivered.Inc() }

func (m *PrometheusMetrics) AddDropped(n int64) {
	m.JobsDropped.Add(float64(n))
}
