package cancellation

import "github.com/prometheus/client_golang/prometheus"

// PrometheusMetrics exports a *Metrics collector's counters to Prometheus. It
// implements prometheus.Collector directly (a pull-model collector reading
// Metrics.Snapshot at scrape time) rather than mirroring each atomic counter
// into a parallel set of promauto counters, so there is exactly one source
// of truth for the numbers and no risk of the two drifting apart.
//
// Unlike the promauto-based pattern used elsewhere in the example corpus,
// this takes an explicit prometheus.Registerer rather than registering
// against the global default registry, since this package is a library: a
// process embedding more than one Task-driving component can register each
// one's metrics into its own registry. Metric names always use the fixed
// "cancellation" prefix, so registering two PrometheusMetrics against the
// same Registerer fails on the second registration.
type PrometheusMetrics struct {
	metrics *Metrics

	started          *prometheus.Desc
	finished         *prometheus.Desc
	cancelled        *prometheus.Desc
	executorShutdown *prometheus.Desc
	guardsHeld       *prometheus.Desc
	guardsHeldMax    *prometheus.Desc
}

// NewPrometheusMetrics builds a collector over m. It must be registered (see
// RegisterPrometheusMetrics) before Prometheus will scrape it.
func NewPrometheusMetrics(m *Metrics) *PrometheusMetrics {
	const namespace = "cancellation"
	return &PrometheusMetrics{
		metrics: m,
		started: prometheus.NewDesc(
			namespace+"_tasks_started_total", "Total tasks started.", nil, nil),
		finished: prometheus.NewDesc(
			namespace+"_tasks_finished_total", "Total tasks that finished without being cancelled.", nil, nil),
		cancelled: prometheus.NewDesc(
			namespace+"_tasks_cancelled_total", "Total tasks that ended cancelled.", nil, nil),
		executorShutdown: prometheus.NewDesc(
			namespace+"_tasks_executor_shutdown_total", "Total tasks recorded as ExecutorShutdown; the finalizer that reports ExecutorShutdown does not increment it.", nil, nil),
		guardsHeld: prometheus.NewDesc(
			namespace+"_guards_held", "Critical section guards currently held open.", nil, nil),
		guardsHeldMax: prometheus.NewDesc(
			namespace+"_guards_held_max", "Maximum number of critical section guards ever held open concurrently.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (p *PrometheusMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.started
	ch <- p.finished
	ch <- p.cancelled
	ch <- p.executorShutdown
	ch <- p.guardsHeld
	ch <- p.guardsHeldMax
}

// Collect implements prometheus.Collector.
func (p *PrometheusMetrics) Collect(ch chan<- prometheus.Metric) {
	snap := p.metrics.Snapshot()
	ch <- prometheus.MustNewConstMetric(p.started, prometheus.CounterValue, float64(snap.TasksStarted))
	ch <- prometheus.MustNewConstMetric(p.finished, prometheus.CounterValue, float64(snap.TasksFinished))
	ch <- prometheus.MustNewConstMetric(p.cancelled, prometheus.CounterValue, float64(snap.TasksCancelled))
	ch <- prometheus.MustNewConstMetric(p.executorShutdown, prometheus.CounterValue, float64(snap.TasksExecutorShutdown))
	ch <- prometheus.MustNewConstMetric(p.guardsHeld, prometheus.GaugeValue, float64(snap.GuardsHeld))
	ch <- prometheus.MustNewConstMetric(p.guardsHeldMax, prometheus.GaugeValue, float64(snap.GuardsHeldMax))
}

// RegisterPrometheusMetrics builds a PrometheusMetrics over m and registers
// it against reg.
func RegisterPrometheusMetrics(reg prometheus.Registerer, m *Metrics) (*PrometheusMetrics, error) {
	pm := NewPrometheusMetrics(m)
	if err := reg.Register(pm); err != nil {
		return nil, err
	}
	return pm, nil
}
