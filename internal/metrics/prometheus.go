package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/vptopo/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are registered lazily on first use so that constructing the
// collector never fails; registration errors surface as panics from the
// Prometheus registry, which is the registry's own duplicate-registration
// contract.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	numThreads      prometheus.Gauge
	numVirtualProcs prometheus.Gauge
	configChanges   *prometheus.CounterVec
	configRejected  *prometheus.CounterVec
	resets          prometheus.Counter
	forcedSingle    prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "vptopo" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "vptopo"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.numThreads = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "topology",
			Name:      "local_num_threads",
			Help:      "Current per-rank thread count.",
		})

		p.numVirtualProcs = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "topology",
			Name:      "total_num_virtual_procs",
			Help:      "Current cluster-wide virtual process count.",
		})

		p.configChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "topology",
			Name:      "config_changes_total",
			Help:      "Accepted topology change requests by property kind.",
		}, []string{"kind"})

		p.configRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "topology",
			Name:      "config_rejections_total",
			Help:      "Rejected topology change requests by property kind and blocking reason.",
		}, []string{"kind", "reason"})

		p.resets = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "topology",
			Name:      "resets_total",
			Help:      "Resets to the single-thread state.",
		})

		p.forcedSingle = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "topology",
			Name:      "forced_singlethreading_total",
			Help:      "Thread count requests downgraded to one for lack of runtime parallelism.",
		})

		p.reg.MustRegister(
			p.numThreads,
			p.numVirtualProcs,
			p.configChanges,
			p.configRejected,
			p.resets,
			p.forcedSingle,
		)
	})
}

// SetNumThreads records the current per-rank thread count.
func (p *PrometheusCollector) SetNumThreads(numThreads int) {
	p.ensureRegistered()
	p.numThreads.Set(float64(numThreads))
}

// SetNumVirtualProcs records the derived cluster-wide VP count.
func (p *PrometheusCollector) SetNumVirtualProcs(numVPs int) {
	p.ensureRegistered()
	p.numVirtualProcs.Set(float64(numVPs))
}

// RecordConfigChange records an accepted topology change request.
func (p *PrometheusCollector) RecordConfigChange(kind string) {
	p.ensureRegistered()
	p.configChanges.WithLabelValues(kind).Inc()
}

// RecordConfigRejected records a rejected topology change request.
func (p *PrometheusCollector) RecordConfigRejected(kind, reason string) {
	p.ensureRegistered()
	p.configRejected.WithLabelValues(kind, reason).Inc()
}

// RecordReset records a reset to the single-thread state.
func (p *PrometheusCollector) RecordReset() {
	p.ensureRegistered()
	p.resets.Inc()
}

// RecordForcedSinglethreading records a downgrade to one thread.
func (p *PrometheusCollector) RecordForcedSinglethreading() {
	p.ensureRegistered()
	p.forcedSingle.Inc()
}
