package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/weft-ui/weft/pkg/vdom"
)

// metricsNamespace is the Prometheus namespace for all engine metrics.
const metricsNamespace = "weft"

// metrics holds the engine's Prometheus collectors. nil when metrics are
// not configured; every method is nil-safe so the hot path needs no
// branching at call sites.
type metrics struct {
	passesTotal      prometheus.Counter
	patchesTotal     *prometheus.CounterVec
	passDuration     prometheus.Histogram
	frameBytes       prometheus.Histogram
	historyEvictions prometheus.Counter
	subscribers      prometheus.Gauge
	applyFaults      prometheus.Counter
	archiveErrors    prometheus.Counter
}

// newMetrics registers the engine collectors with reg.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		passesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "passes_total",
			Help:      "Total number of reconcile passes",
		}),

		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "patches_total",
			Help:      "Total number of patches produced, by operation",
		}, []string{"op"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "pass_duration_seconds",
			Help:      "Reconcile pass duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		frameBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "frame_bytes",
			Help:      "Encoded patch frame size in bytes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),

		historyEvictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "history_evictions_total",
			Help:      "Frames evicted from the in-memory history ring",
		}),

		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "subscribers",
			Help:      "Live frame subscribers",
		}),

		applyFaults: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "apply_faults_total",
			Help:      "Patches the mirror tree could not apply cleanly",
		}),

		archiveErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "archive_errors_total",
			Help:      "Failed archive writes",
		}),
	}
}

func (m *metrics) pass(patches []vdom.Patch, seconds float64, frameLen int) {
	if m == nil {
		return
	}
	m.passesTotal.Inc()
	m.passDuration.Observe(seconds)
	m.frameBytes.Observe(float64(frameLen))
	for _, p := range patches {
		m.patchesTotal.WithLabelValues(p.Op.String()).Inc()
	}
}

func (m *metrics) eviction() {
	if m != nil {
		m.historyEvictions.Inc()
	}
}

func (m *metrics) subscriberDelta(d float64) {
	if m != nil {
		m.subscribers.Add(d)
	}
}

func (m *metrics) fault() {
	if m != nil {
		m.applyFaults.Inc()
	}
}

func (m *metrics) archiveError() {
	if m != nil {
		m.archiveErrors.Inc()
	}
}
