package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tilesim/server/internal/tile"
)

const namespace = "tilesim"

// Metrics holds the Prometheus collectors for the animation pass. It
// implements animtile.PassObserver.
type Metrics struct {
	gatherer prometheus.Gatherer

	passDuration prometheus.Histogram
	passes       prometheus.Counter
	animated     prometheus.Gauge
	dispatched   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "animation",
			Name:      "pass_duration_seconds",
			Help:      "Wall time of one animated-tile dispatch pass.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "animation",
			Name:      "passes_total",
			Help:      "Dispatch passes run.",
		}),
		animated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "animation",
			Name:      "registry_tiles",
			Help:      "Tiles in the animated-tile registry at the start of the last pass.",
		}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "animation",
			Name:      "handler_calls_total",
			Help:      "Animation handler invocations by tile category.",
		}, []string{"category"}),
	}
	reg.MustRegister(m.passDuration, m.passes, m.animated, m.dispatched)
	return m
}

func (m *Metrics) PassStarted(size int) {
	m.animated.Set(float64(size))
}

func (m *Metrics) TileAnimated(c tile.Category) {
	m.dispatched.WithLabelValues(c.String()).Inc()
}

func (m *Metrics) PassFinished(_ int, elapsed time.Duration) {
	m.passes.Inc()
	m.passDuration.Observe(elapsed.Seconds())
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
