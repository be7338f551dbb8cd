// Package metrics exposes timeline crossings as Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sarchlab/chartline/hooking"
	"github.com/sarchlab/chartline/timeline"
)

// CrossingCollector is a hook that counts crossings by manager and hook
// position. It also keeps, per manager, the clock of the tick that made the
// latest crossing. Ticks that cross nothing leave that gauge alone. Each
// collector has its own registry.
type CrossingCollector struct {
	registry *prometheus.Registry

	crossings *prometheus.CounterVec
	faults    *prometheus.CounterVec
	lastClock *prometheus.GaugeVec
}

// NewCrossingCollector creates a collector whose metric names start with
// namespace.
func NewCrossingCollector(namespace string) (*CrossingCollector, error) {
	c := &CrossingCollector{
		registry: prometheus.NewRegistry(),
		crossings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crossings_total",
			Help:      "Number of vertex crossings by manager and kind.",
		}, []string{"manager", "kind", "direction"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_faults_total",
			Help:      "Number of payload callbacks that panicked.",
		}, []string{"manager"}),
		lastClock: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_crossing_clock_milliseconds",
			Help:      "Clock value of the tick that made the latest crossing.",
		}, []string{"manager"}),
	}

	for _, col := range []prometheus.Collector{c.crossings, c.faults, c.lastClock} {
		if err := c.registry.Register(col); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return c, nil
}

// Registry returns the registry the metrics are registered to.
func (c *CrossingCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus text format.
func (c *CrossingCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Func counts the crossing carried by the hook context.
func (c *CrossingCollector) Func(ctx hooking.HookCtx) {
	cr, ok := ctx.Item.(timeline.Crossing)
	if !ok {
		return
	}

	c.lastClock.WithLabelValues(cr.Manager).Set(float64(ctx.Now))

	if ctx.Pos == timeline.HookPosPayloadFault {
		c.faults.WithLabelValues(cr.Manager).Inc()
		return
	}

	c.crossings.
		WithLabelValues(cr.Manager, ctx.Pos.Name, cr.Direction.String()).
		Inc()
}

var _ hooking.Hook = (*CrossingCollector)(nil)
