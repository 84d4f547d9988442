// Package metrics exports delegation activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/delegator/internal/delegate"
)

// Collector holds the delegation metrics. It implements prometheus.Collector.
type Collector struct {
	dispatches *prometheus.CounterVec
	matches    *prometheus.CounterVec
	stops      *prometheus.CounterVec
	panics     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector creates a collector with metric names under namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Events routed through a delegation root listener.",
		}, []string{"dispatcher", "event"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_invocations_total",
			Help:      "Handlers invoked for matching bindings.",
		}, []string{"dispatcher", "event", "kind"}),
		stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stop_requests_total",
			Help:      "Dispatches where a matching binding stopped propagation.",
		}, []string{"dispatcher", "event"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_panics_total",
			Help:      "Event deliveries aborted by a handler panic.",
		}, []string{"event"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent evaluating bindings for one event.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"dispatcher", "event"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.dispatches.Describe(ch)
	c.matches.Describe(ch)
	c.stops.Describe(ch)
	c.panics.Describe(ch)
	c.duration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.dispatches.Collect(ch)
	c.matches.Collect(ch)
	c.stops.Collect(ch)
	c.panics.Collect(ch)
	c.duration.Collect(ch)
}

// Observer returns a delegate.Observer recording under the dispatcher label
// name.
func (c *Collector) Observer(name string) delegate.Observer {
	return &observer{c: c, name: name}
}

// RecordPanic counts an event delivery aborted by a handler panic.
func (c *Collector) RecordPanic(eventType string) {
	c.panics.WithLabelValues(eventType).Inc()
}

type observer struct {
	c    *Collector
	name string
}

func (o *observer) OnMatch(eventType string, b delegate.Binding) {
	o.c.matches.WithLabelValues(o.name, eventType, b.Matcher.Kind.String()).Inc()
}

func (o *observer) OnDispatch(r delegate.Result) {
	o.c.dispatches.WithLabelValues(o.name, r.EventType).Inc()
	o.c.duration.WithLabelValues(o.name, r.EventType).Observe(r.Duration.Seconds())
	if r.StopRequested {
		o.c.stops.WithLabelValues(o.name, r.EventType).Inc()
	}
}
