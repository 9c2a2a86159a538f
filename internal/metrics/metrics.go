package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	PublishedEvents *prometheus.CounterVec
	DroppedEvents   *prometheus.CounterVec
	OpenConnections prometheus.Gauge
}

// InitMetrics registers the realtime counters on the default registry.
// Call once per process.
func InitMetrics() *Metrics {
	m := &Metrics{
		PublishedEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realtime_published_events_total",
				Help: "Total number of events delivered to subscriber buffers",
			},
			[]string{"event"},
		),
		DroppedEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realtime_dropped_events_total",
				Help: "Total number of events dropped because a subscriber buffer was full",
			},
			[]string{"event"},
		),
		OpenConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "realtime_connections",
				Help: "Number of live realtime connections",
			},
		),
	}

	prometheus.MustRegister(m.PublishedEvents)
	prometheus.MustRegister(m.DroppedEvents)
	prometheus.MustRegister(m.OpenConnections)

	return m
}

// Handler exposes the default registry for the metrics listener.
func Handler() http.Handler {
	return promhttp.Handler()
}
