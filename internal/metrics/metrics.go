package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors bundles the Prometheus instruments fed by the hub. It
// implements core.Stats.
type Collectors struct {
	registry *prometheus.Registry

	connections prometheus.Gauge
	rooms       prometheus.Gauge
	messages    prometheus.Counter
	dropped     prometheus.Counter
}

// NewCollectors registers the roomcast instruments on a fresh registry.
func NewCollectors() *Collectors {
	reg := prometheus.NewRegistry()

	c := &Collectors{
		registry: reg,
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roomcast_connections_active",
			Help: "Connections currently registered with the hub.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roomcast_rooms_active",
			Help: "Rooms currently present in the membership table.",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomcast_messages_relayed_total",
			Help: "Chat messages relayed to room subscribers.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomcast_sidejobs_dropped_total",
			Help: "Transcript/notify jobs dropped because the queue was full.",
		}),
	}

	reg.MustRegister(
		c.connections,
		c.rooms,
		c.messages,
		c.dropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ConnectionsActive records the current connection count.
func (c *Collectors) ConnectionsActive(n int) {
	c.connections.Set(float64(n))
}

// RoomsActive records the current room count.
func (c *Collectors) RoomsActive(n int) {
	c.rooms.Set(float64(n))
}

// MessageRelayed counts one relayed message.
func (c *Collectors) MessageRelayed() {
	c.messages.Inc()
}

// SideJobDropped counts one rejected side job.
func (c *Collectors) SideJobDropped() {
	c.dropped.Inc()
}

// Handler exposes the registry for the /metrics route.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
