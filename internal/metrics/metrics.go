package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Active websocket connections",
	})
	AssociatedConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_associated_connections",
		Help: "Websocket connections associated with a user",
	})
	BroadcastsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ws_broadcasts_delivered_total",
		Help: "Notification payloads handed to client send queues",
	})
	BroadcastsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ws_broadcasts_dropped_total",
		Help: "Payloads dropped because a client send queue was full or closed",
	})
	StreamEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "change_stream_events_total",
		Help: "Change stream events by outcome",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		ActiveConnections,
		AssociatedConnections,
		BroadcastsDelivered,
		BroadcastsDropped,
		StreamEvents,
	)
}

// Handler returns an http.Handler for Prometheus scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
