package relaytest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's prometheus instruments on a private registry,
// so multiple servers can coexist in one test binary.
type metrics struct {
	registry *prometheus.Registry

	connectedClients prometheus.Gauge
	openRooms        prometheus.Gauge
	relayedMessages  prometheus.Counter
	binaryFrames     prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		connectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "relaytest",
			Name:      "connected_clients",
			Help:      "Number of currently connected clients.",
		}),
		openRooms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "relaytest",
			Name:      "open_rooms",
			Help:      "Number of rooms currently alive.",
		}),
		relayedMessages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "relaytest",
			Name:      "relayed_messages_total",
			Help:      "Total relay, tellOwner and tellPlayer frames fanned out.",
		}),
		binaryFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "relaytest",
			Name:      "binary_frames_total",
			Help:      "Total binary frames fanned out.",
		}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
