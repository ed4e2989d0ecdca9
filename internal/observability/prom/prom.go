package prom

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dhchat/internal/observability"
)

// NewRegistry returns a fresh Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Handler returns a Prometheus HTTP handler bound to the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Observer exports session metrics to Prometheus.
type Observer struct {
	handshakeTotal   *prometheus.CounterVec
	handshakeLatency prometheus.Histogram
	handshakeStates  *prometheus.CounterVec
	messagesTotal    *prometheus.CounterVec
	bytesTotal       *prometheus.CounterVec
	closeTotal       *prometheus.CounterVec
}

// NewObserver registers session metrics on the registry.
func NewObserver(reg *prometheus.Registry) *Observer {
	o := &Observer{
		handshakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhchat_handshake_total",
			Help: "Handshake outcomes by role and result.",
		}, []string{"role", "result"}),
		handshakeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dhchat_handshake_duration_seconds",
			Help:    "Time from first handshake message to key derivation or failure.",
			Buckets: prometheus.DefBuckets,
		}),
		handshakeStates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhchat_handshake_transitions_total",
			Help: "Handshake state transitions by role and entered state.",
		}, []string{"role", "state"}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhchat_messages_total",
			Help: "Chat messages by direction.",
		}, []string{"direction"}),
		bytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhchat_message_bytes_total",
			Help: "Plaintext chat bytes by direction.",
		}, []string{"direction"}),
		closeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhchat_channel_close_total",
			Help: "Channel close reasons.",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		o.handshakeTotal,
		o.handshakeLatency,
		o.handshakeStates,
		o.messagesTotal,
		o.bytesTotal,
		o.closeTotal,
	)
	return o
}

func (o *Observer) Handshake(role string, result observability.HandshakeResult, d time.Duration) {
	o.handshakeTotal.WithLabelValues(role, string(result)).Inc()
	o.handshakeLatency.Observe(d.Seconds())
}

func (o *Observer) HandshakeState(role, state string) {
	o.handshakeStates.WithLabelValues(role, state).Inc()
}

func (o *Observer) Message(dir observability.Direction, size int) {
	o.messagesTotal.WithLabelValues(string(dir)).Inc()
	o.bytesTotal.WithLabelValues(string(dir)).Add(float64(size))
}

func (o *Observer) Close(reason observability.CloseReason) {
	o.closeTotal.WithLabelValues(string(reason)).Inc()
}

var _ observability.Observer = (*Observer)(nil)
