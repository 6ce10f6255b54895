package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the gateway.
    Registry = prometheus.NewRegistry()
    // Connections tracks the number of live registered connections.
    Connections = prometheus.NewGauge(
        prometheus.GaugeOpts{Name: "gateway_connections", Help: "Live registered WebSocket connections."},
    )
    // EnvelopesDelivered counts envelopes pushed onto a client queue, by envelope type.
    EnvelopesDelivered = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "gateway_envelopes_delivered_total", Help: "Envelopes delivered to client queues."},
        []string{"event"},
    )
    // EnvelopesDropped counts envelopes that could not be delivered, by reason.
    EnvelopesDropped = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "gateway_envelopes_dropped_total", Help: "Envelopes dropped instead of delivered."},
        []string{"reason"},
    )
    // ClientMessages counts inbound client messages by type.
    ClientMessages = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "gateway_client_messages_total", Help: "Inbound client messages by type."},
        []string{"type"},
    )
    // ConnectionsRejected counts refused upgrade attempts by reason.
    ConnectionsRejected = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "gateway_connections_rejected_total", Help: "Rejected connection attempts."},
        []string{"reason"},
    )
)

// RegisterDefault registers the gateway collectors on the dedicated registry.
func RegisterDefault() {
    regOnce.Do(func() {
        Registry.MustRegister(Connections)
        Registry.MustRegister(EnvelopesDelivered)
        Registry.MustRegister(EnvelopesDropped)
        Registry.MustRegister(ClientMessages)
        Registry.MustRegister(ConnectionsRejected)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
