package gateway

import (
    "github.com/jonboulle/clockwork"

    "bookhub/internal/metrics"
    "bookhub/internal/model"
)

// Dispatcher fans domain events out to live connections. All topic-based
// publishes are fire-and-forget; only SendDirect reports its outcome.
type Dispatcher struct {
    registry *Registry
    clock    clockwork.Clock
}

func NewDispatcher(r *Registry, clock clockwork.Clock) *Dispatcher {
    if clock == nil {
        clock = clockwork.NewRealClock()
    }
    return &Dispatcher{registry: r, clock: clock}
}

// Publish resolves the event kind to its envelopes and pushes each to the
// target user's connection. Offline users are a silent drop; there is no
// queueing or retry. Envelopes for a single user are enqueued in call order.
func (d *Dispatcher) Publish(userID string, kind model.EventKind, action string, payload map[string]any) {
    if kind == model.KindSystem {
        d.BroadcastSystem(payload)
        return
    }
    if !d.registry.Contains(userID) {
        metrics.EnvelopesDropped.WithLabelValues("offline").Inc()
        return
    }
    for _, dv := range deliveries(kind, action) {
        topics := make([]string, len(dv.rooms))
        for i, room := range dv.rooms {
            topics[i] = topicName(room, userID)
        }
        h, ok := d.registry.HandleFor(userID, topics...)
        if !ok {
            metrics.EnvelopesDropped.WithLabelValues("offline").Inc()
            continue
        }
        data := payload
        if dv.section != "" {
            data = make(map[string]any, len(payload)+1)
            for k, v := range payload {
                data[k] = v
            }
            data["section"] = dv.section
        }
        env := model.Envelope{
            Type:      dv.event,
            Action:    action,
            Data:      data,
            Timestamp: d.clock.Now().UTC(),
            UserID:    userID,
        }
        if h.Push(env) {
            metrics.EnvelopesDelivered.WithLabelValues(dv.event).Inc()
        } else {
            metrics.EnvelopesDropped.WithLabelValues("backpressure").Inc()
        }
    }
}

// SendDirect pushes a named message straight to the user's personal channel.
// Returns true only when the envelope was accepted for delivery.
func (d *Dispatcher) SendDirect(userID, event string, data map[string]any) bool {
    h, ok := d.registry.HandleFor(userID, topicName(TopicUser, userID))
    if !ok {
        metrics.EnvelopesDropped.WithLabelValues("offline").Inc()
        return false
    }
    env := model.Envelope{
        Type:      event,
        Data:      data,
        Timestamp: d.clock.Now().UTC(),
        UserID:    userID,
    }
    if !h.Push(env) {
        metrics.EnvelopesDropped.WithLabelValues("backpressure").Inc()
        return false
    }
    metrics.EnvelopesDelivered.WithLabelValues(event).Inc()
    return true
}

// BroadcastSystem pushes a system:update envelope to every live connection,
// bypassing topic resolution. Only registered (hence authenticated)
// connections are ever reached.
func (d *Dispatcher) BroadcastSystem(payload map[string]any) {
    env := model.Envelope{
        Type:      "system:update",
        Data:      payload,
        Timestamp: d.clock.Now().UTC(),
    }
    for _, h := range d.registry.Handles() {
        if h.Push(env) {
            metrics.EnvelopesDelivered.WithLabelValues("system:update").Inc()
        } else {
            metrics.EnvelopesDropped.WithLabelValues("backpressure").Inc()
        }
    }
}
