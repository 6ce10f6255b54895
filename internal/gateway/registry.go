package gateway

import (
    "sync"
    "time"

    "github.com/jonboulle/clockwork"

    "bookhub/internal/metrics"
    "bookhub/internal/model"
)

// Handle is the opaque, process-local channel handle owned by a registry
// entry. Push reports whether the envelope was accepted; a closed or
// backlogged handle refuses without blocking.
type Handle interface {
    Push(env model.Envelope) bool
    Close()
}

// Connection is a read-only snapshot of one registry entry.
type Connection struct {
    UserID      string
    Topics      map[string]struct{}
    ConnectedAt time.Time
}

type entry struct {
    handle      Handle
    topics      map[string]struct{}
    connectedAt time.Time
}

// Registry tracks at most one live connection per user together with the
// topics that connection subscribed to. One mutex guards the whole map;
// liveness and topic membership can never drift apart.
type Registry struct {
    mu    sync.Mutex
    conns map[string]*entry
    clock clockwork.Clock
}

func NewRegistry(clock clockwork.Clock) *Registry {
    if clock == nil {
        clock = clockwork.NewRealClock()
    }
    return &Registry{conns: map[string]*entry{}, clock: clock}
}

// Register inserts or replaces the entry for userID. A superseded entry has
// its handle closed first so at most one live handle exists per user.
func (r *Registry) Register(userID string, h Handle) {
    r.mu.Lock()
    prev := r.conns[userID]
    r.conns[userID] = &entry{
        handle:      h,
        topics:      map[string]struct{}{topicName(TopicUser, userID): {}},
        connectedAt: r.clock.Now(),
    }
    n := len(r.conns)
    r.mu.Unlock()

    if prev != nil {
        prev.handle.Close()
    }
    metrics.Connections.Set(float64(n))
}

// AddTopic adds a topic to the user's subscription set. Returns false when
// the user has no live entry; late subscribes after disconnect are expected
// and harmless.
func (r *Registry) AddTopic(userID, topic string) bool {
    r.mu.Lock()
    defer r.mu.Unlock()
    e, ok := r.conns[userID]
    if !ok {
        return false
    }
    e.topics[topic] = struct{}{}
    return true
}

// Remove deletes the entry entirely and closes its handle. Idempotent.
func (r *Registry) Remove(userID string) {
    r.mu.Lock()
    e, ok := r.conns[userID]
    if ok {
        delete(r.conns, userID)
    }
    n := len(r.conns)
    r.mu.Unlock()

    if ok {
        e.handle.Close()
    }
    metrics.Connections.Set(float64(n))
}

// Release removes the entry only when it still owns the given handle. The
// disconnect path of a superseded connection must not evict its successor.
func (r *Registry) Release(userID string, h Handle) {
    r.mu.Lock()
    e, ok := r.conns[userID]
    if ok && e.handle == h {
        delete(r.conns, userID)
    } else {
        ok = false
    }
    n := len(r.conns)
    r.mu.Unlock()

    if ok {
        e.handle.Close()
    }
    metrics.Connections.Set(float64(n))
}

// Get returns a snapshot of the user's entry.
func (r *Registry) Get(userID string) (Connection, bool) {
    r.mu.Lock()
    defer r.mu.Unlock()
    e, ok := r.conns[userID]
    if !ok {
        return Connection{}, false
    }
    topics := make(map[string]struct{}, len(e.topics))
    for t := range e.topics {
        topics[t] = struct{}{}
    }
    return Connection{UserID: userID, Topics: topics, ConnectedAt: e.connectedAt}, true
}

func (r *Registry) Count() int {
    r.mu.Lock()
    defer r.mu.Unlock()
    return len(r.conns)
}

func (r *Registry) Contains(userID string) bool {
    r.mu.Lock()
    defer r.mu.Unlock()
    _, ok := r.conns[userID]
    return ok
}

// HandleFor returns the user's handle when the connection is subscribed to
// at least one of the given topics.
func (r *Registry) HandleFor(userID string, topics ...string) (Handle, bool) {
    r.mu.Lock()
    defer r.mu.Unlock()
    e, ok := r.conns[userID]
    if !ok {
        return nil, false
    }
    for _, t := range topics {
        if _, ok := e.topics[t]; ok {
            return e.handle, true
        }
    }
    return nil, false
}

// Handles returns a snapshot of every live handle, for system broadcast.
func (r *Registry) Handles() []Handle {
    r.mu.Lock()
    defer r.mu.Unlock()
    out := make([]Handle, 0, len(r.conns))
    for _, e := range r.conns {
        out = append(out, e.handle)
    }
    return out
}

// Shutdown closes every handle and clears the registry.
func (r *Registry) Shutdown() {
    r.mu.Lock()
    entries := make([]*entry, 0, len(r.conns))
    for _, e := range r.conns {
        entries = append(entries, e)
    }
    r.conns = map[string]*entry{}
    r.mu.Unlock()

    for _, e := range entries {
        e.handle.Close()
    }
    metrics.Connections.Set(0)
}
