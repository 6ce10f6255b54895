package session

import (
    "context"
    "sync"
    "time"

    "github.com/jonboulle/clockwork"
)

// Memory is an in-process TokenStore for tests and redis-less deployments.
type Memory struct {
    mu     sync.Mutex
    tokens map[string]entry
    clock  clockwork.Clock
}

type entry struct {
    userID  string
    expires time.Time // zero means no expiry
}

func NewMemory(clock clockwork.Clock) *Memory {
    if clock == nil {
        clock = clockwork.NewRealClock()
    }
    return &Memory{tokens: map[string]entry{}, clock: clock}
}

func (m *Memory) Resolve(_ context.Context, token string) (string, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    e, ok := m.tokens[token]
    if !ok {
        return "", ErrTokenNotFound
    }
    if !e.expires.IsZero() && m.clock.Now().After(e.expires) {
        delete(m.tokens, token)
        return "", ErrTokenNotFound
    }
    return e.userID, nil
}

func (m *Memory) Put(_ context.Context, token, userID string, ttl time.Duration) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    e := entry{userID: userID}
    if ttl > 0 {
        e.expires = m.clock.Now().Add(ttl)
    }
    m.tokens[token] = e
    return nil
}

func (m *Memory) Revoke(_ context.Context, token string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    delete(m.tokens, token)
    return nil
}
