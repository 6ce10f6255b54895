package gateway

import (
    "sync"
    "testing"
    "time"

    "github.com/jonboulle/clockwork"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "bookhub/internal/model"
)

// fakeHandle records pushed envelopes; cap>0 simulates a full queue.
type fakeHandle struct {
    mu     sync.Mutex
    envs   []model.Envelope
    closed bool
    cap    int
}

func (f *fakeHandle) Push(env model.Envelope) bool {
    f.mu.Lock()
    defer f.mu.Unlock()
    if f.closed {
        return false
    }
    if f.cap > 0 && len(f.envs) >= f.cap {
        return false
    }
    f.envs = append(f.envs, env)
    return true
}

func (f *fakeHandle) Close() {
    f.mu.Lock()
    f.closed = true
    f.mu.Unlock()
}

func (f *fakeHandle) events() []model.Envelope {
    f.mu.Lock()
    defer f.mu.Unlock()
    out := make([]model.Envelope, len(f.envs))
    copy(out, f.envs)
    return out
}

func (f *fakeHandle) isClosed() bool {
    f.mu.Lock()
    defer f.mu.Unlock()
    return f.closed
}

func TestRegisterSupersedesPriorConnection(t *testing.T) {
    r := NewRegistry(nil)
    h1 := &fakeHandle{}
    h2 := &fakeHandle{}

    r.Register("u1", h1)
    r.Register("u1", h2)

    assert.Equal(t, 1, r.Count())
    assert.True(t, h1.isClosed(), "superseded handle must be closed")
    assert.False(t, h2.isClosed())

    got, ok := r.HandleFor("u1", topicName(TopicUser, "u1"))
    require.True(t, ok)
    assert.Same(t, h2, got.(*fakeHandle))
}

func TestRegisterSeedsPersonalTopic(t *testing.T) {
    r := NewRegistry(nil)
    r.Register("u1", &fakeHandle{})

    c, ok := r.Get("u1")
    require.True(t, ok)
    assert.Contains(t, c.Topics, "user:u1")
    assert.Len(t, c.Topics, 1)
}

func TestConnectedAtUsesClock(t *testing.T) {
    clock := clockwork.NewFakeClock()
    r := NewRegistry(clock)
    r.Register("u1", &fakeHandle{})

    c, ok := r.Get("u1")
    require.True(t, ok)
    assert.Equal(t, clock.Now(), c.ConnectedAt)

    clock.Advance(time.Hour)
    c2, _ := r.Get("u1")
    assert.Equal(t, c.ConnectedAt, c2.ConnectedAt, "connectedAt is set once, never mutated")
}

func TestAddTopic(t *testing.T) {
    r := NewRegistry(nil)
    r.Register("u1", &fakeHandle{})

    assert.True(t, r.AddTopic("u1", "bookings:u1"))
    assert.False(t, r.AddTopic("ghost", "bookings:ghost"), "late subscribe after disconnect is a no-op")

    c, _ := r.Get("u1")
    assert.Contains(t, c.Topics, "bookings:u1")
}

func TestRemoveIsIdempotent(t *testing.T) {
    r := NewRegistry(nil)
    h := &fakeHandle{}
    r.Register("u1", h)

    r.Remove("u1")
    r.Remove("u1")
    r.Remove("never-registered")

    assert.False(t, r.Contains("u1"))
    assert.Equal(t, 0, r.Count())
    assert.True(t, h.isClosed())
}

func TestReleaseOnlyEvictsOwnHandle(t *testing.T) {
    r := NewRegistry(nil)
    h1 := &fakeHandle{}
    h2 := &fakeHandle{}
    r.Register("u1", h1)
    r.Register("u1", h2)

    // The superseded connection's cleanup must not evict its successor.
    r.Release("u1", h1)
    assert.True(t, r.Contains("u1"))

    r.Release("u1", h2)
    assert.False(t, r.Contains("u1"))
    assert.True(t, h2.isClosed())
}

func TestHandleForChecksSubscription(t *testing.T) {
    r := NewRegistry(nil)
    r.Register("u1", &fakeHandle{})

    _, ok := r.HandleFor("u1", "bookings:u1")
    assert.False(t, ok, "not subscribed yet")

    r.AddTopic("u1", "bookings:u1")
    _, ok = r.HandleFor("u1", "bookings:u1")
    assert.True(t, ok)

    _, ok = r.HandleFor("u1", "analytics:u1", "user:u1")
    assert.True(t, ok, "any addressed topic suffices")
}

func TestShutdownClosesEverything(t *testing.T) {
    r := NewRegistry(nil)
    h1 := &fakeHandle{}
    h2 := &fakeHandle{}
    r.Register("u1", h1)
    r.Register("u2", h2)

    r.Shutdown()

    assert.Equal(t, 0, r.Count())
    assert.True(t, h1.isClosed())
    assert.True(t, h2.isClosed())
}

func TestRegistryConcurrentRegisterRemove(t *testing.T) {
    r := NewRegistry(nil)
    var wg sync.WaitGroup
    for i := 0; i < 50; i++ {
        wg.Add(2)
        go func() {
            defer wg.Done()
            r.Register("u1", &fakeHandle{})
        }()
        go func() {
            defer wg.Done()
            r.Remove("u1")
        }()
    }
    wg.Wait()
    // Deterministic final state: either exactly one entry or none.
    assert.LessOrEqual(t, r.Count(), 1)
}
