package session

import (
    "context"
    "testing"
    "time"

    "github.com/jonboulle/clockwork"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestMemoryResolve(t *testing.T) {
    m := NewMemory(nil)
    ctx := context.Background()

    _, err := m.Resolve(ctx, "nope")
    assert.ErrorIs(t, err, ErrTokenNotFound)

    require.NoError(t, m.Put(ctx, "tok", "u1", 0))
    userID, err := m.Resolve(ctx, "tok")
    require.NoError(t, err)
    assert.Equal(t, "u1", userID)

    require.NoError(t, m.Revoke(ctx, "tok"))
    _, err = m.Resolve(ctx, "tok")
    assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestMemoryExpiry(t *testing.T) {
    clock := clockwork.NewFakeClock()
    m := NewMemory(clock)
    ctx := context.Background()

    require.NoError(t, m.Put(ctx, "tok", "u1", time.Minute))

    _, err := m.Resolve(ctx, "tok")
    require.NoError(t, err)

    clock.Advance(2 * time.Minute)
    _, err = m.Resolve(ctx, "tok")
    assert.ErrorIs(t, err, ErrTokenNotFound)
}
