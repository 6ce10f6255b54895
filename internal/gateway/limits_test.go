package gateway

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestGlobalConnectionLimit(t *testing.T) {
    l := NewConnectionLimits(2, 10, 1000, 1000)

    ok, _ := l.Acquire("1.1.1.1")
    assert.True(t, ok)
    ok, _ = l.Acquire("2.2.2.2")
    assert.True(t, ok)

    ok, reason := l.Acquire("3.3.3.3")
    assert.False(t, ok)
    assert.Equal(t, LimitReasonGlobal, reason)

    l.Release("1.1.1.1")
    ok, _ = l.Acquire("3.3.3.3")
    assert.True(t, ok)
}

func TestPerIPConnectionLimit(t *testing.T) {
    l := NewConnectionLimits(100, 1, 1000, 1000)

    ok, _ := l.Acquire("1.1.1.1")
    assert.True(t, ok)

    ok, reason := l.Acquire("1.1.1.1")
    assert.False(t, ok)
    assert.Equal(t, LimitReasonPerIP, reason)
    assert.Equal(t, int64(1), l.Current(), "refused acquire holds nothing")

    ok, _ = l.Acquire("2.2.2.2")
    assert.True(t, ok)
}

func TestDialRateLimit(t *testing.T) {
    l := NewConnectionLimits(100, 10, 1, 1)

    ok, _ := l.Acquire("1.1.1.1")
    assert.True(t, ok)
    l.Release("1.1.1.1")

    ok, reason := l.Acquire("1.1.1.1")
    assert.False(t, ok)
    assert.Equal(t, LimitReasonRate, reason)

    // Other IPs have their own bucket.
    ok, _ = l.Acquire("2.2.2.2")
    assert.True(t, ok)
}
