package gateway

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "bookhub/internal/model"
)

func topicSet(names ...string) map[string]struct{} {
    out := map[string]struct{}{}
    for _, n := range names {
        out[n] = struct{}{}
    }
    return out
}

func TestResolveTopics(t *testing.T) {
    tests := []struct {
        kind model.EventKind
        want map[string]struct{}
    }{
        {model.KindBooking, topicSet("user:u1", "bookings:u1", "dashboard:u1")},
        {model.KindNotification, topicSet("user:u1", "notifications:u1", "dashboard:u1")},
        {model.KindAnalytics, topicSet("user:u1", "analytics:u1", "dashboard:u1")},
        {model.KindFavorite, topicSet("user:u1", "dashboard:u1")},
        {model.KindSystem, topicSet()},
        {model.EventKind("mystery"), topicSet()},
    }
    for _, tc := range tests {
        t.Run(string(tc.kind), func(t *testing.T) {
            assert.Equal(t, tc.want, ResolveTopics("u1", tc.kind))
        })
    }
}

func TestDeliveriesSections(t *testing.T) {
    for kind, section := range map[model.EventKind]string{
        model.KindBooking:      "bookings",
        model.KindNotification: "notifications",
        model.KindAnalytics:    "analytics",
        model.KindFavorite:     "favorites",
    } {
        ds := deliveries(kind, "")
        assert.Len(t, ds, 2, "kind %s", kind)
        assert.Equal(t, "dashboard:update", ds[1].event)
        assert.Equal(t, section, ds[1].section)
        assert.Empty(t, ds[0].section)
    }
}

func TestDeliveriesNotificationAction(t *testing.T) {
    assert.Equal(t, "notification:new", deliveries(model.KindNotification, "")[0].event)
    assert.Equal(t, "notification:update", deliveries(model.KindNotification, "update")[0].event)
    // Action must not leak into the shared table.
    assert.Equal(t, "notification:new", deliveries(model.KindNotification, "")[0].event)
}

func TestDeliveriesUnknownKindHasNoDefault(t *testing.T) {
    assert.Nil(t, deliveries(model.EventKind("mystery"), ""))
    assert.Nil(t, deliveries(model.KindSystem, ""))
}
