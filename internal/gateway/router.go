package gateway

import "bookhub/internal/model"

// Topic classes. A full topic name is "<class>:<userId>".
const (
    TopicUser          = "user"
    TopicDashboard     = "dashboard"
    TopicBookings      = "bookings"
    TopicNotifications = "notifications"
    TopicAnalytics     = "analytics"
)

func topicName(class, userID string) string { return class + ":" + userID }

// delivery is one envelope produced for an event kind: its wire type, the
// topic classes it is addressed to, and the dashboard section tag if any.
// The personal "user" class is part of every address set: the private
// channel receives all of a user's events, rooms gate nothing beyond it.
type delivery struct {
    event   string
    rooms   []string
    section string
}

// routing is the fixed event-kind table. Any kind added later must declare
// its deliveries here explicitly; there is no default. The system kind is
// absent on purpose: it bypasses topic resolution entirely.
var routing = map[model.EventKind][]delivery{
    model.KindBooking: {
        {event: "booking:update", rooms: []string{TopicUser, TopicBookings}},
        {event: "dashboard:update", rooms: []string{TopicUser, TopicDashboard}, section: "bookings"},
    },
    model.KindNotification: {
        {event: "notification:new", rooms: []string{TopicUser, TopicNotifications}},
        {event: "dashboard:update", rooms: []string{TopicUser, TopicDashboard}, section: "notifications"},
    },
    model.KindAnalytics: {
        {event: "analytics:update", rooms: []string{TopicUser, TopicAnalytics}},
        {event: "dashboard:update", rooms: []string{TopicUser, TopicDashboard}, section: "analytics"},
    },
    model.KindFavorite: {
        {event: "favorite:update", rooms: []string{TopicUser}},
        {event: "dashboard:update", rooms: []string{TopicUser, TopicDashboard}, section: "favorites"},
    },
}

// deliveries returns the envelope expansion for a kind. Notification events
// are renamed to notification:update when the action says so.
func deliveries(kind model.EventKind, action string) []delivery {
    ds, ok := routing[kind]
    if !ok {
        return nil
    }
    out := make([]delivery, len(ds))
    copy(out, ds)
    if kind == model.KindNotification && action == "update" {
        out[0].event = "notification:update"
    }
    return out
}

// ResolveTopics returns the full topic names notified for an event kind,
// suffixed with the user id. The system kind resolves to none: it reaches
// every live connection without topic filtering.
func ResolveTopics(userID string, kind model.EventKind) map[string]struct{} {
    topics := map[string]struct{}{}
    for _, d := range routing[kind] {
        for _, room := range d.rooms {
            topics[topicName(room, userID)] = struct{}{}
        }
    }
    return topics
}

// subscribableTopics maps client subscribe message types to topic classes.
var subscribableTopics = map[string]string{
    "dashboard:subscribe":     TopicDashboard,
    "bookings:subscribe":      TopicBookings,
    "notifications:subscribe": TopicNotifications,
    "analytics:subscribe":     TopicAnalytics,
}
