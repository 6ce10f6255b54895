package gateway

import "bookhub/internal/model"

// The methods below are the narrow publish interface the CRUD layer calls
// into. All are best-effort: an offline target is a silent drop.

func (s *Server) PublishBookingUpdate(userID string, payload map[string]any, action string) {
    s.Dispatch.Publish(userID, model.KindBooking, action, payload)
}

func (s *Server) PublishNotification(userID string, payload map[string]any) {
    s.Dispatch.Publish(userID, model.KindNotification, "", payload)
}

// PublishAnalyticsUpdate tags the analytics payload with the changed
// section before routing. The dashboard copy keeps its own section tag.
func (s *Server) PublishAnalyticsUpdate(userID string, payload map[string]any, section string) {
    if section != "" {
        merged := make(map[string]any, len(payload)+1)
        for k, v := range payload {
            merged[k] = v
        }
        merged["section"] = section
        payload = merged
    }
    s.Dispatch.Publish(userID, model.KindAnalytics, "", payload)
}

func (s *Server) PublishFavoriteUpdate(userID string, payload map[string]any, action string) {
    s.Dispatch.Publish(userID, model.KindFavorite, action, payload)
}

// SendDirect pushes a named message to the user's personal channel and
// reports whether it was accepted for delivery.
func (s *Server) SendDirect(userID, event string, data map[string]any) bool {
    return s.Dispatch.SendDirect(userID, event, data)
}

// BroadcastSystem pushes a system:update to every live connection.
func (s *Server) BroadcastSystem(payload map[string]any) {
    s.Dispatch.BroadcastSystem(payload)
}
