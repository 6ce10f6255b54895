package gateway

import (
    "encoding/json"
    "net/http"
    "time"

    "bookhub/internal/buildinfo"
)

// eventRequest is the body of the HTTP trigger endpoints the CRUD layer
// posts to.
type eventRequest struct {
    UserID  string         `json:"userId"`
    Action  string         `json:"action,omitempty"`
    Section string         `json:"section,omitempty"`
    Event   string         `json:"event,omitempty"`
    Payload map[string]any `json:"payload"`
}

func decodeEvent(w http.ResponseWriter, r *http.Request, requireUser bool) (eventRequest, bool) {
    if r.Method != http.MethodPost {
        writeProblem(w, http.StatusMethodNotAllowed, "method not allowed", "", r.URL.Path)
        return eventRequest{}, false
    }
    var req eventRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "invalid body", err.Error(), r.URL.Path)
        return eventRequest{}, false
    }
    if requireUser && req.UserID == "" {
        writeProblem(w, http.StatusBadRequest, "userId required", "", r.URL.Path)
        return eventRequest{}, false
    }
    return req, true
}

func accepted(w http.ResponseWriter) {
    writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// BookingEventHandler handles POST /v1/events/booking.
func (s *Server) BookingEventHandler(w http.ResponseWriter, r *http.Request) {
    req, ok := decodeEvent(w, r, true)
    if !ok {
        return
    }
    s.PublishBookingUpdate(req.UserID, req.Payload, req.Action)
    accepted(w)
}

// NotificationEventHandler handles POST /v1/events/notification.
func (s *Server) NotificationEventHandler(w http.ResponseWriter, r *http.Request) {
    req, ok := decodeEvent(w, r, true)
    if !ok {
        return
    }
    s.PublishNotification(req.UserID, req.Payload)
    accepted(w)
}

// AnalyticsEventHandler handles POST /v1/events/analytics.
func (s *Server) AnalyticsEventHandler(w http.ResponseWriter, r *http.Request) {
    req, ok := decodeEvent(w, r, true)
    if !ok {
        return
    }
    s.PublishAnalyticsUpdate(req.UserID, req.Payload, req.Section)
    accepted(w)
}

// FavoriteEventHandler handles POST /v1/events/favorite.
func (s *Server) FavoriteEventHandler(w http.ResponseWriter, r *http.Request) {
    req, ok := decodeEvent(w, r, true)
    if !ok {
        return
    }
    s.PublishFavoriteUpdate(req.UserID, req.Payload, req.Action)
    accepted(w)
}

// SystemEventHandler handles POST /v1/events/system.
func (s *Server) SystemEventHandler(w http.ResponseWriter, r *http.Request) {
    req, ok := decodeEvent(w, r, false)
    if !ok {
        return
    }
    s.BroadcastSystem(req.Payload)
    accepted(w)
}

// DirectSendHandler handles POST /v1/direct. Unlike the event endpoints it
// reports the delivery outcome.
func (s *Server) DirectSendHandler(w http.ResponseWriter, r *http.Request) {
    req, ok := decodeEvent(w, r, true)
    if !ok {
        return
    }
    if req.Event == "" {
        writeProblem(w, http.StatusBadRequest, "event required", "", r.URL.Path)
        return
    }
    delivered := s.SendDirect(req.UserID, req.Event, req.Payload)
    writeJSON(w, http.StatusOK, map[string]any{"delivered": delivered})
}

// PresenceHandler handles GET /v1/presence?userId=...
func (s *Server) PresenceHandler(w http.ResponseWriter, r *http.Request) {
    userID := r.URL.Query().Get("userId")
    if userID == "" {
        writeProblem(w, http.StatusBadRequest, "userId required", "", r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{
        "userId":    userID,
        "connected": s.IsConnected(userID),
    })
}

// StatusHandler handles GET /v1/status.
func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]any{
        "connections": s.ConnectedCount(),
        "uptime":      time.Since(s.start).Round(time.Second).String(),
        "build":       buildinfo.Info(),
    })
}

// HealthHandler handles GET /healthz.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Info()})
}

// ReadyHandler handles GET /readyz.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// DebugJSON handles GET /debug with effective (non-secret) config.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]any{
        "build": buildinfo.Info(),
        "time":  time.Now().UTC().Format(time.RFC3339),
        "config": map[string]any{
            "port":           s.cfg.Port,
            "authMode":       s.cfg.AuthMode,
            "sendQueueSize":  s.cfg.SendQueueSize,
            "maxConnections": s.cfg.MaxConnections,
            "maxPerIp":       s.cfg.MaxPerIP,
            "hasDatabaseUrl": s.cfg.DatabaseURL != "",
            "hasRedisUrl":    s.cfg.RedisURL != "",
        },
        "connections": s.ConnectedCount(),
    })
}
