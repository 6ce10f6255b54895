package gateway

import (
    "encoding/json"
    "log"
    "net"
    "net/http"
    "time"

    "github.com/gorilla/websocket"
    "golang.org/x/time/rate"

    "bookhub/internal/auth"
    "bookhub/internal/metrics"
    "bookhub/internal/model"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type clientMessage struct {
    Type    string          `json:"type"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

// WSHandler handles /ws: admission limits, credential verification, upgrade,
// registration, then the per-connection read loop until disconnect.
//
// Rejected credentials never reach the registry; the problem body carries
// the rejection reason and the client must reconnect with a fresh token.
func (s *Server) WSHandler(w http.ResponseWriter, r *http.Request) {
    ip := clientIP(r)
    ok, reason := s.Limits.Acquire(ip)
    if !ok {
        metrics.ConnectionsRejected.WithLabelValues(string(reason)).Inc()
        writeProblem(w, http.StatusTooManyRequests, "connection limit", string(reason), r.URL.Path)
        return
    }
    defer s.Limits.Release(ip)

    cred := auth.FromRequestValues(r.URL.Query().Get("token"), r.Header.Get("Authorization"))
    ident, err := s.Auth.Verify(r.Context(), cred)
    if err != nil {
        metrics.ConnectionsRejected.WithLabelValues("auth").Inc()
        writeProblem(w, http.StatusUnauthorized, "connection rejected", err.Error(), r.URL.Path)
        return
    }

    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }

    c := newClient(ident.ID, conn, s.cfg.SendQueueSize, s.cfg.WriteTimeout)
    s.Registry.Register(ident.ID, c)
    go c.writePump(s.cfg.PingInterval)
    log.Printf("ws connect user=%s conn=%s ip=%s", ident.ID, c.id, ip)

    c.Push(model.Envelope{
        Type:      "connection:status",
        Data:      map[string]any{"status": "connected", "displayName": ident.DisplayName},
        Timestamp: time.Now().UTC(),
        UserID:    ident.ID,
    })

    s.readLoop(c)

    // Runs on every exit path, error or not; a stale entry here would make
    // Count/Contains lie. Release only evicts if this client still owns the
    // registry slot, so a superseding reconnect is untouched.
    s.Registry.Release(ident.ID, c)
    c.Close()
    log.Printf("ws disconnect user=%s conn=%s", ident.ID, c.id)
}

// readLoop consumes client messages until the transport closes. Malformed
// or unknown messages are logged and ignored; only transport-level closure
// ends the session.
func (s *Server) readLoop(c *client) {
    conn := c.conn
    conn.SetReadLimit(1 << 20)
    _ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
    conn.SetPongHandler(func(string) error {
        _ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
        return nil
    })
    lim := rate.NewLimiter(rate.Limit(s.cfg.InboundRate), s.cfg.InboundBurst)

    for {
        _, data, err := conn.ReadMessage()
        if err != nil {
            return
        }
        _ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
        if !lim.Allow() {
            log.Printf("ws throttle user=%s conn=%s", c.userID, c.id)
            continue
        }
        var msg clientMessage
        if err := json.Unmarshal(data, &msg); err != nil {
            log.Printf("ws malformed message user=%s: %v", c.userID, err)
            continue
        }
        metrics.ClientMessages.WithLabelValues(msg.Type).Inc()

        switch {
        case msg.Type == "ping":
            c.Push(model.Envelope{
                Type:      "pong",
                Timestamp: time.Now().UTC(),
                UserID:    c.userID,
            })
        case subscribableTopics[msg.Type] != "":
            class := subscribableTopics[msg.Type]
            topic := topicName(class, c.userID)
            if !s.Registry.AddTopic(c.userID, topic) {
                // Late subscribe after disconnect; expected, not an error.
                log.Printf("ws subscribe for unregistered user=%s topic=%s ignored", c.userID, topic)
                continue
            }
            c.Push(model.Envelope{
                Type:      class + ":subscribed",
                Data:      map[string]any{"topic": topic},
                Timestamp: time.Now().UTC(),
                UserID:    c.userID,
            })
        default:
            log.Printf("ws unknown message type=%q user=%s", msg.Type, c.userID)
        }
    }
}

func clientIP(r *http.Request) string {
    host, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil {
        return r.RemoteAddr
    }
    return host
}
