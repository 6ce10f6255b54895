// Package gateway implements the real-time connection and broadcast
// gateway: per-connection authentication, the per-user connection registry,
// topic routing, fan-out dispatch, and the HTTP trigger surface the CRUD
// layer publishes through.
package gateway

import (
    "context"
    "log"
    "time"

    "github.com/jonboulle/clockwork"

    "bookhub/internal/auth"
    "bookhub/internal/config"
    "bookhub/internal/session"
    "bookhub/internal/store"
)

// Server owns the gateway state: one registry instance, constructed once
// and shared by every component that needs it.
type Server struct {
    Auth     *auth.Verifier
    Registry *Registry
    Dispatch *Dispatcher
    Limits   *ConnectionLimits

    cfg   config.Config
    start time.Time
}

// NewServer wires the gateway. If DATABASE_URL is unset, accounts live in
// memory; if REDIS_URL is unset, session tokens do too.
func NewServer(cfg config.Config) (*Server, error) {
    clock := clockwork.NewRealClock()

    var st store.Store
    if cfg.DatabaseURL == "" {
        st = store.NewMemory()
    } else {
        pg, err := store.NewPostgres(cfg.DatabaseURL)
        if err != nil {
            return nil, err
        }
        if err := pg.Bootstrap(context.Background()); err != nil {
            return nil, err
        }
        st = pg
    }

    var sessions session.TokenStore
    if cfg.RedisURL == "" {
        sessions = session.NewMemory(clock)
    } else {
        rs, err := session.NewRedis(cfg.RedisURL)
        if err != nil {
            return nil, err
        }
        sessions = rs
    }

    registry := NewRegistry(clock)
    return &Server{
        Auth: &auth.Verifier{
            Mode:       cfg.AuthMode,
            HMACSecret: []byte(cfg.AuthHMACSecret),
            Accounts:   st,
            Sessions:   sessions,
        },
        Registry: registry,
        Dispatch: NewDispatcher(registry, clock),
        Limits:   NewConnectionLimits(cfg.MaxConnections, cfg.MaxPerIP, cfg.DialRate, cfg.DialBurst),
        cfg:      cfg,
        start:    clock.Now(),
    }, nil
}

// Shutdown tears the gateway down: every channel is closed and the registry
// cleared.
func (s *Server) Shutdown() {
    n := s.Registry.Count()
    s.Registry.Shutdown()
    log.Printf("gateway shutdown: closed %d connections", n)
}

// ConnectedCount reports the number of live connections.
func (s *Server) ConnectedCount() int { return s.Registry.Count() }

// IsConnected reports whether the user has a live connection.
func (s *Server) IsConnected(userID string) bool { return s.Registry.Contains(userID) }
