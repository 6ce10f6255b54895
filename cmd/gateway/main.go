package main

import (
    "context"
    "errors"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "bookhub/internal/config"
    "bookhub/internal/gateway"
    "bookhub/internal/metrics"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        log.Fatalf("config: %v", err)
    }
    metrics.RegisterDefault()

    srvDeps, err := gateway.NewServer(cfg)
    if err != nil {
        log.Fatalf("failed to init gateway: %v", err)
    }

    mux := http.NewServeMux()

    // Client channel
    mux.HandleFunc("/ws", srvDeps.WSHandler)

    // Trigger endpoints (called by the CRUD layer)
    mux.HandleFunc("/v1/events/booking", srvDeps.BookingEventHandler)
    mux.HandleFunc("/v1/events/notification", srvDeps.NotificationEventHandler)
    mux.HandleFunc("/v1/events/analytics", srvDeps.AnalyticsEventHandler)
    mux.HandleFunc("/v1/events/favorite", srvDeps.FavoriteEventHandler)
    mux.HandleFunc("/v1/events/system", srvDeps.SystemEventHandler)
    mux.HandleFunc("/v1/direct", srvDeps.DirectSendHandler)

    // Presence & status
    mux.HandleFunc("/v1/presence", srvDeps.PresenceHandler)
    mux.HandleFunc("/v1/status", srvDeps.StatusHandler)

    // Health
    mux.HandleFunc("/healthz", srvDeps.HealthHandler)
    mux.HandleFunc("/readyz", srvDeps.ReadyHandler)
    mux.HandleFunc("/debug", srvDeps.DebugJSON)

    // Metrics
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

    srv := &http.Server{
        Addr:              ":" + cfg.Port,
        Handler:           logMiddleware(mux),
        ReadHeaderTimeout: 5 * time.Second,
    }

    go func() {
        log.Printf("gateway listening on %s", srv.Addr)
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatalf("server error: %v", err)
        }
    }()

    stop := make(chan os.Signal, 1)
    signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
    <-stop

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = srv.Shutdown(ctx)
    srvDeps.Shutdown()
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        dur := time.Since(start)
        log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
    })
}
