// Package main runs a demo WebSocket client against a local gateway.
package main

import (
    "bytes"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "net/url"
    "os"
    "time"

    "github.com/gorilla/websocket"
)

type clientMessage struct {
    Type string `json:"type"`
}

func main() {
    port := os.Getenv("PORT")
    if port == "" {
        port = "8080"
    }
    userID := os.Getenv("DEMO_USER")
    if userID == "" {
        userID = "u_demo"
    }
    base := fmt.Sprintf("http://localhost:%s", port)

    // Connect with the dev-mode token (the user id itself)
    u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/ws", RawQuery: "token=" + userID}
    c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
    if err != nil {
        log.Fatal("dial:", err)
    }
    defer func() { _ = c.Close() }()

    done := make(chan struct{})
    go func() {
        defer close(done)
        for {
            var env map[string]any
            if err := c.ReadJSON(&env); err != nil {
                log.Printf("read: %v", err)
                return
            }
            pretty, _ := json.Marshal(env)
            log.Printf("WS <- %s", pretty)
        }
    }()

    // Subscribe to bookings and the dashboard
    for _, t := range []string{"bookings:subscribe", "dashboard:subscribe", "ping"} {
        if err := c.WriteJSON(clientMessage{Type: t}); err != nil {
            log.Fatal(err)
        }
    }

    // Trigger a booking event through the HTTP surface
    time.Sleep(500 * time.Millisecond)
    body := []byte(fmt.Sprintf(`{"userId":%q,"action":"confirmed","payload":{"id":"b1","property":"Seaside Flat"}}`, userID))
    req, _ := http.NewRequest(http.MethodPost, base+"/v1/events/booking", bytes.NewReader(body))
    req.Header.Set("Content-Type", "application/json")
    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        log.Fatal(err)
    }
    _ = resp.Body.Close()

    select {
    case <-time.After(2 * time.Second):
    case <-done:
    }
}
