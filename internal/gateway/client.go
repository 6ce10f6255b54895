package gateway

import (
    "log"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/gorilla/websocket"

    "bookhub/internal/model"
)

// client owns one WebSocket connection and implements Handle. Outbound
// envelopes go through a bounded queue drained by the write pump, so a slow
// reader never stalls fan-out to other users; when the queue is full new
// envelopes are dropped.
type client struct {
    id     string
    userID string
    conn   *websocket.Conn

    send chan model.Envelope
    done chan struct{}
    once sync.Once

    writeTimeout time.Duration
}

func newClient(userID string, conn *websocket.Conn, queueSize int, writeTimeout time.Duration) *client {
    return &client{
        id:           uuid.NewString(),
        userID:       userID,
        conn:         conn,
        send:         make(chan model.Envelope, queueSize),
        done:         make(chan struct{}),
        writeTimeout: writeTimeout,
    }
}

// Push enqueues an envelope for delivery. Returns false if the client is
// closed or its queue is full; never blocks.
func (c *client) Push(env model.Envelope) bool {
    select {
    case <-c.done:
        return false
    default:
    }
    select {
    case c.send <- env:
        return true
    case <-c.done:
        return false
    default:
        return false
    }
}

// Close cancels the client exactly once. Closing the socket unblocks the
// read loop; the done channel stops the write pump and fails future pushes.
func (c *client) Close() {
    c.once.Do(func() {
        close(c.done)
        _ = c.conn.Close()
    })
}

// writePump is the sole writer on the socket. It drains the send queue and
// emits protocol-level pings for liveness.
func (c *client) writePump(pingInterval time.Duration) {
    ticker := time.NewTicker(pingInterval)
    defer ticker.Stop()
    for {
        select {
        case env := <-c.send:
            _ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
            if err := c.conn.WriteJSON(env); err != nil {
                log.Printf("ws write user=%s conn=%s: %v", c.userID, c.id, err)
                c.Close()
                return
            }
        case <-ticker.C:
            _ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
            if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
                c.Close()
                return
            }
        case <-c.done:
            _ = c.conn.WriteControl(websocket.CloseMessage,
                websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
                time.Now().Add(time.Second))
            return
        }
    }
}
