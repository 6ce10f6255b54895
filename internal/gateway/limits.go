package gateway

import (
    "sync"
    "sync/atomic"
    "time"

    "golang.org/x/time/rate"
)

// LimitReason describes why a connection attempt was refused.
type LimitReason string

const (
    LimitReasonGlobal LimitReason = "global_limit"
    LimitReasonPerIP  LimitReason = "per_ip_limit"
    LimitReasonRate   LimitReason = "rate_limit"
)

// ConnectionLimits gates connection admission: a global cap, a per-IP cap,
// and a per-IP dial rate (token bucket).
type ConnectionLimits struct {
    max     int64
    current atomic.Int64

    mu       sync.Mutex
    perIP    map[string]int
    maxPerIP int

    limiters  map[string]*rate.Limiter
    dialRate  rate.Limit
    dialBurst int
    cleanupAt time.Time
}

func NewConnectionLimits(globalMax int64, maxPerIP int, dialRate float64, dialBurst int) *ConnectionLimits {
    return &ConnectionLimits{
        max:       globalMax,
        perIP:     map[string]int{},
        maxPerIP:  maxPerIP,
        limiters:  map[string]*rate.Limiter{},
        dialRate:  rate.Limit(dialRate),
        dialBurst: dialBurst,
        cleanupAt: time.Now().Add(5 * time.Minute),
    }
}

// Acquire claims a slot for the given IP. On refusal the reason says which
// limit tripped; nothing is held and Release must not be called.
func (l *ConnectionLimits) Acquire(ip string) (bool, LimitReason) {
    if !l.allowDial(ip) {
        return false, LimitReasonRate
    }
    for {
        cur := l.current.Load()
        if cur >= l.max {
            return false, LimitReasonGlobal
        }
        if l.current.CompareAndSwap(cur, cur+1) {
            break
        }
    }
    l.mu.Lock()
    if l.perIP[ip] >= l.maxPerIP {
        l.mu.Unlock()
        l.current.Add(-1)
        return false, LimitReasonPerIP
    }
    l.perIP[ip]++
    l.mu.Unlock()
    return true, ""
}

// Release frees the slot held for the given IP.
func (l *ConnectionLimits) Release(ip string) {
    l.mu.Lock()
    if n := l.perIP[ip]; n > 1 {
        l.perIP[ip] = n - 1
    } else {
        delete(l.perIP, ip)
    }
    l.mu.Unlock()
    l.current.Add(-1)
}

// Current returns the number of held slots.
func (l *ConnectionLimits) Current() int64 { return l.current.Load() }

func (l *ConnectionLimits) allowDial(ip string) bool {
    l.mu.Lock()
    defer l.mu.Unlock()
    now := time.Now()
    if now.After(l.cleanupAt) {
        // Dial limiters refill to full burst within seconds; dropping them
        // all periodically is cheaper than tracking last-seen per IP.
        l.limiters = map[string]*rate.Limiter{}
        l.cleanupAt = now.Add(5 * time.Minute)
    }
    lim, ok := l.limiters[ip]
    if !ok {
        lim = rate.NewLimiter(l.dialRate, l.dialBurst)
        l.limiters[ip] = lim
    }
    return lim.Allow()
}
