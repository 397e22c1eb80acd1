package http

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter tracks request counts per client IP over a fixed one-minute
// window. Zero requestsPerMinute disables limiting entirely.
type rateLimiter struct {
	mu                sync.Mutex
	clients           map[string]*clientWindow
	requestsPerMinute int
	lastSweep         time.Time
}

type clientWindow struct {
	windowStart time.Time
	requests    int
}

const staleClientAge = 10 * time.Minute

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	return &rateLimiter{
		clients:           make(map[string]*clientWindow),
		requestsPerMinute: requestsPerMinute,
		lastSweep:         time.Now(),
	}
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.sweepLocked(now)

	client, ok := rl.clients[clientIP]
	if !ok || now.Sub(client.windowStart) > time.Minute {
		rl.clients[clientIP] = &clientWindow{windowStart: now, requests: 1}
		return true
	}

	client.requests++
	return client.requests <= rl.requestsPerMinute
}

// sweepLocked drops clients idle for longer than staleClientAge. Piggybacks
// on allow instead of a background goroutine; a single-user service sees far
// too little traffic to justify one.
func (rl *rateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < staleClientAge {
		return
	}
	rl.lastSweep = now
	cutoff := now.Add(-staleClientAge)
	for ip, client := range rl.clients {
		if client.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	if rl.requestsPerMinute <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
