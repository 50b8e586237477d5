// Package ratelimit implements a keyed fixed-window counter.
//
// Each key (normally a client IP) gets a window that opens on its first hit
// and allows Max hits until it expires. Expired windows are evicted by Run,
// which the server starts alongside its listener.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults match the contact form limit
const (
	DefaultWindow = 60 * time.Second
	DefaultMax    = 10
)

// UnknownClient is the key used when no client address can be determined
const UnknownClient = "unknown"

type window struct {
	start time.Time
	count int
}

// Limiter is safe for concurrent use
type Limiter struct {
	window time.Duration
	max    int
	now    func() time.Time
	log    *zap.Logger

	mu      sync.Mutex
	windows map[string]*window
}

// New creates a limiter allowing max hits per key in each window
func New(period time.Duration, max int, log *zap.Logger) *Limiter {
	if period <= 0 {
		period = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Limiter{
		window:  period,
		max:     max,
		now:     time.Now,
		log:     log,
		windows: make(map[string]*window),
	}
}

// Allow records a hit for key and reports whether it is within the limit
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > l.window {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}
	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Evict drops every window that has expired and returns how many were removed
func (l *Limiter) Evict() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, w := range l.windows {
		if now.Sub(w.start) > l.window {
			delete(l.windows, key)
			n++
		}
	}
	return n
}

// Run evicts expired windows once per window until ctx is done
func (l *Limiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := l.Evict(); n > 0 {
				l.log.Debug("rate limit windows evicted", zap.Int("count", n), zap.Int("remaining", l.Len()))
			}
		}
	}
}

// ClientIP returns the first X-Forwarded-For hop, falling back to the
// connection address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if r.RemoteAddr == "" {
		return UnknownClient
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
