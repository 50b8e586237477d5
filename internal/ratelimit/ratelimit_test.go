package ratelimit

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(period time.Duration, max int) (*Limiter, *clock) {
	c := &clock{t: time.Unix(1700000000, 0)}
	l := New(period, max, nil)
	l.now = c.now
	return l, c
}

func TestAllowFixedWindow(t *testing.T) {
	l, c := newTestLimiter(time.Minute, 10)

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "hit %d", i+1)
	}
	assert.False(t, l.Allow("1.2.3.4"), "11th hit in the window")
	assert.True(t, l.Allow("5.6.7.8"), "other keys are independent")

	c.advance(30 * time.Second)
	assert.False(t, l.Allow("1.2.3.4"), "window does not slide")

	c.advance(31 * time.Second)
	assert.True(t, l.Allow("1.2.3.4"), "new window after expiry")
}

func TestWindowExpiryBoundary(t *testing.T) {
	l, c := newTestLimiter(time.Minute, 1)

	require.True(t, l.Allow("k"))
	c.advance(time.Minute)
	assert.False(t, l.Allow("k"), "a hit exactly one window later is still in the window")
	assert.Equal(t, 0, l.Evict(), "a window of exactly the period has not expired")

	c.advance(time.Nanosecond)
	assert.True(t, l.Allow("k"), "window expired")
	assert.False(t, l.Allow("k"), "new window is counted from the reset")
}

func TestEvict(t *testing.T) {
	l, c := newTestLimiter(time.Minute, 2)

	l.Allow("a")
	c.advance(45 * time.Second)
	l.Allow("b")
	require.Equal(t, 2, l.Len())

	c.advance(20 * time.Second)
	assert.Equal(t, 1, l.Evict())
	assert.Equal(t, 1, l.Len())
}

func TestDefaults(t *testing.T) {
	l := New(0, 0, nil)
	assert.Equal(t, DefaultWindow, l.window)
	assert.Equal(t, DefaultMax, l.max)
}

func TestRunStopsWithContext(t *testing.T) {
	l := New(10*time.Millisecond, 1, nil)
	l.Allow("a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConcurrentAllow(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 50)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("same") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"first forwarded hop", "203.0.113.5, 10.0.0.1", "10.0.0.2:1234", "203.0.113.5"},
		{"single forwarded", " 198.51.100.7 ", "", "198.51.100.7"},
		{"remote addr", "", "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", "", "192.0.2.9", "192.0.2.9"},
		{"nothing", "", "", UnknownClient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/contact", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
