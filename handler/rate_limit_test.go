package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewRateLimiter(2)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"), "burst exhausted")
	assert.True(t, l.allow("10.0.0.2"), "buckets are per IP")

	now = now.Add(30 * time.Second)
	assert.True(t, l.allow("10.0.0.1"), "one token refilled")
	assert.False(t, l.allow("10.0.0.1"))
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewRateLimiter(1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(11 * time.Minute)
	l.allow("10.0.0.2")

	assert.Len(t, l.limiters, 1)
	assert.Contains(t, l.limiters, "10.0.0.2")
}

func TestRateLimiter_EvictsAtMostOncePerWindow(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	now := start
	l := NewRateLimiter(1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	assert.Equal(t, start, l.lastSweep)

	now = start.Add(5 * time.Minute)
	l.allow("10.0.0.2")
	assert.Equal(t, start, l.lastSweep, "no scan inside the window")

	now = start.Add(12 * time.Minute)
	l.allow("10.0.0.3")
	assert.Equal(t, now, l.lastSweep)
	assert.NotContains(t, l.limiters, "10.0.0.1")
	assert.Contains(t, l.limiters, "10.0.0.2", "seen 7 minutes ago")
	assert.Len(t, l.limiters, 2)
}

func TestRateLimiter_Limit(t *testing.T) {
	l := NewRateLimiter(1)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := l.Limit(ok)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", clientIP(req))
}
