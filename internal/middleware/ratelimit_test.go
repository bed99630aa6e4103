package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rmarchan/cine-gestion/internal/config"
)

func bucketConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            5 * time.Minute,
		Prefix:         "rl:test",
	}
}

func hitLogin(t *testing.T, mw echo.MiddlewareFunc) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec.Code
}

func TestTokenBucketExhaustsAndRejects(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mw := NewTokenBucket(bucketConfig(3), rdb)

	for i := 0; i < 3; i++ {
		if code := hitLogin(t, mw); code != http.StatusOK {
			t.Fatalf("request %d inside the burst rejected with %d", i, code)
		}
	}
	if code := hitLogin(t, mw); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the burst, got %d", code)
	}
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	for i := 0; i < 50; i++ {
		if code := hitLogin(t, mw); code != http.StatusOK {
			t.Fatalf("disabled limiter rejected request %d with %d", i, code)
		}
	}
}

func TestTokenBucketFailsOpenWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(bucketConfig(1), nil)
	for i := 0; i < 10; i++ {
		if code := hitLogin(t, mw); code != http.StatusOK {
			t.Fatalf("limiter without redis must fail open, got %d", code)
		}
	}
}
