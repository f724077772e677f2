package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowedOriginEchoed(t *testing.T) {
	h := CORS([]string{"https://pulsefit.example"})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", nil)
	req.Header.Set("Origin", "https://pulsefit.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://pulsefit.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	h := CORS([]string{"https://pulsefit.example"})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardAllowsAny(t *testing.T) {
	h := CORS([]string{"*"})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", nil)
	req.Header.Set("Origin", "https://anything.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://anything.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	h := CORS([]string{"https://pulsefit.example"})(next)

	req := httptest.NewRequest(http.MethodOptions, "/webhooks/chat", nil)
	req.Header.Set("Origin", "https://pulsefit.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
}

func TestRateLimiterExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should pass", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// A different IP has its own bucket.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	h := RateLimit(1, 1)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.9")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
