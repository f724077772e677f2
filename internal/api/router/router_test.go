package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/gymchat/internal/booking"
	"github.com/pulsefit/gymchat/internal/calendar"
	"github.com/pulsefit/gymchat/internal/http/handlers"
	"github.com/pulsefit/gymchat/internal/notify"
	"github.com/pulsefit/gymchat/internal/otp"
	"github.com/pulsefit/gymchat/internal/session"
	"github.com/pulsefit/gymchat/internal/trainers"
)

func newTestRouter(t *testing.T, cfg *Config) http.Handler {
	t.Helper()
	engine := booking.NewEngine(
		session.NewMemoryStore(),
		otp.New(),
		trainers.NewInMemoryRepository(),
		booking.NewCoordinator(calendar.NewStubService(), notify.NewMailer(notify.NewQueue(16)), nil),
	)
	cfg.ChatWebhook = handlers.NewChatWebhookHandler(engine, nil)
	return New(cfg)
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t, &Config{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRoute(t *testing.T) {
	r := newTestRouter(t, &Config{})

	body := strings.NewReader(`{"conversation_id":"c1","message":"Book Free Trial"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/chat", body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "full name")
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, &Config{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhooks/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsRouteMountedWhenConfigured(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r := newTestRouter(t, &Config{MetricsHandler: metrics})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	r = newTestRouter(t, &Config{})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhookRateLimited(t *testing.T) {
	r := newTestRouter(t, &Config{RateLimitPerSecond: 1, RateLimitBurst: 1})

	post := func() int {
		body := strings.NewReader(`{"conversation_id":"c1","message":"hi"}`)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", body)
		req.Header.Set("X-Real-Ip", "10.1.1.1")
		req.RemoteAddr = "10.1.1.1:5000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
}
