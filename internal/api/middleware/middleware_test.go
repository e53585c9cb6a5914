package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
)

type mockHTTPMetrics struct{ mock.Mock }

func (m *mockHTTPMetrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.Called(method, route, status)
}

type mockRateLimitMetrics struct{ mock.Mock }

func (m *mockRateLimitMetrics) IncRateLimited(route string) { m.Called(route) }

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &mockHTTPMetrics{}
	m.On("ObserveHTTPRequest", http.MethodGet, "/api/bookings/{bookingId}", http.StatusNotFound).Return()

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/bookings/42", nil))
	m.AssertExpectations(t)
}

func TestAccessLog_PassesThrough(t *testing.T) {
	h := AccessLog(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRateLimiter(t *testing.T) {
	m := &mockRateLimitMetrics{}
	m.On("IncRateLimited", "/api/bookings").Return()

	rl := NewRateLimiter(60, 2, nil, m)
	now := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := mux.NewRouter()
	r.Handle("/api/bookings", rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))).Methods(http.MethodPost)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))

	// другой клиент имеет собственный лимит
	assert.Equal(t, http.StatusCreated, send("10.0.0.2"))

	// через секунду восстанавливается один токен
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusCreated, send("10.0.0.1"))

	m.AssertNumberOfCalls(t, "IncRateLimited", 1)
}

func TestRateLimiter_ClientIP(t *testing.T) {
	rl := NewRateLimiter(60, 2, []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}, nil)

	tests := []struct {
		name   string
		remote string
		fwd    string
		want   string
	}{
		{name: "direct client", remote: "192.0.2.7:1234", want: "192.0.2.7"},
		{name: "header from untrusted peer is ignored", remote: "192.0.2.7:1234", fwd: "203.0.113.5", want: "192.0.2.7"},
		{name: "trusted proxy", remote: "10.0.0.1:1234", fwd: "203.0.113.5", want: "203.0.113.5"},
		{name: "spoofed first hop", remote: "10.0.0.1:1234", fwd: "1.2.3.4, 203.0.113.5", want: "203.0.113.5"},
		{name: "chain of trusted proxies", remote: "10.0.0.1:1234", fwd: "203.0.113.5, 10.0.0.2", want: "203.0.113.5"},
		{name: "garbage hop", remote: "10.0.0.1:1234", fwd: "not-an-ip", want: "10.0.0.1"},
		{name: "trusted proxy without header", remote: "10.0.0.1:1234", want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.fwd != "" {
				req.Header.Set("X-Forwarded-For", tt.fwd)
			}
			assert.Equal(t, tt.want, rl.clientIP(req))
		})
	}
}

func TestRateLimiter_SpoofedHeaderSharesLimit(t *testing.T) {
	rl := NewRateLimiter(60, 1, nil, nil)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(fwd string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.RemoteAddr = "192.0.2.7:5000"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("2.2.2.2"))
}
