package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/court-records-api/auth"
	"github.com/linesmerrill/court-records-api/models"
)

func echoActor(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(actor.ID + ":" + actor.Role))
}

func TestMiddlewareAuth(t *testing.T) {
	jwt := auth.NewJWTManager([]byte("secret"), time.Hour)
	m := MiddlewareAuth{Authenticator: auth.NewAuthenticator(context.Background(), jwt)}
	handler := m.Middleware(http.HandlerFunc(echoActor))

	token, err := jwt.GenerateToken(models.User{ID: "J12345", Role: models.RoleJudge})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "J12345:Judge", rr.Body.String())

	for _, header := range []string{"", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, header)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleRegistrar)(http.HandlerFunc(echoActor))

	tests := []struct {
		name   string
		actor  *models.Actor
		status int
	}{
		{"registrar", &models.Actor{ID: "R00001", Role: models.RoleRegistrar}, http.StatusOK},
		{"case insensitive", &models.Actor{ID: "R00001", Role: "registrar"}, http.StatusOK},
		{"judge", &models.Actor{ID: "J00001", Role: models.RoleJudge}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/activity", nil)
			if tt.actor != nil {
				req = req.WithContext(auth.WithActor(req.Context(), *tt.actor))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestTimeoutMiddlewareSetsDeadline(t *testing.T) {
	var deadline time.Time
	handler := TimeoutMiddleware(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, _ = r.Context().Deadline()
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 2, rl.Sweep())
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", clientIP(req, false))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "192.168.1.5", clientIP(req, false))
	assert.Equal(t, "10.0.0.1", clientIP(req, true))
}

func TestRateLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	for _, trustProxy := range []bool{false, true} {
		rl := NewRateLimiter(1, time.Minute)
		rl.TrustProxy = trustProxy
		handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		codes := []int{}
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			// a fresh first hop per request, the proxy always appends the same peer
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d, 203.0.113.7", i))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			codes = append(codes, rr.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes, "trustProxy=%v", trustProxy)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://court.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/cases", nil)
	req.Header.Set("Origin", "https://court.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://court.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/cases", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/api/cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"C001", "C002"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cases/"+id, nil))
	}
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/cases/{id}", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.InFlight))
}

func TestHealthCheck(t *testing.T) {
	rr := httptest.NewRecorder()
	HealthCheck("memory", nil)(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive":true,"database":"memory"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	HealthCheck("mongo", func(context.Context) error { return errors.New("mocked-error") })(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
