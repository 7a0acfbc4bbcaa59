package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/service"
)

func TestDefaultRouterConfig(t *testing.T) {
	cfg := DefaultRouterConfig()

	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.EnableAuth)
}

func TestNewRouter_Routes(t *testing.T) {
	srv := setupRouter(t, DefaultRouterConfig())

	routes := make(map[string]bool)
	for _, r := range srv.router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"POST /api/allocate",
		"POST /api/allocate/import",
		"GET /api/allocations",
		"GET /api/allocations/:id",
		"GET /api/allocations/:id/export",
		"GET /api/allocations/:id/history",
		"POST /api/allocations/:id/share",
		"GET /api/shared/:token",
		"GET /api/profiles",
		"GET /api/profiles/:name",
		"PUT /api/profiles/:name",
		"DELETE /api/profiles/:name",
		"GET /healthz",
		"GET /readyz",
		"GET /metrics",
		"GET /swagger/*any",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestRouter_APIKeyAuth(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.EnableAuth = true
	cfg.APIKeys = map[string]bool{"secret-key-1": true}
	srv := setupRouter(t, cfg)

	tests := []struct {
		name           string
		method         string
		path           string
		key            string
		expectedStatus int
	}{
		{"missing key", http.MethodGet, "/api/profiles", "", http.StatusUnauthorized},
		{"wrong key", http.MethodGet, "/api/profiles", "other", http.StatusUnauthorized},
		{"valid key", http.MethodGet, "/api/profiles", "secret-key-1", http.StatusOK},
		{"shared view is public", http.MethodGet, "/api/shared/bogus", "", http.StatusNotFound},
		{"health is public", http.MethodGet, "/healthz", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_RateLimitPerClient(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.RateLimit = 2
	cfg.EnableAuth = true
	cfg.APIKeys = map[string]bool{"alpha-key": true, "bravo-key": true}
	srv := setupRouter(t, cfg)

	call := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
		req.Header.Set("X-API-Key", key)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, call("alpha-key").Code)
	require.Equal(t, http.StatusOK, call("alpha-key").Code)

	limited := call("alpha-key")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("bravo-key").Code)
}

func TestRouter_CORS(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.CORSOrigins = []string{"https://planner.example.com"}
	srv := setupRouter(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/allocate", nil)
	req.Header.Set("Origin", "https://planner.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, "https://planner.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AllocateGetsDeadline(t *testing.T) {
	allocator := new(MockAllocator)
	var hasDeadline bool
	allocator.On("Allocate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, hasDeadline = args.Get(0).(context.Context).Deadline()
		}).
		Return(&model.Allocation{ID: "a1"}, nil)

	cfg := DefaultRouterConfig()
	cfg.RequestTimeout = time.Second
	router := NewRouter(NewHandler(allocator), nil, NewHealthHandler(), cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/allocate", strings.NewReader(`{"profile": "20ft", "items": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, hasDeadline)
}

func TestRouter_SlowAllocationTimesOut(t *testing.T) {
	allocator := service.NewAllocatorService(service.WithPackTimeout(300 * time.Millisecond))
	cfg := DefaultRouterConfig()
	cfg.RequestTimeout = 30 * time.Millisecond
	router := NewRouter(NewHandler(allocator), nil, NewHealthHandler(), cfg)

	body := `{"container": {"width": 1, "height": 8000, "depth": 1, "max_weight": 2000},
		"items": [{"id": "cube", "width": 1, "height": 1, "depth": 1, "weight": 1, "quantity": 2000}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/allocate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	start := time.Now()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRouter_AuditsAllocations(t *testing.T) {
	audited := make(chan *model.LogEntry, 1)
	logs := new(MockLoggingService)
	logs.On("CreateLog", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if entry := args.Get(1).(*model.LogEntry); entry.ActionType == model.ActionAllocate {
				select {
				case audited <- entry:
				default:
				}
			}
		}).
		Return(nil).Maybe()

	cfg := DefaultRouterConfig()
	cfg.LoggingService = logs
	srv := setupRouter(t, cfg)

	w := srv.do(t, http.MethodPost, "/api/allocate", `{"profile": "20ft", "items": [{"id": "a", "width": 1, "height": 1, "depth": 1}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case entry := <-audited:
		assert.NotEmpty(t, entry.AllocationID)
		assert.Equal(t, "/api/allocate", entry.Path)
		assert.Equal(t, 1, entry.Fields["placed"])
	case <-time.After(2 * time.Second):
		t.Fatal("allocation was not audited")
	}
}
