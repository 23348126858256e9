package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthChecker
		wantStatus int
	}{
		{name: "all healthy", checks: map[string]HealthChecker{"postgres": checkerFunc(func(context.Context) error { return nil })}, wantStatus: http.StatusOK},
		{name: "redis down", checks: map[string]HealthChecker{
			"postgres": checkerFunc(func(context.Context) error { return nil }),
			"redis":    checkerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
		}, wantStatus: http.StatusServiceUnavailable},
		{name: "nil checker skipped", checks: map[string]HealthChecker{"redis": nil}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("nightpass", tt.checks)
			router := newTestRouter(nil)
			router.GET("/ready", h.Ready)
			router.GET("/health", h.Health)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
