package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func setupRouter(p Pinger) *gin.Engine {
	h := NewHealthHandler(p)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	return r
}

func TestHealth(t *testing.T) {
	t.Parallel()

	healthy := pingerFunc(func(context.Context) error { return nil })
	broken := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		pinger     Pinger
		method     string
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "GET healthy",
			pinger:     healthy,
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"status": "ok", "database": "ok"},
		},
		{
			name:       "GET database down",
			pinger:     broken,
			method:     http.MethodGet,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"status": "unavailable", "database": "unreachable"},
		},
		{
			name:       "HEAD healthy",
			pinger:     healthy,
			method:     http.MethodHead,
			wantStatus: http.StatusOK,
		},
		{
			name:       "HEAD database down",
			pinger:     broken,
			method:     http.MethodHead,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.pinger).ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

			if tt.wantBody == nil {
				assert.Empty(t, w.Body.String())
				return
			}
			var got map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestHealth_PingHasDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	p := pingerFunc(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	w := httptest.NewRecorder()
	setupRouter(p).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, hasDeadline)
}
