// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/event-backend/internal/config"
)

type notifier struct {
	shutdown atomic.Bool
}

func (n *notifier) SetShutdown(v bool) { n.shutdown.Store(v) }

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestRouterFallbacks(t *testing.T) {
	t.Parallel()

	srv := New(Config{ServerConfig: testServerConfig()})
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/ping", http.StatusNoContent},
		{http.MethodGet, "/missing", http.StatusNotFound},
		{http.MethodPost, "/ping", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, rec.Code, tt.method+" "+tt.path)
	}
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	srv := New(Config{ServerConfig: testServerConfig()})
	srv.Router().Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestShutdownNotifiesHealth(t *testing.T) {
	t.Parallel()

	n := &notifier{}
	srv := New(Config{ServerConfig: testServerConfig(), HealthHandler: n})

	require.NoError(t, srv.Shutdown(context.Background(), 0))
	assert.True(t, n.shutdown.Load())
}
