package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LogsStatusAndPath(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("X-Tenant-ID", "terreiro-1")
	rec := httptest.NewRecorder()

	RequestLogger(handler, zap.New(core)).ServeHTTP(rec, req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/events", fields["path"])
	assert.EqualValues(t, 201, fields["status"])
	assert.Equal(t, "terreiro-1", fields["tenant_id"])
}

func TestRequestLogger_DefaultsTo200(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	RequestLogger(handler, zap.New(core)).ServeHTTP(rec, req)

	require.Equal(t, 1, logs.Len())
	assert.EqualValues(t, 200, logs.All()[0].ContextMap()["status"])
}

func TestPathParts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"events", "e1", "tickets"}, pathParts("/events/e1/tickets/"))
	assert.Equal(t, []string{"events", "e1"}, pathParts("//events//e1"))
	assert.Empty(t, pathParts("/"))
}
