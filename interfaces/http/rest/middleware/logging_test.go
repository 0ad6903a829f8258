package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"mnemosyne/interfaces/http/rest/middleware"
)

func TestLogger_RecordsMethodPathAndStatus(t *testing.T) {
	// Arrange
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := middleware.Logger(logger)(next)

	req := httptest.NewRequest(http.MethodGet, "/engrams", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "http request", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/engrams", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
