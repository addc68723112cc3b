package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMiddlewareRecordsStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()

	handler := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/game/action", nil))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "http request", entry.Message)
	assert.Equal(t, http.StatusConflict, entry.Data["status"])
	assert.Equal(t, "POST", entry.Data["method"])
	assert.Equal(t, "/game/action", entry.Data["path"])
}

func TestLogMiddlewareDefaultsTo200(t *testing.T) {
	logger, hook := test.NewNullLogger()

	handler := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, http.StatusOK, hook.LastEntry().Data["status"])
}
