// internal/handlers/action_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnatehq/magnate/internal/auth"
	"github.com/magnatehq/magnate/internal/engine"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	require.NoError(t, auth.Init(time.Hour))
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Server{Log: logger}
}

func TestActionRequiresAuth(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/game/action", bytes.NewBufferString(`{"action":"ROLL_DICE"}`))
	w := httptest.NewRecorder()
	s.ActionHandler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "auth", resp.Kind)
}

func TestActionRejectsMalformedBody(t *testing.T) {
	s := testServer(t)
	token, err := auth.CreateToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/game/action", bytes.NewBufferString(`{nope`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.ActionHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActionAcceptsCookieToken(t *testing.T) {
	s := testServer(t)
	token, err := auth.CreateToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/game/action", bytes.NewBufferString(`{nope`))
	req.Header.Set("Cookie", "auth_token="+token+"; other=1")
	w := httptest.NewRecorder()
	s.ActionHandler(w, req)

	// Past authentication: the malformed body is the complaint now.
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteErrorMapsKinds(t *testing.T) {
	cases := []struct {
		kind engine.Kind
		want int
	}{
		{engine.KindValidation, http.StatusBadRequest},
		{engine.KindAuth, http.StatusUnauthorized},
		{engine.KindAuthorization, http.StatusForbidden},
		{engine.KindState, http.StatusConflict},
		{engine.KindConflict, http.StatusConflict},
		{engine.KindNotFound, http.StatusNotFound},
		{engine.KindUpstream, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		writeError(w, &engine.Error{Kind: tc.kind, Msg: "boom"})
		assert.Equal(t, tc.want, w.Code, tc.kind.String())
	}
}

func TestWriteErrorHidesUpstreamDetail(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, &engine.Error{Kind: engine.KindUpstream, Msg: "pg connection refused"})

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "internal error", resp.Error)
}

func TestMeRequiresAuth(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/user/me", nil)
	w := httptest.NewRecorder()
	s.MeHandler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExtractCookieToken(t *testing.T) {
	assert.Equal(t, "abc", extractCookieToken("auth_token=abc", "auth_token"))
	assert.Equal(t, "abc", extractCookieToken("other=1; auth_token=abc; x=2", "auth_token"))
	assert.Empty(t, extractCookieToken("other=1", "auth_token"))
}
