package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/magnatehq/magnate/internal/auth"
)

// extractCookieToken extracts a named cookie value from the "Cookie" header,
// or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requestToken pulls the session token from the Authorization header or the
// auth_token cookie, in that order.
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return extractCookieToken(r.Header.Get("Cookie"), "auth_token")
}

// authenticate resolves the calling user from the request credentials.
func authenticate(r *http.Request) (uuid.UUID, error) {
	token := requestToken(r)
	if token == "" {
		return uuid.Nil, fmt.Errorf("missing auth token")
	}
	return auth.VerifyToken(token)
}
