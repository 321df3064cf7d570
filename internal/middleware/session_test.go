package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/session"
)

func claimsToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".c2ln"
}

func sessionProbe(captured *session.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSession(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		*captured = sess
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession_MissingTokenRejected(t *testing.T) {
	var sess session.Session
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sinistres", nil)

	RequireSession(sessionProbe(&sess)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSession_IdentityFromHeaders(t *testing.T) {
	var sess session.Session
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sinistres", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Role", "CLIENT")

	RequireSession(sessionProbe(&sess)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", sess.Token)
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, models.RoleClient, sess.Role)
}

func TestRequireSession_IdentityFromTokenClaims(t *testing.T) {
	var sess session.Session
	token := claimsToken(t, map[string]any{"userId": 42, "role": "GESTIONNAIRE"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sinistres", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	RequireSession(sessionProbe(&sess)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, models.RoleGestionnaire, sess.Role)
}

func TestRequireSession_HeadersWinOverClaims(t *testing.T) {
	var sess session.Session
	token := claimsToken(t, map[string]any{"userId": 99, "role": "ADMIN"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Role", "CLIENT")

	RequireSession(sessionProbe(&sess)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, models.RoleClient, sess.Role)
}

func TestRequireSession_UnknownRoleRejected(t *testing.T) {
	var sess session.Session
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Role", "SUPERUSER")

	RequireSession(sessionProbe(&sess)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSession_MalformedTokenWithoutHeadersRejected(t *testing.T) {
	var sess session.Session
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	RequireSession(sessionProbe(&sess)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken_Parsing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Bearer tok-123")
	assert.Equal(t, "tok-123", bearerToken(req))

	req.Header.Set("Authorization", "bearer tok-123")
	assert.Equal(t, "tok-123", bearerToken(req))
}
