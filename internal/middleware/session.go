package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/session"
)

type contextKey string

const SessionKey contextKey = "session"

// RequireSession extracts the caller's session from the Authorization
// bearer token plus the X-User-Id / X-User-Role headers. When the headers
// are absent the identity is recovered from the token's payload claims.
// Requests without a usable identity are rejected with 401 so the browser
// clears its stored session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			log.Warn().Str("path", r.URL.Path).Msg("Missing bearer token")
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		userID, role := identityFromHeaders(r)
		if userID == 0 || role == "" {
			claimID, claimRole := identityFromClaims(token)
			if userID == 0 {
				userID = claimID
			}
			if role == "" {
				role = claimRole
			}
		}

		if userID <= 0 || !role.Valid() {
			log.Warn().
				Int64("user_id", userID).
				Str("role", string(role)).
				Msg("Incomplete session identity")
			http.Error(w, "Invalid session", http.StatusUnauthorized)
			return
		}

		sess := session.Session{Token: token, UserID: userID, Role: role}
		ctx := context.WithValue(r.Context(), SessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSession extracts the session from context
func GetSession(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(session.Session)
	return sess, ok
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[len("bearer "):])
}

func identityFromHeaders(r *http.Request) (int64, models.Role) {
	var userID int64
	if raw := r.Header.Get("X-User-Id"); raw != "" {
		userID, _ = strconv.ParseInt(raw, 10, 64)
	}
	return userID, models.Role(r.Header.Get("X-User-Role"))
}

// identityFromClaims decodes the token payload without verifying the
// signature; the remote gateway is the authority and re-checks every call.
func identityFromClaims(token string) (int64, models.Role) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, ""
	}

	var userID int64
	switch v := claims["userId"].(type) {
	case float64:
		userID = int64(v)
	case string:
		userID, _ = strconv.ParseInt(v, 10, 64)
	}

	role, _ := claims["role"].(string)
	return userID, models.Role(role)
}
