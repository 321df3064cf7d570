package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfa-assurance/assurance-connector/internal/models"
)

// tokenWithClaims builds a syntactically valid JWT carrying the given
// payload. The signature is garbage; only the payload is ever read.
func tokenWithClaims(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".c2lnbmF0dXJl"
}

func TestLogin_PassesThroughCompleteResponse(t *testing.T) {
	f := &fakeGateway{loginResp: &models.LoginResponse{
		Token:  "tok",
		UserID: 42,
		Email:  "dupont@example.com",
		Role:   models.RoleClient,
	}}
	svc := NewAuthService(f)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "dupont@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.UserID)
}

func TestLogin_RecoversUserIDFromTokenClaims(t *testing.T) {
	token := tokenWithClaims(t, map[string]any{"userId": 42, "role": "CLIENT"})
	f := &fakeGateway{loginResp: &models.LoginResponse{
		Token: token,
		Email: "dupont@example.com",
		Role:  models.RoleClient,
	}}
	svc := NewAuthService(f)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "dupont@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.UserID)
}

func TestLogin_RecoversStringUserID(t *testing.T) {
	token := tokenWithClaims(t, map[string]any{"userId": "42"})
	f := &fakeGateway{loginResp: &models.LoginResponse{Token: token}}
	svc := NewAuthService(f)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.UserID)
}

func TestLogin_MalformedTokenLeavesUserIDZero(t *testing.T) {
	f := &fakeGateway{loginResp: &models.LoginResponse{Token: "not-a-jwt"}}
	svc := NewAuthService(f)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Zero(t, resp.UserID)
}

func TestListUsers_StaffOnly(t *testing.T) {
	f := &fakeGateway{users: []models.User{{ID: 1, Email: "a@b.c", Role: models.RoleClient}}}
	svc := NewAuthService(f)

	_, err := svc.ListUsers(context.Background(), clientSession)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.calls)

	users, err := svc.ListUsers(context.Background(), staffSession)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestListClients_StaffOnly(t *testing.T) {
	f := &fakeGateway{clients: []models.User{{ID: 1, Email: "a@b.c", Role: models.RoleClient}}}
	svc := NewAuthService(f)

	_, err := svc.ListClients(context.Background(), clientSession)
	require.ErrorIs(t, err, ErrForbidden)

	clients, err := svc.ListClients(context.Background(), staffSession)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}
