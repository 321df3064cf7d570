package services

import (
	"context"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/gateway"
	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/session"
)

// AuthService fronts the remote auth service and normalizes its responses
type AuthService struct {
	gw gateway.Client
}

// NewAuthService creates an auth service
func NewAuthService(gw gateway.Client) *AuthService {
	return &AuthService{gw: gw}
}

// Login authenticates upstream and normalizes the response: when the
// body omits the user id, it is recovered from the token's payload claims
// so the browser always receives a complete session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	resp, err := s.gw.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.UserID == 0 && resp.Token != "" {
		if id := userIDFromToken(resp.Token); id > 0 {
			resp.UserID = id
		} else {
			log.Warn().Str("email", resp.Email).Msg("Login response carries no user id")
		}
	}

	return resp, nil
}

// Register creates a new account upstream
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	return s.gw.Register(ctx, req)
}

// ListUsers returns all accounts. Staff only.
func (s *AuthService) ListUsers(ctx context.Context, sess session.Session) ([]models.User, error) {
	if !sess.CanListUsers() {
		return nil, ErrForbidden
	}
	return s.gw.ListUsers(ctx, sess)
}

// ListClients returns the CLIENT accounts. Staff only.
func (s *AuthService) ListClients(ctx context.Context, sess session.Session) ([]models.User, error) {
	if !sess.CanListUsers() {
		return nil, ErrForbidden
	}
	return s.gw.ListClients(ctx, sess)
}

// userIDFromToken decodes the payload without verifying the signature;
// the token was just issued by the auth service itself.
func userIDFromToken(token string) int64 {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	switch v := claims["userId"].(type) {
	case float64:
		return int64(v)
	case string:
		id, _ := strconv.ParseInt(v, 10, 64)
		return id
	}
	return 0
}
