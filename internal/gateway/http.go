package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pfa-assurance/assurance-connector/internal/metrics"
	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/session"
)

// HTTPClient talks to the remote insurance gateway over REST
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a gateway client rooted at baseURL
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Close releases idle connections
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// ListContracts fetches the full contract listing
func (c *HTTPClient) ListContracts(ctx context.Context, sess session.Session) ([]models.Contract, error) {
	var out []models.Contract
	err := c.do(ctx, sess, "contracts.list", http.MethodGet, "/contracts", nil, &out)
	return out, err
}

// ListContractsByClient fetches one client's contracts
func (c *HTTPClient) ListContractsByClient(ctx context.Context, sess session.Session, clientID int64) ([]models.Contract, error) {
	var out []models.Contract
	path := fmt.Sprintf("/contracts/client/%d", clientID)
	err := c.do(ctx, sess, "contracts.list_client", http.MethodGet, path, nil, &out)
	return out, err
}

// ListActiveContracts fetches the contracts that may originate claims
func (c *HTTPClient) ListActiveContracts(ctx context.Context, sess session.Session) ([]models.Contract, error) {
	var out []models.Contract
	err := c.do(ctx, sess, "contracts.list_active", http.MethodGet, "/contracts/actifs", nil, &out)
	return out, err
}

// CreateContract submits a new contract
func (c *HTTPClient) CreateContract(ctx context.Context, sess session.Session, req models.CreateContractRequest) (*models.Contract, error) {
	var out models.Contract
	if err := c.do(ctx, sess, "contracts.create", http.MethodPost, "/contracts/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelContract cancels a contract, a one-way transition
func (c *HTTPClient) CancelContract(ctx context.Context, sess session.Session, id int64) error {
	path := fmt.Sprintf("/contracts/%d/cancel", id)
	return c.do(ctx, sess, "contracts.cancel", http.MethodPatch, path, struct{}{}, nil)
}

// ListSinistres fetches the full claim listing
func (c *HTTPClient) ListSinistres(ctx context.Context, sess session.Session) ([]models.Sinistre, error) {
	var out []models.Sinistre
	err := c.do(ctx, sess, "sinistres.list", http.MethodGet, "/sinistres", nil, &out)
	return out, err
}

// ListSinistresByClient fetches one client's claims
func (c *HTTPClient) ListSinistresByClient(ctx context.Context, sess session.Session, clientID int64) ([]models.Sinistre, error) {
	var out []models.Sinistre
	path := fmt.Sprintf("/sinistres/client/%d", clientID)
	err := c.do(ctx, sess, "sinistres.list_client", http.MethodGet, path, nil, &out)
	return out, err
}

// ListSinistresByContrat fetches the claims declared against one contract
func (c *HTTPClient) ListSinistresByContrat(ctx context.Context, sess session.Session, contratID int64) ([]models.Sinistre, error) {
	var out []models.Sinistre
	path := fmt.Sprintf("/sinistres/contrat/%d", contratID)
	err := c.do(ctx, sess, "sinistres.list_contrat", http.MethodGet, path, nil, &out)
	return out, err
}

// CreateSinistre declares a new claim
func (c *HTTPClient) CreateSinistre(ctx context.Context, sess session.Session, req models.CreateSinistreRequest) (*models.Sinistre, error) {
	var out models.Sinistre
	if err := c.do(ctx, sess, "sinistres.create", http.MethodPost, "/sinistres", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSinistreStatut submits a status transition and returns the claim
// as the gateway now sees it
func (c *HTTPClient) UpdateSinistreStatut(ctx context.Context, sess session.Session, id int64, req models.UpdateStatutRequest) (*models.Sinistre, error) {
	var out models.Sinistre
	path := fmt.Sprintf("/sinistres/%d/statut", id)
	if err := c.do(ctx, sess, "sinistres.update_statut", http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSinistre removes a claim permanently
func (c *HTTPClient) DeleteSinistre(ctx context.Context, sess session.Session, id int64) error {
	path := fmt.Sprintf("/sinistres/%d", id)
	return c.do(ctx, sess, "sinistres.delete", http.MethodDelete, path, nil, nil)
}

// Login authenticates against the auth service. No session yet, so the
// request goes out bare.
func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, session.Session{}, "auth.login", http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account
func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, session.Session{}, "auth.register", http.MethodPost, "/auth/register", req, nil)
}

// ListUsers fetches all accounts
func (c *HTTPClient) ListUsers(ctx context.Context, sess session.Session) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, sess, "auth.list_users", http.MethodGet, "/auth/users", nil, &out)
	return out, err
}

// ListClients fetches accounts with the CLIENT role
func (c *HTTPClient) ListClients(ctx context.Context, sess session.Session) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, sess, "auth.list_clients", http.MethodGet, "/auth/clients", nil, &out)
	return out, err
}

// Ping issues a bare GET against one upstream path for health probing
func (c *HTTPClient) Ping(ctx context.Context, sess session.Session, path string) error {
	return c.do(ctx, sess, "ping", http.MethodGet, path, nil, nil)
}

// do builds, sends and decodes one gateway call. Transport failures wrap
// ErrUnreachable; non-2xx responses become StatusError with the upstream
// body preserved.
func (c *HTTPClient) do(ctx context.Context, sess session.Session, operation, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.addAuth(req, sess)

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(operation, "unreachable").Inc()
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues(operation, "error").Inc()
		raw, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Message: extractMessage(raw)}
	}

	metrics.UpstreamRequests.WithLabelValues(operation, "ok").Inc()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// addAuth attaches the bearer token and the identity headers the backend
// uses for its own authorization checks
func (c *HTTPClient) addAuth(req *http.Request, sess session.Session) {
	if sess.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	if sess.UserID > 0 {
		req.Header.Set("X-User-Id", fmt.Sprintf("%d", sess.UserID))
	}
	if sess.Role != "" {
		req.Header.Set("X-User-Role", string(sess.Role))
	}
}

// extractMessage pulls a human message out of an error body. The gateway
// answers either with plain text or with {"message": "..."}.
func extractMessage(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return trimmed
}
