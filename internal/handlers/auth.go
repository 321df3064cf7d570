package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/middleware"
	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Corps de requête invalide"})
		return
	}
	if req.Password == "" || (req.Email == "" && req.Username == "") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Identifiants requis"})
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Corps de requête invalide"})
		return
	}

	if err := h.auth.Register(r.Context(), req); err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Compte créé"})
}

// ListUsers handles GET /auth/users
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	users, err := h.auth.ListUsers(ctx, sess)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// ListClients handles GET /auth/clients
func (h *AuthHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	clients, err := h.auth.ListClients(ctx, sess)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list clients")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clients)
}
