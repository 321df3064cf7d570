package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/middleware"
	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/services"
)

type ContractHandler struct {
	contracts *services.ContractService
}

func NewContractHandler(contracts *services.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// List handles GET /api/v1/contracts?search=&statut=
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	listing, err := h.contracts.List(ctx, sess,
		r.URL.Query().Get("search"),
		r.URL.Query().Get("statut"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list contracts")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

// ListActive handles GET /api/v1/contracts/actifs
func (h *ContractHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	active, err := h.contracts.ListActive(ctx, sess)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active contracts")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, active)
}

// Create handles POST /api/v1/contracts
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	var req models.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Corps de requête invalide"})
		return
	}

	created, err := h.contracts.Create(ctx, sess, req)
	if err != nil {
		log.Warn().Err(err).Int64("client_id", req.ClientID).Msg("Contract creation rejected")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Cancel handles PATCH /api/v1/contracts/{id}/cancel?confirm=true
func (h *ContractHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Identifiant de contrat invalide"})
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.contracts.Cancel(ctx, sess, id, confirmed); err != nil {
		log.Warn().Err(err).Int64("contract_id", id).Msg("Contract cancellation rejected")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
