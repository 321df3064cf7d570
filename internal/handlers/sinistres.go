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

type SinistreHandler struct {
	sinistres *services.SinistreService
}

func NewSinistreHandler(sinistres *services.SinistreService) *SinistreHandler {
	return &SinistreHandler{sinistres: sinistres}
}

// List handles GET /api/v1/sinistres?search=&statut=
func (h *SinistreHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	listing, err := h.sinistres.List(ctx, sess,
		r.URL.Query().Get("search"),
		r.URL.Query().Get("statut"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list claims")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

// ListByContrat handles GET /api/v1/sinistres/contrat/{contratId}
func (h *SinistreHandler) ListByContrat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	contratID, err := strconv.ParseInt(chi.URLParam(r, "contratId"), 10, 64)
	if err != nil || contratID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Identifiant de contrat invalide"})
		return
	}

	list, err := h.sinistres.ListByContrat(ctx, sess, contratID)
	if err != nil {
		log.Error().Err(err).Int64("contrat_id", contratID).Msg("Failed to list claims for contract")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Create handles POST /api/v1/sinistres
func (h *SinistreHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	var req models.CreateSinistreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Corps de requête invalide"})
		return
	}

	created, err := h.sinistres.Create(ctx, sess, req)
	if err != nil {
		log.Warn().Err(err).Int64("contrat_id", req.ContratID).Msg("Claim creation rejected")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateStatut handles PUT /api/v1/sinistres/{id}/statut
func (h *SinistreHandler) UpdateStatut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Identifiant de sinistre invalide"})
		return
	}

	var req models.UpdateStatutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Corps de requête invalide"})
		return
	}

	updated, err := h.sinistres.UpdateStatut(ctx, sess, id, req.Statut, req.MontantApprouve)
	if err != nil {
		log.Warn().Err(err).Int64("sinistre_id", id).Msg("Status change rejected")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/sinistres/{id}?confirm=true
func (h *SinistreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Identifiant de sinistre invalide"})
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.sinistres.Delete(ctx, sess, id, confirmed); err != nil {
		log.Warn().Err(err).Int64("sinistre_id", id).Msg("Claim deletion rejected")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
