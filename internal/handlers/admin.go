package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/middleware"
	"github.com/pfa-assurance/assurance-connector/internal/services"
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Dashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	dashboard, err := h.admin.GetDashboard(ctx, sess)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build dashboard")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// ServicesStatus handles GET /api/v1/admin/services/status
func (h *AdminHandler) ServicesStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	status, err := h.admin.GetServicesStatus(ctx, sess)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
