package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pfa-assurance/assurance-connector/internal/database"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	// The audit database is optional; absence is not a degradation
	if database.DB == nil {
		response.Services["audit_db"] = "disabled"
	} else if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
		response.Services["audit_db"] = "unhealthy"
		response.Status = "degraded"
	} else {
		response.Services["audit_db"] = "healthy"
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if database.DB != nil {
		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			http.Error(w, "Service not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
