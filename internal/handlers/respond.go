package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/gateway"
	"github.com/pfa-assurance/assurance-connector/internal/services"
	"github.com/pfa-assurance/assurance-connector/internal/validation"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps the error taxonomy to HTTP. Local validation failures
// and forbidden actions never reached the network; upstream 4xx messages
// pass through verbatim; 5xx and transport failures become generic
// retryable responses. A 401 propagates so the browser clears its session.
func writeError(w http.ResponseWriter, err error) {
	var ruleErr *validation.RuleError
	switch {
	case errors.As(err, &ruleErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ruleErr.Message})
	case errors.Is(err, services.ErrConfirmationRequired),
		errors.Is(err, services.ErrInvalidStatusFilter):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrContractNotActive):
		writeJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, gateway.ErrUnreachable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: "Impossible de joindre le serveur"})
	default:
		if se, ok := gateway.AsStatus(err); ok {
			writeUpstreamError(w, se)
			return
		}
		log.Error().Err(err).Msg("Unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Erreur interne"})
	}
}

func writeUpstreamError(w http.ResponseWriter, se *gateway.StatusError) {
	switch {
	case se.Code == http.StatusUnauthorized:
		// The browser clears its stored session on 401
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Session expirée, reconnexion requise"})
	case se.Code == http.StatusForbidden:
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "Accès refusé"})
	case se.Code >= 500:
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: "Le service distant a rencontré une erreur"})
	default:
		// Domain failure: upstream message verbatim
		msg := se.Message
		if msg == "" {
			msg = "Requête refusée par le service distant"
		}
		writeJSON(w, se.Code, errorResponse{Message: msg})
	}
}
