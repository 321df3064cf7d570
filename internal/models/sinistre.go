package models

import (
	"encoding/json"
	"fmt"
)

// StatutSinistre is the lifecycle status of a claim
type StatutSinistre string

const (
	StatutDeclare   StatutSinistre = "DECLARE"
	StatutEnCours   StatutSinistre = "EN_COURS"
	StatutValide    StatutSinistre = "VALIDE"
	StatutRejete    StatutSinistre = "REJETE"
	StatutIndemnise StatutSinistre = "INDEMNISE"
)

// sinistreTransitions is the fixed transition table. REJETE and INDEMNISE
// have no outgoing transitions.
var sinistreTransitions = map[StatutSinistre][]StatutSinistre{
	StatutDeclare:   {StatutEnCours, StatutRejete},
	StatutEnCours:   {StatutValide, StatutRejete},
	StatutValide:    {StatutIndemnise},
	StatutRejete:    {},
	StatutIndemnise: {},
}

// Valid reports whether s is a known claim status
func (s StatutSinistre) Valid() bool {
	_, ok := sinistreTransitions[s]
	return ok
}

// AllowedTransitions returns the statuses reachable from s
func (s StatutSinistre) AllowedTransitions() []StatutSinistre {
	next, ok := sinistreTransitions[s]
	if !ok {
		return nil
	}
	out := make([]StatutSinistre, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether the transition s -> next is legal
func (s StatutSinistre) CanTransitionTo(next StatutSinistre) bool {
	for _, t := range sinistreTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions
func (s StatutSinistre) IsTerminal() bool {
	next, ok := sinistreTransitions[s]
	return ok && len(next) == 0
}

// UnmarshalJSON rejects unknown status strings instead of carrying them
func (s *StatutSinistre) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := StatutSinistre(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown claim status: %q", raw)
	}
	*s = v
	return nil
}

// Sinistre is a declared claim against an active contract
type Sinistre struct {
	ID              int64          `json:"id,omitempty"`
	NumeroSinistre  string         `json:"numeroSinistre,omitempty"`
	ClientID        int64          `json:"clientId"`
	ContratID       int64          `json:"contratId"`
	Description     string         `json:"description"`
	DateSinistre    string         `json:"dateSinistre,omitempty"`
	DateDeclaration string         `json:"dateDeclaration,omitempty"`
	MontantDemande  float64        `json:"montantDemande"`
	MontantApprouve *float64       `json:"montantApprouve,omitempty"`
	Statut          StatutSinistre `json:"statut"`

	// Enriched by the backend, never mutated here
	ClientNom   string `json:"clientNom,omitempty"`
	ClientEmail string `json:"clientEmail,omitempty"`
}

// CreateSinistreRequest is the creation payload. The client id is inherited
// from the session server-side.
type CreateSinistreRequest struct {
	ContratID      int64   `json:"contratId"`
	Description    string  `json:"description"`
	DateSinistre   string  `json:"dateSinistre"`
	MontantDemande float64 `json:"montantDemande"`
}

// UpdateStatutRequest is the minimal status-update payload
type UpdateStatutRequest struct {
	Statut          StatutSinistre `json:"statut"`
	MontantApprouve *float64       `json:"montantApprouve,omitempty"`
}

// SinistreStats are per-status aggregate counts over a working list
type SinistreStats struct {
	Total     int `json:"total"`
	Declare   int `json:"declare"`
	EnCours   int `json:"enCours"`
	Valide    int `json:"valide"`
	Rejete    int `json:"rejete"`
	Indemnise int `json:"indemnise"`
}

// ComputeSinistreStats recomputes aggregate counts from the full list
func ComputeSinistreStats(sinistres []Sinistre) SinistreStats {
	stats := SinistreStats{Total: len(sinistres)}
	for _, s := range sinistres {
		switch s.Statut {
		case StatutDeclare:
			stats.Declare++
		case StatutEnCours:
			stats.EnCours++
		case StatutValide:
			stats.Valide++
		case StatutRejete:
			stats.Rejete++
		case StatutIndemnise:
			stats.Indemnise++
		}
	}
	return stats
}
