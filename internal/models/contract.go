package models

import (
	"encoding/json"
	"fmt"
)

// StatutContrat is the lifecycle status of a contract
type StatutContrat string

const (
	ContratActive   StatutContrat = "ACTIVE"
	ContratCanceled StatutContrat = "CANCELED"
	ContratExpired  StatutContrat = "EXPIRED"
)

// Valid reports whether s is a known contract status. Legacy spellings
// such as "ACTIF" are deliberately not recognized.
func (s StatutContrat) Valid() bool {
	switch s {
	case ContratActive, ContratCanceled, ContratExpired:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown status strings, including legacy aliases
func (s *StatutContrat) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := StatutContrat(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown contract status: %q", raw)
	}
	*s = v
	return nil
}

// TypeContrat is the kind of insurance contract
type TypeContrat string

const (
	TypeAuto       TypeContrat = "AUTO"
	TypeHabitation TypeContrat = "HABITATION"
	TypeSante      TypeContrat = "SANTE"
	TypeVie        TypeContrat = "VIE"
)

// Valid reports whether t is a known contract type
func (t TypeContrat) Valid() bool {
	switch t {
	case TypeAuto, TypeHabitation, TypeSante, TypeVie:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown contract types
func (t *TypeContrat) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := TypeContrat(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown contract type: %q", raw)
	}
	*t = v
	return nil
}

// Contract is an insurance policy owned by a client
type Contract struct {
	ID                int64         `json:"id,omitempty"`
	ClientID          int64         `json:"clientId"`
	Numero            string        `json:"numero,omitempty"`
	Type              TypeContrat   `json:"type"`
	PrimeAnnuelle     float64       `json:"primeAnnuelle"`
	MontantCouverture *float64      `json:"montantCouverture,omitempty"`
	DateDebut         string        `json:"dateDebut,omitempty"`
	DateFin           string        `json:"dateFin,omitempty"`
	Statut            StatutContrat `json:"statut"`

	// Enriched by the backend, never mutated here
	ClientNom   string `json:"clientNom,omitempty"`
	ClientEmail string `json:"clientEmail,omitempty"`
}

// IsActive reports whether the contract can originate new claims
func (c Contract) IsActive() bool {
	return c.Statut == ContratActive
}

// CreateContractRequest is the contract creation payload. The remote
// gateway is authoritative for everything beyond the client id.
type CreateContractRequest struct {
	ClientID      int64       `json:"clientId"`
	Type          TypeContrat `json:"type"`
	PrimeAnnuelle float64     `json:"primeAnnuelle"`
	DateDebut     string      `json:"dateDebut"`
	DateFin       string      `json:"dateFin"`
}

// ContractStats are per-status aggregate counts over a working list
type ContractStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Canceled int `json:"canceled"`
	Expired  int `json:"expired"`
}

// ComputeContractStats recomputes aggregate counts from the full list
func ComputeContractStats(contracts []Contract) ContractStats {
	stats := ContractStats{Total: len(contracts)}
	for _, c := range contracts {
		switch c.Statut {
		case ContratActive:
			stats.Active++
		case ContratCanceled:
			stats.Canceled++
		case ContratExpired:
			stats.Expired++
		}
	}
	return stats
}
