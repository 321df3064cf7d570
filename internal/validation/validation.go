// Package validation holds the local entity validators applied before any
// request is dispatched to the remote gateway.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfa-assurance/assurance-connector/internal/models"
)

// MaxMontantDemande is the cap on a claim's requested amount
const MaxMontantDemande = 1_000_000

// MinDescriptionLen is the minimum trimmed description length
const MinDescriptionLen = 10

// RuleError is a local validation failure. It never reaches the network
// and maps to a 400 at the HTTP surface.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func ruleErrorf(format string, args ...any) *RuleError {
	return &RuleError{Message: fmt.Sprintf(format, args...)}
}

// ContratID checks that a contract reference is a positive id
func ContratID(id int64) error {
	if id <= 0 {
		return ruleErrorf("un identifiant de contrat valide est requis")
	}
	return nil
}

// ClientID checks that a client reference is a positive id
func ClientID(id int64) error {
	if id <= 0 {
		return ruleErrorf("un identifiant de client valide est requis")
	}
	return nil
}

// Description checks the minimum trimmed length
func Description(d string) error {
	if utf8.RuneCountInString(strings.TrimSpace(d)) < MinDescriptionLen {
		return ruleErrorf("la description doit contenir au moins %d caractères", MinDescriptionLen)
	}
	return nil
}

// MontantDemande checks that the requested amount is positive and capped
func MontantDemande(m float64) error {
	if m <= 0 {
		return ruleErrorf("le montant demandé doit être supérieur à 0")
	}
	if m > MaxMontantDemande {
		return ruleErrorf("le montant demandé ne peut pas dépasser %d", MaxMontantDemande)
	}
	return nil
}

// DateSinistre checks that the claim date is present and not in the
// future. Comparison is at day granularity; time-of-day is ignored.
func DateSinistre(d string, now time.Time) error {
	if strings.TrimSpace(d) == "" {
		return ruleErrorf("la date du sinistre est requise")
	}
	day, err := parseDay(d)
	if err != nil {
		return ruleErrorf("date du sinistre invalide: %q", d)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(today) {
		return ruleErrorf("la date du sinistre ne peut pas être dans le futur")
	}
	return nil
}

// CreateSinistre validates a claim creation request. The first failing
// rule is returned and nothing is sent upstream.
func CreateSinistre(req models.CreateSinistreRequest, now time.Time) error {
	if err := ContratID(req.ContratID); err != nil {
		return err
	}
	if err := Description(req.Description); err != nil {
		return err
	}
	if err := MontantDemande(req.MontantDemande); err != nil {
		return err
	}
	return DateSinistre(req.DateSinistre, now)
}

// CreateContract validates a contract creation request. Only the client
// id is guarded here; the gateway is authoritative for the rest.
func CreateContract(req models.CreateContractRequest) error {
	return ClientID(req.ClientID)
}

// parseDay accepts a calendar date or a full timestamp, truncated to UTC day
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
