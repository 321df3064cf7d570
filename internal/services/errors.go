package services

import "errors"

// Local failures detected before any upstream call is made
var (
	// ErrForbidden marks an action the session's role does not permit
	ErrForbidden = errors.New("action non autorisée pour ce rôle")

	// ErrConfirmationRequired marks a destructive action submitted
	// without the explicit confirmation flag
	ErrConfirmationRequired = errors.New("confirmation explicite requise")

	// ErrNotFound marks a resource absent from the caller's scope
	ErrNotFound = errors.New("ressource introuvable")

	// ErrContractNotActive marks a claim creation or cancel attempt
	// against a contract that is not ACTIVE
	ErrContractNotActive = errors.New("le contrat doit être actif")

	// ErrInvalidTransition marks a status change the rule table forbids
	ErrInvalidTransition = errors.New("transition de statut non autorisée")

	// ErrInvalidStatusFilter marks an unrecognized status filter value
	ErrInvalidStatusFilter = errors.New("filtre de statut inconnu")
)
