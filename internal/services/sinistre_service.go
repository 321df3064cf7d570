package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/cache"
	"github.com/pfa-assurance/assurance-connector/internal/gateway"
	"github.com/pfa-assurance/assurance-connector/internal/metrics"
	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/repository"
	"github.com/pfa-assurance/assurance-connector/internal/session"
	"github.com/pfa-assurance/assurance-connector/internal/validation"
)

// SinistreListing is a filtered view over the working list plus the
// aggregate counts computed from the unfiltered list.
type SinistreListing struct {
	Items []models.Sinistre    `json:"items"`
	Stats models.SinistreStats `json:"stats"`
}

// SinistreService orchestrates the claim lifecycle: scope-aware loading,
// filtering, status transitions, deletion.
type SinistreService struct {
	gw       gateway.Client
	cache    cache.Cache
	cacheTTL time.Duration
	audit    *repository.AuditRepository
	now      func() time.Time
}

// NewSinistreService creates a claim lifecycle service
func NewSinistreService(gw gateway.Client, c cache.Cache, ttl time.Duration, audit *repository.AuditRepository) *SinistreService {
	return &SinistreService{
		gw:       gw,
		cache:    c,
		cacheTTL: ttl,
		audit:    audit,
		now:      time.Now,
	}
}

// List loads the scope-appropriate claim listing, applies the search and
// status filters, and returns aggregate counts over the unfiltered list.
// Upstream failures surface as-is; nothing is partially merged.
func (s *SinistreService) List(ctx context.Context, sess session.Session, search, statusFilter string) (*SinistreListing, error) {
	var statut models.StatutSinistre
	if statusFilter != "" && statusFilter != "ALL" {
		statut = models.StatutSinistre(statusFilter)
		if !statut.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatusFilter, statusFilter)
		}
	}

	working, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &SinistreListing{
		Items: filterSinistres(working, search, statut),
		Stats: models.ComputeSinistreStats(working),
	}, nil
}

// Create validates the claim locally, enforces the ACTIVE-contract
// precondition, then declares it upstream. A contract outside the
// caller's active listing is a hard failure before any network call to
// the claims service.
func (s *SinistreService) Create(ctx context.Context, sess session.Session, req models.CreateSinistreRequest) (*models.Sinistre, error) {
	if err := validation.CreateSinistre(req, s.now()); err != nil {
		return nil, err
	}

	contract, err := s.findContract(ctx, sess, req.ContratID)
	if err != nil {
		return nil, err
	}
	if !contract.IsActive() {
		return nil, fmt.Errorf("%w pour déclarer un sinistre (statut actuel: %s)", ErrContractNotActive, contract.Statut)
	}

	created, err := s.gw.CreateSinistre(ctx, sess, req)
	s.recordAudit(ctx, sess, models.AuditSinistreCreate, req.ContratID, err)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Int64("sinistre_id", created.ID).Int64("contrat_id", req.ContratID).Msg("Claim declared")
	return created, nil
}

// UpdateStatut applies one status transition. Illegal transitions are
// rejected locally against the rule table, re-evaluated on every attempt.
// The payload carries the approved amount only when the target status is
// VALIDE or INDEMNISE and a positive amount was supplied. On success the
// claim is replaced in place in the cached working list.
func (s *SinistreService) UpdateStatut(ctx context.Context, sess session.Session, id int64, newStatut models.StatutSinistre, montantApprouve *float64) (*models.Sinistre, error) {
	if !sess.CanManageSinistres() {
		return nil, ErrForbidden
	}
	if !newStatut.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatusFilter, newStatut)
	}

	current, err := s.findSinistre(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !current.Statut.CanTransitionTo(newStatut) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Statut, newStatut)
	}

	req := models.UpdateStatutRequest{Statut: newStatut}
	if montantApprouve != nil && *montantApprouve > 0 &&
		(newStatut == models.StatutValide || newStatut == models.StatutIndemnise) {
		req.MontantApprouve = montantApprouve
	}

	updated, err := s.gw.UpdateSinistreStatut(ctx, sess, id, req)
	s.recordAudit(ctx, sess, models.AuditSinistreStatut, id, err)
	if err != nil {
		// Claim unchanged, caller may retry
		return nil, err
	}

	s.replaceInCache(ctx, sess, *updated)
	log.Info().
		Int64("sinistre_id", id).
		Str("from", string(current.Statut)).
		Str("to", string(newStatut)).
		Msg("Claim status updated")
	return updated, nil
}

// Delete removes a claim permanently. The confirmation flag is the
// explicit-confirmation collaborator; without it nothing is dispatched.
func (s *SinistreService) Delete(ctx context.Context, sess session.Session, id int64, confirmed bool) error {
	if !sess.CanManageSinistres() {
		return ErrForbidden
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if _, err := s.findSinistre(ctx, sess, id); err != nil {
		return err
	}

	err := s.gw.DeleteSinistre(ctx, sess, id)
	s.recordAudit(ctx, sess, models.AuditSinistreDelete, id, err)
	if err != nil {
		return err
	}

	s.removeFromCache(ctx, sess, id)
	log.Info().Int64("sinistre_id", id).Msg("Claim deleted")
	return nil
}

// ListByContrat returns the claims declared against one contract
func (s *SinistreService) ListByContrat(ctx context.Context, sess session.Session, contratID int64) ([]models.Sinistre, error) {
	return s.gw.ListSinistresByContrat(ctx, sess, contratID)
}

// load fetches the working list for the session's scope, going through
// the short-TTL listing cache
func (s *SinistreService) load(ctx context.Context, sess session.Session) ([]models.Sinistre, error) {
	scope := sess.Scope()
	key := cache.ListingKey("sinistres", scope)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached []models.Sinistre
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			return cached, nil
		}
		// Unreadable entry, fall through to a fresh fetch
		_ = s.cache.Delete(ctx, key)
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	var (
		list []models.Sinistre
		err  error
	)
	if scope.Visibility == session.VisibilityOwn {
		list, err = s.gw.ListSinistresByClient(ctx, sess, scope.OwnerID)
	} else {
		list, err = s.gw.ListSinistres(ctx, sess)
	}
	if err != nil {
		return nil, err
	}

	s.storeList(ctx, key, list)
	return list, nil
}

// findSinistre locates one claim in the caller's scope
func (s *SinistreService) findSinistre(ctx context.Context, sess session.Session, id int64) (*models.Sinistre, error) {
	working, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range working {
		if working[i].ID == id {
			return &working[i], nil
		}
	}
	return nil, fmt.Errorf("%w: sinistre %d", ErrNotFound, id)
}

// findContract locates a contract in the caller's candidate listing: a
// client's own contracts, or the active listing for staff
func (s *SinistreService) findContract(ctx context.Context, sess session.Session, contratID int64) (*models.Contract, error) {
	var (
		contracts []models.Contract
		err       error
	)
	if sess.Scope().Visibility == session.VisibilityOwn {
		contracts, err = s.gw.ListContractsByClient(ctx, sess, sess.UserID)
	} else {
		contracts, err = s.gw.ListActiveContracts(ctx, sess)
	}
	if err != nil {
		return nil, err
	}
	for i := range contracts {
		if contracts[i].ID == contratID {
			return &contracts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: contrat %d", ErrNotFound, contratID)
}

// replaceInCache swaps the updated claim into any cached listing that
// contains it. Whichever response arrives last wins; concurrent updates
// are not sequenced.
func (s *SinistreService) replaceInCache(ctx context.Context, sess session.Session, updated models.Sinistre) {
	key := cache.ListingKey("sinistres", sess.Scope())
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return
	}
	var list []models.Sinistre
	if err := json.Unmarshal(raw, &list); err != nil {
		_ = s.cache.Delete(ctx, key)
		return
	}
	for i := range list {
		if list[i].ID == updated.ID {
			list[i] = updated
			s.storeList(ctx, key, list)
			return
		}
	}
}

// removeFromCache drops a deleted claim from the cached listing
func (s *SinistreService) removeFromCache(ctx context.Context, sess session.Session, id int64) {
	key := cache.ListingKey("sinistres", sess.Scope())
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return
	}
	var list []models.Sinistre
	if err := json.Unmarshal(raw, &list); err != nil {
		_ = s.cache.Delete(ctx, key)
		return
	}
	kept := list[:0]
	for _, item := range list {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.storeList(ctx, key, kept)
}

func (s *SinistreService) storeList(ctx context.Context, key string, list []models.Sinistre) {
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Failed to cache claim listing")
	}
}

// invalidate drops every cached claim listing after a creation
func (s *SinistreService) invalidate(ctx context.Context) {
	if err := s.cache.Clear(ctx, "sinistres:*"); err != nil {
		log.Debug().Err(err).Msg("Failed to invalidate claim listings")
	}
}

func (s *SinistreService) recordAudit(ctx context.Context, sess session.Session, action string, resourceID int64, opErr error) {
	entry := &models.AuditLog{
		UserID:     sess.UserID,
		Role:       string(sess.Role),
		Action:     action,
		ResourceID: resourceID,
		Status:     "success",
	}
	if opErr != nil {
		entry.Status = "failure"
		entry.ErrorMessage = opErr.Error()
	}
	s.audit.Record(ctx, entry)
}

// filterSinistres applies the text and status filters, ANDed. Text match
// is a case-insensitive substring over claim number, description, client
// name and client email.
func filterSinistres(list []models.Sinistre, search string, statut models.StatutSinistre) []models.Sinistre {
	term := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.Sinistre, 0, len(list))
	for _, item := range list {
		if statut != "" && item.Statut != statut {
			continue
		}
		if term != "" && !sinistreMatches(item, term) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func sinistreMatches(s models.Sinistre, term string) bool {
	return strings.Contains(strings.ToLower(s.NumeroSinistre), term) ||
		strings.Contains(strings.ToLower(s.Description), term) ||
		strings.Contains(strings.ToLower(s.ClientNom), term) ||
		strings.Contains(strings.ToLower(s.ClientEmail), term)
}
