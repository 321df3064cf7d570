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

// ContractListing is a filtered view over the working list plus the
// aggregate counts computed from the unfiltered list.
type ContractListing struct {
	Items []models.Contract    `json:"items"`
	Stats models.ContractStats `json:"stats"`
}

// ContractService orchestrates the contract lifecycle: scope-aware
// loading, creation and one-way cancellation.
type ContractService struct {
	gw       gateway.Client
	cache    cache.Cache
	cacheTTL time.Duration
	audit    *repository.AuditRepository
}

// NewContractService creates a contract lifecycle service
func NewContractService(gw gateway.Client, c cache.Cache, ttl time.Duration, audit *repository.AuditRepository) *ContractService {
	return &ContractService{
		gw:       gw,
		cache:    c,
		cacheTTL: ttl,
		audit:    audit,
	}
}

// List loads the scope-appropriate contract listing with filters and stats
func (s *ContractService) List(ctx context.Context, sess session.Session, search, statusFilter string) (*ContractListing, error) {
	var statut models.StatutContrat
	if statusFilter != "" && statusFilter != "ALL" {
		statut = models.StatutContrat(statusFilter)
		if !statut.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatusFilter, statusFilter)
		}
	}

	working, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &ContractListing{
		Items: filterContracts(working, search, statut),
		Stats: models.ComputeContractStats(working),
	}, nil
}

// ListActive returns the contracts the caller may declare claims against.
// Clients get their own listing narrowed to ACTIVE (no owner-scoped
// active endpoint exists upstream); staff get the active listing.
func (s *ContractService) ListActive(ctx context.Context, sess session.Session) ([]models.Contract, error) {
	if sess.Scope().Visibility == session.VisibilityOwn {
		own, err := s.gw.ListContractsByClient(ctx, sess, sess.UserID)
		if err != nil {
			return nil, err
		}
		active := make([]models.Contract, 0, len(own))
		for _, c := range own {
			if c.IsActive() {
				active = append(active, c)
			}
		}
		return active, nil
	}
	return s.gw.ListActiveContracts(ctx, sess)
}

// Create validates and submits a new contract. The remote gateway is
// authoritative beyond the client-id guard; status defaults to ACTIVE
// server-side.
func (s *ContractService) Create(ctx context.Context, sess session.Session, req models.CreateContractRequest) (*models.Contract, error) {
	if err := validation.CreateContract(req); err != nil {
		return nil, err
	}

	created, err := s.gw.CreateContract(ctx, sess, req)
	s.recordAudit(ctx, sess, models.AuditContractCreate, req.ClientID, err)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Int64("contract_id", created.ID).Int64("client_id", req.ClientID).Msg("Contract created")
	return created, nil
}

// Cancel performs the one-way ACTIVE -> CANCELED transition. Staff only,
// confirmation required, and a contract that is already CANCELED or
// EXPIRED is rejected locally so the caller learns the real state.
func (s *ContractService) Cancel(ctx context.Context, sess session.Session, id int64, confirmed bool) error {
	if !sess.CanCancelContracts() {
		return ErrForbidden
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	contract, err := s.findContract(ctx, sess, id)
	if err != nil {
		return err
	}
	if !contract.IsActive() {
		return fmt.Errorf("%w pour être annulé (statut actuel: %s)", ErrContractNotActive, contract.Statut)
	}

	err = s.gw.CancelContract(ctx, sess, id)
	s.recordAudit(ctx, sess, models.AuditContractCancel, id, err)
	if err != nil {
		return err
	}

	s.markCanceled(ctx, sess, id)
	log.Info().Int64("contract_id", id).Msg("Contract canceled")
	return nil
}

// load fetches the working list for the session's scope through the cache
func (s *ContractService) load(ctx context.Context, sess session.Session) ([]models.Contract, error) {
	scope := sess.Scope()
	key := cache.ListingKey("contracts", scope)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached []models.Contract
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			return cached, nil
		}
		_ = s.cache.Delete(ctx, key)
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	var (
		list []models.Contract
		err  error
	)
	if scope.Visibility == session.VisibilityOwn {
		list, err = s.gw.ListContractsByClient(ctx, sess, scope.OwnerID)
	} else {
		list, err = s.gw.ListContracts(ctx, sess)
	}
	if err != nil {
		return nil, err
	}

	s.storeList(ctx, key, list)
	return list, nil
}

// findContract locates one contract in the caller's scope
func (s *ContractService) findContract(ctx context.Context, sess session.Session, id int64) (*models.Contract, error) {
	working, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range working {
		if working[i].ID == id {
			return &working[i], nil
		}
	}
	return nil, fmt.Errorf("%w: contrat %d", ErrNotFound, id)
}

// markCanceled flips the cached contract to CANCELED in place
func (s *ContractService) markCanceled(ctx context.Context, sess session.Session, id int64) {
	key := cache.ListingKey("contracts", sess.Scope())
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return
	}
	var list []models.Contract
	if err := json.Unmarshal(raw, &list); err != nil {
		_ = s.cache.Delete(ctx, key)
		return
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Statut = models.ContratCanceled
			s.storeList(ctx, key, list)
			return
		}
	}
}

func (s *ContractService) storeList(ctx context.Context, key string, list []models.Contract) {
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Failed to cache contract listing")
	}
}

// invalidate drops every cached contract listing after a mutation
func (s *ContractService) invalidate(ctx context.Context) {
	if err := s.cache.Clear(ctx, "contracts:*"); err != nil {
		log.Debug().Err(err).Msg("Failed to invalidate contract listings")
	}
}

func (s *ContractService) recordAudit(ctx context.Context, sess session.Session, action string, resourceID int64, opErr error) {
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

// filterContracts applies the text and status filters, ANDed
func filterContracts(list []models.Contract, search string, statut models.StatutContrat) []models.Contract {
	term := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.Contract, 0, len(list))
	for _, item := range list {
		if statut != "" && item.Statut != statut {
			continue
		}
		if term != "" && !contractMatches(item, term) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func contractMatches(c models.Contract, term string) bool {
	return strings.Contains(strings.ToLower(string(c.Type)), term) ||
		strings.Contains(strings.ToLower(c.Numero), term) ||
		strings.Contains(strings.ToLower(c.ClientNom), term) ||
		strings.Contains(strings.ToLower(c.ClientEmail), term)
}
