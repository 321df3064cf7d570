package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/database"
	"github.com/pfa-assurance/assurance-connector/internal/models"
)

// AuditRepository persists the trail of mutating operations
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Record writes one audit entry. When the audit database is disabled the
// entry is dropped; auditing never blocks the operation it describes.
func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditLog) {
	if database.DB == nil {
		return
	}
	if err := database.DB.WithContext(ctx).Create(entry).Error; err != nil {
		log.Error().Err(err).Str("action", entry.Action).Msg("Failed to record audit entry")
	}
}

// GetByUserID retrieves audit entries for one actor, newest first
func (r *AuditRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	query := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}
	return entries, nil
}

// GetByAction retrieves audit entries for one action, newest first
func (r *AuditRepository) GetByAction(ctx context.Context, action string, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	query := database.DB.WithContext(ctx).
		Where("action = ?", action).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}
	return entries, nil
}
