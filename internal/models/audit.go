package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions recorded by the connector
const (
	AuditContractCreate = "contract.create"
	AuditContractCancel = "contract.cancel"
	AuditSinistreCreate = "sinistre.create"
	AuditSinistreStatut = "sinistre.statut"
	AuditSinistreDelete = "sinistre.delete"
)

// AuditLog records a mutating operation performed through the connector
type AuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	Role         string    `gorm:"type:varchar(20);index" json:"role"`
	Action       string    `gorm:"type:varchar(100);not null;index" json:"action"`
	ResourceID   int64     `gorm:"index" json:"resource_id"`
	Detail       string    `gorm:"type:text" json:"detail,omitempty"`
	Status       string    `gorm:"type:varchar(20);index" json:"status"` // success, failure
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate hook
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
