package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/models"
)

// AuditLogRepository persists audit trail rows. The table is append-only:
// there is no update or delete and no fetch-by-id.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context) ([]models.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository constructs the audit log repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns every row joined with the acting user's identity summary.
// Soft-deleted users still resolve: log rows outlive the accounts that wrote
// them.
func (r *auditLogRepository) List(ctx context.Context) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
