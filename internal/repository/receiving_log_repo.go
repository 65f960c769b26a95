package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/models"
)

// ReceivingLogFilter narrows receiving register queries.
type ReceivingLogFilter struct {
	Page       int
	PageSize   int
	Year       int
	CaseNumber string
}

// ReceivingLogRepository persists entries of the incoming-documents register.
type ReceivingLogRepository interface {
	GetByID(ctx context.Context, id uint) (models.ReceivingLog, error)
	Update(ctx context.Context, entry *models.ReceivingLog) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ReceivingLogFilter) ([]models.ReceivingLog, int64, error)
	CreateWithSequence(ctx context.Context, entry *models.ReceivingLog) error
}

type receivingLogRepository struct {
	db *gorm.DB
}

// NewReceivingLogRepository constructs the receiving log repository.
func NewReceivingLogRepository(db *gorm.DB) ReceivingLogRepository {
	return &receivingLogRepository{db: db}
}

func (r *receivingLogRepository) GetByID(ctx context.Context, id uint) (models.ReceivingLog, error) {
	var entry models.ReceivingLog
	err := r.db.WithContext(ctx).First(&entry, id).Error
	return entry, err
}

func (r *receivingLogRepository) Update(ctx context.Context, entry *models.ReceivingLog) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *receivingLogRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ReceivingLog{}, id).Error
}

func (r *receivingLogRepository) List(ctx context.Context, filter ReceivingLogFilter) ([]models.ReceivingLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReceivingLog{})

	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.CaseNumber != "" {
		query = query.Where("case_number = ?", filter.CaseNumber)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []models.ReceivingLog
	if err := query.Order("year DESC, sequence DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// CreateWithSequence assigns the next running number within the entry's
// register year and inserts the row. Allocation and insert share one
// transaction; the unique (year, sequence) index catches a concurrent
// allocation of the same number, in which case the insert is retried.
func (r *receivingLogRepository) CreateWithSequence(ctx context.Context, entry *models.ReceivingLog) error {
	const maxAttempts = 3

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var max int64
			if err := tx.Model(&models.ReceivingLog{}).
				Where("year = ?", entry.Year).
				Select("coalesce(max(sequence), 0)").
				Scan(&max).Error; err != nil {
				return err
			}
			entry.Sequence = uint(max) + 1
			return tx.Create(entry).Error
		})
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		entry.ID = 0
	}
	return err
}
