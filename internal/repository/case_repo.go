package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/models"
)

// CaseFilter narrows case list queries.
type CaseFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	CaseType string
}

// CaseRepository persists court cases.
type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) error
	CreateBatch(ctx context.Context, cases []*models.Case) error
	GetByID(ctx context.Context, id uint) (models.Case, error)
	Update(ctx context.Context, c *models.Case) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter CaseFilter) ([]models.Case, int64, error)
	ListAll(ctx context.Context) ([]models.Case, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type caseRepository struct {
	db *gorm.DB
}

// NewCaseRepository constructs the case repository.
func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Create(ctx context.Context, c *models.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caseRepository) CreateBatch(ctx context.Context, cases []*models.Case) error {
	if len(cases) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(cases).Error
}

func (r *caseRepository) GetByID(ctx context.Context, id uint) (models.Case, error) {
	var c models.Case
	err := r.db.WithContext(ctx).First(&c, id).Error
	return c, err
}

func (r *caseRepository) Update(ctx context.Context, c *models.Case) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *caseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Case{}, id).Error
}

func (r *caseRepository) List(ctx context.Context, filter CaseFilter) ([]models.Case, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Case{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(number) LIKE ? OR lower(title) LIKE ? OR lower(petitioner) LIKE ? OR lower(respondent) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CaseType != "" {
		query = query.Where("case_type = ?", filter.CaseType)
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

	var cases []models.Case
	if err := query.Order("filed_at DESC").Find(&cases).Error; err != nil {
		return nil, 0, err
	}

	return cases, total, nil
}

func (r *caseRepository) ListAll(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	err := r.db.WithContext(ctx).Order("id ASC").Find(&cases).Error
	return cases, err
}

func (r *caseRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.Case{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
