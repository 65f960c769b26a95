package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/models"
)

// EmployeeFilter narrows employee list queries.
type EmployeeFilter struct {
	Page       int
	PageSize   int
	Search     string
	Department string
}

// EmployeeRepository persists registry staff records.
type EmployeeRepository interface {
	Create(ctx context.Context, e *models.Employee) error
	CreateBatch(ctx context.Context, employees []*models.Employee) error
	GetByID(ctx context.Context, id uint) (models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error)
	ListAll(ctx context.Context) ([]models.Employee, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository constructs the employee repository.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *models.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepository) CreateBatch(ctx context.Context, employees []*models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(employees).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (models.Employee, error) {
	var e models.Employee
	err := r.db.WithContext(ctx).First(&e, id).Error
	return e, err
}

func (r *employeeRepository) Update(ctx context.Context, e *models.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Employee{}, id).Error
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ? OR lower(position) LIKE ?", pattern, pattern, pattern)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
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

	var employees []models.Employee
	if err := query.Order("name ASC").Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) ListAll(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).Order("id ASC").Find(&employees).Error
	return employees, err
}
