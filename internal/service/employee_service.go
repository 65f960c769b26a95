package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/audit"
	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/repository"
)

// EmployeeService manages registry staff records and their bulk
// import/export.
type EmployeeService interface {
	Create(ctx context.Context, actor *Actor, req dto.CreateEmployeeRequest, client ClientInfo) (dto.EmployeeResponse, error)
	Update(ctx context.Context, actor *Actor, id uint, req dto.UpdateEmployeeRequest, client ClientInfo) (dto.EmployeeResponse, error)
	Delete(ctx context.Context, actor *Actor, id uint, client ClientInfo) error
	Get(ctx context.Context, id uint) (dto.EmployeeResponse, error)
	List(ctx context.Context, req dto.EmployeeListRequest) (dto.EmployeeListResponse, error)
	Import(ctx context.Context, actor *Actor, payload []byte, client ClientInfo) (dto.ImportResult, error)
	Export(ctx context.Context, actor *Actor, client ClientInfo) ([]byte, error)
}

type employeeService struct {
	repo      repository.EmployeeRepository
	recorder  AuditRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewEmployeeService constructs the employee service.
func NewEmployeeService(repo repository.EmployeeRepository, recorder AuditRecorder, validate *validator.Validate, logger zerolog.Logger) EmployeeService {
	return &employeeService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "employee_service").Logger(),
	}
}

func (s *employeeService) Create(ctx context.Context, actor *Actor, req dto.CreateEmployeeRequest, client ClientInfo) (dto.EmployeeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.EmployeeResponse{}, err
	}

	e := models.Employee{
		Name:       s.sanitizer.Sanitize(strings.TrimSpace(req.Name)),
		Position:   strings.TrimSpace(req.Position),
		Department: strings.TrimSpace(req.Department),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
		HiredAt:    req.HiredAt,
		Notes:      s.sanitizer.Sanitize(req.Notes),
	}

	if err := s.repo.Create(ctx, &e); err != nil {
		s.logger.Error().Err(err).Msg("failed to create employee")
		return dto.EmployeeResponse{}, err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionCreateEmployee,
		Details:   &audit.EntityDetails{ID: e.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return dto.EmployeeResponse{}, err
	}

	return dto.NewEmployeeResponse(e), nil
}

func (s *employeeService) Update(ctx context.Context, actor *Actor, id uint, req dto.UpdateEmployeeRequest, client ClientInfo) (dto.EmployeeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.EmployeeResponse{}, err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	before := audit.EmployeeSnapshot(e)

	if req.Name != nil {
		e.Name = s.sanitizer.Sanitize(strings.TrimSpace(*req.Name))
	}
	if req.Position != nil {
		e.Position = strings.TrimSpace(*req.Position)
	}
	if req.Department != nil {
		e.Department = strings.TrimSpace(*req.Department)
	}
	if req.Email != nil {
		e.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		e.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.HiredAt != nil {
		e.HiredAt = req.HiredAt
	}
	if req.Notes != nil {
		e.Notes = s.sanitizer.Sanitize(*req.Notes)
	}

	if err := s.repo.Update(ctx, &e); err != nil {
		s.logger.Error().Err(err).Msg("failed to update employee")
		return dto.EmployeeResponse{}, err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionUpdateEmployee,
		Details:   &audit.SnapshotDetails{From: before, To: audit.EmployeeSnapshot(e)},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return dto.EmployeeResponse{}, err
	}

	return dto.NewEmployeeResponse(e), nil
}

func (s *employeeService) Delete(ctx context.Context, actor *Actor, id uint, client ClientInfo) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete employee")
		return err
	}

	return s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionDeleteEmployee,
		Details:   &audit.EntityDetails{ID: id},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
}

func (s *employeeService) Get(ctx context.Context, id uint) (dto.EmployeeResponse, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrNotFound
		}
		return dto.EmployeeResponse{}, err
	}
	return dto.NewEmployeeResponse(e), nil
}

func (s *employeeService) List(ctx context.Context, req dto.EmployeeListRequest) (dto.EmployeeListResponse, error) {
	employees, total, err := s.repo.List(ctx, repository.EmployeeFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Search:     req.Search,
		Department: req.Department,
	})
	if err != nil {
		return dto.EmployeeListResponse{}, err
	}

	items := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, dto.NewEmployeeResponse(e))
	}

	return dto.EmployeeListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

// Import parses a CSV payload (name, position, department, email, phone,
// notes) and creates the rows in one batch.
func (s *employeeService) Import(ctx context.Context, actor *Actor, payload []byte, client ClientInfo) (dto.ImportResult, error) {
	if err := checkCSVPayload(payload); err != nil {
		return dto.ImportResult{}, err
	}

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1

	var employees []*models.Employee
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dto.ImportResult{}, fmt.Errorf("row %d: %w", line+1, err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue // header row
		}
		if strings.TrimSpace(row[0]) == "" {
			return dto.ImportResult{}, fmt.Errorf("row %d: name is required", line)
		}

		e := &models.Employee{
			Name: s.sanitizer.Sanitize(strings.TrimSpace(row[0])),
		}
		if len(row) > 1 {
			e.Position = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			e.Department = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			e.Email = strings.ToLower(strings.TrimSpace(row[3]))
		}
		if len(row) > 4 {
			e.Phone = strings.TrimSpace(row[4])
		}
		if len(row) > 5 {
			e.Notes = s.sanitizer.Sanitize(row[5])
		}
		employees = append(employees, e)
	}

	if len(employees) == 0 {
		return dto.ImportResult{}, fmt.Errorf("no importable rows found")
	}

	if err := s.repo.CreateBatch(ctx, employees); err != nil {
		s.logger.Error().Err(err).Msg("failed to import employees")
		return dto.ImportResult{}, err
	}

	ids := make([]uint, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionImportEmployees,
		Details:   &audit.ImportDetails{ImportedIDs: ids},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return dto.ImportResult{}, err
	}

	return dto.ImportResult{Imported: len(ids), IDs: ids}, nil
}

// Export renders every employee as CSV.
func (s *employeeService) Export(ctx context.Context, actor *Actor, client ClientInfo) ([]byte, error) {
	employees, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load employees for export")
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"name", "position", "department", "email", "phone", "notes"})
	for _, e := range employees {
		if err := writer.Write([]string{e.Name, e.Position, e.Department, e.Email, e.Phone, e.Notes}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionExportEmployees,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
