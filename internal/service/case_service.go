package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/audit"
	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/repository"
)

var csvMimeTypes = map[string]struct{}{
	"text/csv":        {},
	"text/plain":      {},
	"application/csv": {},
}

// CaseService manages court cases and their bulk import/export.
type CaseService interface {
	Create(ctx context.Context, actor *Actor, req dto.CreateCaseRequest, client ClientInfo) (dto.CaseResponse, error)
	Update(ctx context.Context, actor *Actor, id uint, req dto.UpdateCaseRequest, client ClientInfo) (dto.CaseResponse, error)
	Delete(ctx context.Context, actor *Actor, id uint, client ClientInfo) error
	Get(ctx context.Context, id uint) (dto.CaseResponse, error)
	List(ctx context.Context, req dto.CaseListRequest) (dto.CaseListResponse, error)
	Import(ctx context.Context, actor *Actor, payload []byte, client ClientInfo) (dto.ImportResult, error)
	Export(ctx context.Context, actor *Actor, client ClientInfo) ([]byte, error)
}

type caseService struct {
	repo      repository.CaseRepository
	recorder  AuditRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCaseService constructs the case service.
func NewCaseService(repo repository.CaseRepository, recorder AuditRecorder, validate *validator.Validate, logger zerolog.Logger) CaseService {
	return &caseService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "case_service").Logger(),
	}
}

func (s *caseService) Create(ctx context.Context, actor *Actor, req dto.CreateCaseRequest, client ClientInfo) (dto.CaseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CaseResponse{}, err
	}

	c := models.Case{
		Number:      strings.TrimSpace(req.Number),
		Title:       s.sanitizer.Sanitize(strings.TrimSpace(req.Title)),
		Petitioner:  s.sanitizer.Sanitize(strings.TrimSpace(req.Petitioner)),
		Respondent:  s.sanitizer.Sanitize(strings.TrimSpace(req.Respondent)),
		CaseType:    strings.TrimSpace(req.CaseType),
		Status:      models.CaseStatusOpen,
		FiledAt:     req.FiledAt,
		Description: s.sanitizer.Sanitize(req.Description),
	}
	if c.FiledAt.IsZero() {
		c.FiledAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, &c); err != nil {
		s.logger.Error().Err(err).Msg("failed to create case")
		return dto.CaseResponse{}, err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionCreateCase,
		Details:   &audit.EntityDetails{ID: c.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return dto.CaseResponse{}, err
	}

	return dto.NewCaseResponse(c), nil
}

// Update applies a partial update and audits it with full before/after
// snapshots, so the activity view can render a field-level diff.
func (s *caseService) Update(ctx context.Context, actor *Actor, id uint, req dto.UpdateCaseRequest, client ClientInfo) (dto.CaseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CaseResponse{}, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CaseResponse{}, ErrNotFound
		}
		return dto.CaseResponse{}, err
	}

	before := audit.CaseSnapshot(c)

	if req.Number != nil {
		c.Number = strings.TrimSpace(*req.Number)
	}
	if req.Title != nil {
		c.Title = s.sanitizer.Sanitize(strings.TrimSpace(*req.Title))
	}
	if req.Petitioner != nil {
		c.Petitioner = s.sanitizer.Sanitize(strings.TrimSpace(*req.Petitioner))
	}
	if req.Respondent != nil {
		c.Respondent = s.sanitizer.Sanitize(strings.TrimSpace(*req.Respondent))
	}
	if req.CaseType != nil {
		c.CaseType = strings.TrimSpace(*req.CaseType)
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	if req.Description != nil {
		c.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if err := s.repo.Update(ctx, &c); err != nil {
		s.logger.Error().Err(err).Msg("failed to update case")
		return dto.CaseResponse{}, err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionUpdateCase,
		Details:   &audit.SnapshotDetails{From: before, To: audit.CaseSnapshot(c)},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return dto.CaseResponse{}, err
	}

	return dto.NewCaseResponse(c), nil
}

func (s *caseService) Delete(ctx context.Context, actor *Actor, id uint, client ClientInfo) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete case")
		return err
	}

	return s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionDeleteCase,
		Details:   &audit.EntityDetails{ID: id},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
}

func (s *caseService) Get(ctx context.Context, id uint) (dto.CaseResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CaseResponse{}, ErrNotFound
		}
		return dto.CaseResponse{}, err
	}
	return dto.NewCaseResponse(c), nil
}

func (s *caseService) List(ctx context.Context, req dto.CaseListRequest) (dto.CaseListResponse, error) {
	cases, total, err := s.repo.List(ctx, repository.CaseFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Status:   req.Status,
		CaseType: req.CaseType,
	})
	if err != nil {
		return dto.CaseListResponse{}, err
	}

	items := make([]dto.CaseResponse, 0, len(cases))
	for _, c := range cases {
		items = append(items, dto.NewCaseResponse(c))
	}

	return dto.CaseListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

// Import parses a CSV payload (number, title, petitioner, respondent,
// case_type, status, description) and creates the rows in one batch. The
// audit entry lists the created ids.
func (s *caseService) Import(ctx context.Context, actor *Actor, payload []byte, client ClientInfo) (dto.ImportResult, error) {
	if err := checkCSVPayload(payload); err != nil {
		return dto.ImportResult{}, err
	}

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1

	var cases []*models.Case
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
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "number") {
			continue // header row
		}
		if len(row) < 2 {
			return dto.ImportResult{}, fmt.Errorf("row %d: expected at least number and title", line)
		}

		c := &models.Case{
			Number:  strings.TrimSpace(row[0]),
			Title:   s.sanitizer.Sanitize(strings.TrimSpace(row[1])),
			Status:  models.CaseStatusOpen,
			FiledAt: time.Now().UTC(),
		}
		if len(row) > 2 {
			c.Petitioner = s.sanitizer.Sanitize(strings.TrimSpace(row[2]))
		}
		if len(row) > 3 {
			c.Respondent = s.sanitizer.Sanitize(strings.TrimSpace(row[3]))
		}
		if len(row) > 4 {
			c.CaseType = strings.TrimSpace(row[4])
		}
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			status := strings.ToLower(strings.TrimSpace(row[5]))
			if !models.IsValidCaseStatus(status) {
				return dto.ImportResult{}, fmt.Errorf("row %d: unknown status %q", line, row[5])
			}
			c.Status = status
		}
		if len(row) > 6 {
			c.Description = s.sanitizer.Sanitize(row[6])
		}
		cases = append(cases, c)
	}

	if len(cases) == 0 {
		return dto.ImportResult{}, fmt.Errorf("no importable rows found")
	}

	if err := s.repo.CreateBatch(ctx, cases); err != nil {
		s.logger.Error().Err(err).Msg("failed to import cases")
		return dto.ImportResult{}, err
	}

	ids := make([]uint, 0, len(cases))
	for _, c := range cases {
		ids = append(ids, c.ID)
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionImportCases,
		Details:   &audit.ImportDetails{ImportedIDs: ids},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return dto.ImportResult{}, err
	}

	return dto.ImportResult{Imported: len(ids), IDs: ids}, nil
}

// Export renders every case as CSV.
func (s *caseService) Export(ctx context.Context, actor *Actor, client ClientInfo) ([]byte, error) {
	cases, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load cases for export")
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"number", "title", "petitioner", "respondent", "case_type", "status", "filed_at", "description"})
	for _, c := range cases {
		if err := writer.Write([]string{
			c.Number, c.Title, c.Petitioner, c.Respondent, c.CaseType, c.Status,
			c.FiledAt.Format(time.RFC3339), c.Description,
		}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionExportCases,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// checkCSVPayload sniffs the content so binary uploads are rejected before
// parsing.
func checkCSVPayload(payload []byte) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return fmt.Errorf("empty import payload")
	}

	detected := mimetype.Detect(payload)
	for mime := detected; mime != nil; mime = mime.Parent() {
		base := strings.Split(mime.String(), ";")[0]
		if _, ok := csvMimeTypes[base]; ok {
			return nil
		}
	}

	return fmt.Errorf("unsupported import content type %s", strings.Split(detected.String(), ";")[0])
}
