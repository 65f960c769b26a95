package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/repository"
)

// ReceivingLogService manages the register of incoming documents. Register
// entries are not part of the audit action enumeration, so this service does
// not write to the activity trail.
type ReceivingLogService interface {
	Create(ctx context.Context, req dto.CreateReceivingLogRequest) (dto.ReceivingLogResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateReceivingLogRequest) (dto.ReceivingLogResponse, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (dto.ReceivingLogResponse, error)
	List(ctx context.Context, req dto.ReceivingLogListRequest) (dto.ReceivingLogListResponse, error)
}

type receivingLogService struct {
	repo      repository.ReceivingLogRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewReceivingLogService constructs the receiving log service.
func NewReceivingLogService(repo repository.ReceivingLogRepository, validate *validator.Validate, logger zerolog.Logger) ReceivingLogService {
	return &receivingLogService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "receiving_log_service").Logger(),
		now:       time.Now,
	}
}

func (s *receivingLogService) Create(ctx context.Context, req dto.CreateReceivingLogRequest) (dto.ReceivingLogResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ReceivingLogResponse{}, err
	}

	receivedAt := req.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.now().UTC()
	}

	entry := models.ReceivingLog{
		Year:         receivedAt.Year(),
		Sender:       s.sanitizer.Sanitize(strings.TrimSpace(req.Sender)),
		DocumentType: strings.TrimSpace(req.DocumentType),
		CaseNumber:   strings.TrimSpace(req.CaseNumber),
		ReceivedAt:   receivedAt,
		Notes:        s.sanitizer.Sanitize(req.Notes),
	}

	if err := s.repo.CreateWithSequence(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Msg("failed to create register entry")
		return dto.ReceivingLogResponse{}, err
	}

	return dto.NewReceivingLogResponse(entry), nil
}

func (s *receivingLogService) Update(ctx context.Context, id uint, req dto.UpdateReceivingLogRequest) (dto.ReceivingLogResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ReceivingLogResponse{}, err
	}

	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReceivingLogResponse{}, ErrNotFound
		}
		return dto.ReceivingLogResponse{}, err
	}

	if req.Sender != nil {
		entry.Sender = s.sanitizer.Sanitize(strings.TrimSpace(*req.Sender))
	}
	if req.DocumentType != nil {
		entry.DocumentType = strings.TrimSpace(*req.DocumentType)
	}
	if req.CaseNumber != nil {
		entry.CaseNumber = strings.TrimSpace(*req.CaseNumber)
	}
	if req.Notes != nil {
		entry.Notes = s.sanitizer.Sanitize(*req.Notes)
	}

	if err := s.repo.Update(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Msg("failed to update register entry")
		return dto.ReceivingLogResponse{}, err
	}

	return dto.NewReceivingLogResponse(entry), nil
}

func (s *receivingLogService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *receivingLogService) Get(ctx context.Context, id uint) (dto.ReceivingLogResponse, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReceivingLogResponse{}, ErrNotFound
		}
		return dto.ReceivingLogResponse{}, err
	}
	return dto.NewReceivingLogResponse(entry), nil
}

func (s *receivingLogService) List(ctx context.Context, req dto.ReceivingLogListRequest) (dto.ReceivingLogListResponse, error) {
	entries, total, err := s.repo.List(ctx, repository.ReceivingLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Year:       req.Year,
		CaseNumber: req.CaseNumber,
	})
	if err != nil {
		return dto.ReceivingLogListResponse{}, err
	}

	items := make([]dto.ReceivingLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewReceivingLogResponse(entry))
	}

	return dto.ReceivingLogListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}
