package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/courtdesk/registry-api/internal/audit"
	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/observability"
	"github.com/courtdesk/registry-api/internal/repository"
)

// Actor is the authenticated principal attached to a request.
type Actor struct {
	ID   string
	Role string
}

// AuditEntry carries one event into the audit trail.
type AuditEntry struct {
	Action    audit.Action
	Details   audit.Details
	IPAddress string
	UserAgent string
}

// AuditRecorder is the write side of the audit trail, consumed by the
// business services after their own mutation has committed. Recording is not
// transactional with the triggering action: a rejected write leaves the
// business mutation in place and only the audit row missing.
type AuditRecorder interface {
	Record(ctx context.Context, actor *Actor, entry AuditEntry) error
}

// AuditService exposes the audit trail's write and read surfaces.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, actor *Actor) ([]audit.Record, error)
	ListView(ctx context.Context, actor *Actor) ([]dto.ActivityItem, error)
}

type auditService struct {
	repo      repository.AuditLogRepository
	users     repository.UserRepository
	cases     repository.CaseRepository
	employees repository.EmployeeRepository
	logger    zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(
	repo repository.AuditLogRepository,
	users repository.UserRepository,
	cases repository.CaseRepository,
	employees repository.EmployeeRepository,
	logger zerolog.Logger,
) AuditService {
	return &auditService{
		repo:      repo,
		users:     users,
		cases:     cases,
		employees: employees,
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

// Record validates the action/details pair against the registered union and
// appends exactly one row. Login events bypass the session requirement; every
// other action is rejected without an authenticated actor. A shape mismatch
// rejects the write, never coerces.
func (s *auditService) Record(ctx context.Context, actor *Actor, entry AuditEntry) error {
	tracer := otel.Tracer("github.com/courtdesk/registry-api/internal/service/audit")
	ctx, span := tracer.Start(ctx, "audit.record")
	span.SetAttributes(attribute.String("audit.action", string(entry.Action)))
	defer span.End()

	if entry.Action.RequiresSession() && actor == nil {
		span.SetStatus(codes.Error, "unauthorized")
		return ErrUnauthorized
	}

	raw, err := audit.EncodeDetails(entry.Action, entry.Details)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details_rejected")
		return fmt.Errorf("audit write rejected: %w", err)
	}

	row := models.AuditLog{
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		Action:    string(entry.Action),
		Details:   datatypes.JSON(raw),
	}
	if actor != nil {
		id := actor.ID
		row.UserID = &id
	}

	if err := s.repo.Create(ctx, &row); err != nil {
		s.logger.Error().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit row")
		return fmt.Errorf("failed to record audit entry")
	}

	observability.AuditEntries().WithLabelValues(string(entry.Action)).Inc()
	return nil
}

// List returns every persisted row that survives re-validation. Rows failing
// the base-field or union check are dropped from the result and reported on
// the diagnostic log channel, so one malformed historical row never blocks
// the audit view.
func (s *auditService) List(ctx context.Context, actor *Actor) ([]audit.Record, error) {
	tracer := otel.Tracer("github.com/courtdesk/registry-api/internal/service/audit")
	ctx, span := tracer.Start(ctx, "audit.list", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if actor == nil {
		span.SetStatus(codes.Error, "unauthorized")
		return nil, ErrUnauthorized
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load audit rows")
		return nil, fmt.Errorf("failed to load audit trail")
	}

	records := make([]audit.Record, 0, len(rows))
	for _, row := range rows {
		record, err := audit.ParseRecord(row)
		if err != nil {
			s.logger.Warn().Err(err).Uint("audit_id", row.ID).Msg("dropping malformed audit row")
			observability.AuditDrops().Inc()
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// ListView decorates each surviving record with its badge and a formatted
// summary, resolving ids against the current reference collections.
func (s *auditService) ListView(ctx context.Context, actor *Actor) ([]dto.ActivityItem, error) {
	records, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load user references")
		return nil, fmt.Errorf("failed to load audit trail")
	}
	cases, err := s.cases.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load case references")
		return nil, fmt.Errorf("failed to load audit trail")
	}
	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load employee references")
		return nil, fmt.Errorf("failed to load audit trail")
	}

	resolver := audit.NewResolver(users, cases, employees)

	items := make([]dto.ActivityItem, 0, len(records))
	for _, record := range records {
		badge, ok := audit.BadgeFor(record.Action)
		if !ok {
			// CheckCoverage runs at boot, so a miss here means the enum
			// changed mid-flight. Drop and report rather than render blank.
			s.logger.Warn().Str("action", string(record.Action)).Msg("no badge registered for action")
			continue
		}
		items = append(items, dto.NewActivityItem(record, badge, resolver.Summary(record)))
	}

	return items, nil
}
