package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/repository"
)

const dashboardCacheKey = "dashboard:registry"

// DashboardService produces aggregated registry statistics for the landing
// view, cached in Redis with a short TTL.
type DashboardService interface {
	GetDashboard(ctx context.Context) (dto.DashboardResponse, error)
}

type dashboardService struct {
	cases     repository.CaseRepository
	employees repository.EmployeeRepository
	logs      repository.ReceivingLogRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(cases repository.CaseRepository, employees repository.EmployeeRepository, logs repository.ReceivingLogRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		cases:     cases,
		employees: employees,
		logs:      logs,
		cache:     cache,
		cacheTTL:  ttl,
		logger:    logger.With().Str("component", "dashboard_service").Logger(),
		now:       time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (dto.DashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	byStatus, err := s.cases.CountByStatus(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	year := s.now().Year()
	_, received, err := s.logs.List(ctx, repository.ReceivingLogFilter{Year: year})
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	var totalCases int64
	for _, count := range byStatus {
		totalCases += count
	}

	response := dto.DashboardResponse{
		TotalCases:       totalCases,
		CasesByStatus:    byStatus,
		TotalEmployees:   int64(len(employees)),
		ReceivedThisYear: received,
		GeneratedAt:      s.now().UTC(),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
