package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/middleware"
)

const (
	dashboardCacheKey = "reporting:dashboard"
	dashboardCacheTTL = time.Minute
)

// reportingService serves dashboard aggregates, with a short-lived cache so a
// refresh-happy dashboard does not hammer the aggregate queries.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
	cache         *redis.Client
}

// NewReportingService creates a new ReportingSvcFacade. cache may be nil, in
// which case every call hits the database.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade, cache *redis.Client) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo, cache: cache}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetDashboardStats returns portfolio aggregates, cached for up to a minute.
func (s *reportingService) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var stats domain.DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
			logger.Warn("Discarding undecodable dashboard cache entry")
		} else if err != redis.Nil {
			logger.Warn("Dashboard cache read failed", slog.String("error", err.Error()))
		}
	}

	stats, err := s.reportingRepo.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				logger.Warn("Dashboard cache write failed", slog.String("error", err.Error()))
			}
		}
	}
	return stats, nil
}
