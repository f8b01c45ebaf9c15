package repositories

import (
	"context"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// ReportingRepositoryFacade computes portfolio aggregates with SQL. Read-only.
type ReportingRepositoryFacade interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
