package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for dashboard aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepositoryFacade
var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// GetDashboardStats computes portfolio aggregates with SQL rather than
// loading rows into memory.
func (r *PgxReportingRepository) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{
		StatusDistribution: make(map[domain.LoanStatus]int),
	}

	totalsQuery := `
		SELECT
			(SELECT COUNT(*) FROM borrowers),
			(SELECT COUNT(*) FROM loans),
			(SELECT COALESCE(SUM(principal), 0) FROM loans WHERE status = 'active'),
			(SELECT COALESCE(SUM(outstanding), 0) FROM loans WHERE status = 'active');
	`
	err := r.Pool.QueryRow(ctx, totalsQuery).Scan(
		&stats.TotalBorrowers,
		&stats.TotalLoans,
		&stats.TotalActivePrincipal,
		&stats.TotalOutstanding,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio totals: %w", err)
	}

	distQuery := `SELECT status, COUNT(*) FROM loans GROUP BY status;`
	rows, err := r.Pool.Query(ctx, distQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query status distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status distribution row: %w", err)
		}
		stats.StatusDistribution[domain.LoanStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading status distribution rows: %w", err)
	}

	trend, err := r.repaymentTrend(ctx)
	if err != nil {
		return nil, err
	}
	stats.RepaymentTrend = trend

	return stats, nil
}

// repaymentTrend returns the paid amounts of the ten most recent payment
// days, oldest first.
func (r *PgxReportingRepository) repaymentTrend(ctx context.Context) ([]domain.RepaymentTrendPoint, error) {
	query := `
		SELECT day, total FROM (
			SELECT date_trunc('day', paid_on) AS day, SUM(paid_amount) AS total
			FROM repayments
			WHERE paid_on IS NOT NULL AND paid_amount > 0
			GROUP BY 1
			ORDER BY 1 DESC
			LIMIT 10
		) recent
		ORDER BY day ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repayment trend: %w", err)
	}
	defer rows.Close()

	var trend []domain.RepaymentTrendPoint
	for rows.Next() {
		var day time.Time
		var total decimal.Decimal
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("failed to scan repayment trend row: %w", err)
		}
		trend = append(trend, domain.RepaymentTrendPoint{Date: day, Amount: total})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading repayment trend rows: %w", err)
	}
	return trend, nil
}
