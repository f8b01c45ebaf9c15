package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepaymentTrendPoint is one day's paid amount in the dashboard trend.
type RepaymentTrendPoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// DashboardStats aggregates portfolio-level numbers for the dashboard.
type DashboardStats struct {
	TotalBorrowers       int                   `json:"totalBorrowers"`
	TotalLoans           int                   `json:"totalLoans"`
	TotalActivePrincipal decimal.Decimal       `json:"totalActivePrincipal"`
	TotalOutstanding     decimal.Decimal       `json:"totalOutstanding"`
	StatusDistribution   map[LoanStatus]int    `json:"statusDistribution"`
	RepaymentTrend       []RepaymentTrendPoint `json:"repaymentTrend"`
}
