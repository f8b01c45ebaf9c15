package dto

import (
	"github.com/shopspring/decimal"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// TrendPointResponse is one point of the dashboard repayment trend.
type TrendPointResponse struct {
	Date   string          `json:"date"` // YYYY-MM-DD
	Amount decimal.Decimal `json:"amount"`
}

// DashboardStatsResponse defines the data returned for dashboard statistics.
type DashboardStatsResponse struct {
	TotalBorrowers       int                  `json:"totalBorrowers"`
	TotalLoans           int                  `json:"totalLoans"`
	TotalActivePrincipal decimal.Decimal      `json:"totalActivePrincipal"`
	TotalOutstanding     decimal.Decimal      `json:"totalOutstanding"`
	StatusDistribution   map[string]int       `json:"statusDistribution"`
	RepaymentTrend       []TrendPointResponse `json:"repaymentTrend"`
}

// ToDashboardStatsResponse converts domain.DashboardStats to its response DTO.
func ToDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	resp := DashboardStatsResponse{
		TotalBorrowers:       s.TotalBorrowers,
		TotalLoans:           s.TotalLoans,
		TotalActivePrincipal: s.TotalActivePrincipal,
		TotalOutstanding:     s.TotalOutstanding,
		StatusDistribution:   make(map[string]int, len(s.StatusDistribution)),
	}
	for status, count := range s.StatusDistribution {
		resp.StatusDistribution[string(status)] = count
	}
	for _, p := range s.RepaymentTrend {
		resp.RepaymentTrend = append(resp.RepaymentTrend, TrendPointResponse{
			Date:   p.Date.Format("2006-01-02"),
			Amount: p.Amount,
		})
	}
	return resp
}
