package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// CreateBorrowerRequest is the explicit input for borrower creation.
type CreateBorrowerRequest struct {
	Name          string           `json:"name" binding:"required"`
	Address       string           `json:"address"`
	Income        *decimal.Decimal `json:"income"`
	MonthlyIncome *decimal.Decimal `json:"monthlyIncome"`
	CreditScore   *int             `json:"creditScore" binding:"omitempty,gte=300,lte=850"`
}

// BorrowerResponse defines the data returned for a borrower.
type BorrowerResponse struct {
	BorrowerID    string           `json:"borrowerID"`
	Name          string           `json:"name"`
	Address       string           `json:"address,omitempty"`
	Income        *decimal.Decimal `json:"income,omitempty"`
	MonthlyIncome *decimal.Decimal `json:"monthlyIncome,omitempty"`
	CreditScore   *int             `json:"creditScore,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ToBorrowerResponse converts a domain.Borrower to BorrowerResponse.
func ToBorrowerResponse(b *domain.Borrower) BorrowerResponse {
	return BorrowerResponse{
		BorrowerID:    b.BorrowerID,
		Name:          b.Name,
		Address:       b.Address,
		Income:        b.Income,
		MonthlyIncome: b.MonthlyIncome,
		CreditScore:   b.CreditScore,
		CreatedAt:     b.CreatedAt,
	}
}

// ToBorrowerResponses converts a slice of domain.Borrower to []BorrowerResponse.
func ToBorrowerResponses(borrowers []domain.Borrower) []BorrowerResponse {
	responses := make([]BorrowerResponse, len(borrowers))
	for i := range borrowers {
		responses[i] = ToBorrowerResponse(&borrowers[i])
	}
	return responses
}
