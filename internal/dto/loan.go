package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// CollateralRequest describes one pledged asset in a loan application.
type CollateralRequest struct {
	Type        string          `json:"type" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	Description string          `json:"description"`
}

// ApplyLoanRequest is the explicit input for the loan application operation.
// Unknown fields are rejected at binding time; there is no open-ended
// attribute map.
type ApplyLoanRequest struct {
	BorrowerID   string              `json:"borrowerID" binding:"required"`
	LoanTypeID   *string             `json:"loanTypeID"`
	Principal    decimal.Decimal     `json:"principal" binding:"required"`
	InterestRate float64             `json:"interestRate" binding:"gte=0"`
	TermMonths   int                 `json:"termMonths" binding:"required,gt=0"`
	Collaterals  []CollateralRequest `json:"collaterals"`
}

// CollateralResponse defines the data returned for a collateral.
type CollateralResponse struct {
	CollateralID string          `json:"collateralID"`
	Type         string          `json:"type"`
	Value        decimal.Decimal `json:"value"`
	Description  string          `json:"description,omitempty"`
	SubmittedOn  time.Time       `json:"submittedOn"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID      string          `json:"entryID"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID       string                `json:"loanID"`
	BorrowerID   string                `json:"borrowerID"`
	LoanTypeID   *string               `json:"loanTypeID,omitempty"`
	Principal    decimal.Decimal       `json:"principal"`
	InterestRate float64               `json:"interestRate"`
	TermMonths   int                   `json:"termMonths"`
	Status       string                `json:"status"`
	Outstanding  *decimal.Decimal      `json:"outstanding,omitempty"`
	DisbursedOn  *time.Time            `json:"disbursedOn,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	Collaterals  []CollateralResponse  `json:"collaterals,omitempty"`
	Ledger       []LedgerEntryResponse `json:"ledgerEntries,omitempty"`
}

// LoanTypeResponse defines the data returned for a loan type.
type LoanTypeResponse struct {
	LoanTypeID       string          `json:"loanTypeID"`
	Name             string          `json:"name"`
	MaxAmount        decimal.Decimal `json:"maxAmount"`
	MaxTenureMonths  int             `json:"maxTenureMonths"`
	BaseInterestRate float64         `json:"baseInterestRate"`
}

// ToLoanResponse converts a domain.Loan to LoanResponse.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	resp := LoanResponse{
		LoanID:       l.LoanID,
		BorrowerID:   l.BorrowerID,
		LoanTypeID:   l.LoanTypeID,
		Principal:    l.Principal,
		InterestRate: l.InterestRate,
		TermMonths:   l.TermMonths,
		Status:       string(l.Status),
		Outstanding:  l.Outstanding,
		DisbursedOn:  l.DisbursedOn,
		CreatedAt:    l.CreatedAt,
	}
	for _, c := range l.Collaterals {
		resp.Collaterals = append(resp.Collaterals, CollateralResponse{
			CollateralID: c.CollateralID,
			Type:         c.Type,
			Value:        c.Value,
			Description:  c.Description,
			SubmittedOn:  c.SubmittedOn,
		})
	}
	for _, e := range l.LedgerEntries {
		resp.Ledger = append(resp.Ledger, LedgerEntryResponse{
			EntryID:      e.EntryID,
			Type:         string(e.Type),
			Amount:       e.Amount,
			Date:         e.Date,
			BalanceAfter: e.BalanceAfter,
		})
	}
	return resp
}

// ToLoanResponses converts a slice of domain.Loan to []LoanResponse.
func ToLoanResponses(loans []domain.Loan) []LoanResponse {
	responses := make([]LoanResponse, len(loans))
	for i := range loans {
		responses[i] = ToLoanResponse(&loans[i])
	}
	return responses
}

// ToLoanTypeResponse converts a domain.LoanType to LoanTypeResponse.
func ToLoanTypeResponse(t *domain.LoanType) LoanTypeResponse {
	return LoanTypeResponse{
		LoanTypeID:       t.LoanTypeID,
		Name:             t.Name,
		MaxAmount:        t.MaxAmount,
		MaxTenureMonths:  t.MaxTenureMonths,
		BaseInterestRate: t.BaseInterestRate,
	}
}

// ToLoanTypeResponses converts a slice of domain.LoanType to []LoanTypeResponse.
func ToLoanTypeResponses(types []domain.LoanType) []LoanTypeResponse {
	responses := make([]LoanTypeResponse, len(types))
	for i := range types {
		responses[i] = ToLoanTypeResponse(&types[i])
	}
	return responses
}
