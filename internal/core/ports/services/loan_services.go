package services

import (
	"context"

	"github.com/karofin/loan_management_app/internal/core/domain"
	"github.com/karofin/loan_management_app/internal/dto"
)

// LoanSvcFacade exposes the loan lifecycle operations to the calling layer.
// Callers are pre-authorized; the core performs no role checks of its own.
type LoanSvcFacade interface {
	// ApplyLoan validates the application against the product catalog and
	// creates a pending loan with its collaterals.
	ApplyLoan(ctx context.Context, req dto.ApplyLoanRequest, actorUserID string) (*domain.Loan, error)

	// ApproveLoan disburses a pending loan: activates it, posts the
	// disbursement ledger entry and materializes the repayment schedule,
	// atomically.
	ApproveLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error)

	// RejectLoan moves a pending loan to rejected (terminal).
	RejectLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error)

	// GetLoanByID retrieves a loan with its collaterals and ledger entries.
	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoans retrieves all loans.
	ListLoans(ctx context.Context) ([]domain.Loan, error)

	// ListLoanTypes retrieves the product catalog.
	ListLoanTypes(ctx context.Context) ([]domain.LoanType, error)
}
