package repositories

import (
	"context"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// LoanTypeRepositoryFacade defines operations for the product catalog. The
// catalog is read-only at request time; CreateLoanType exists for seeding and
// administrative setup only.
type LoanTypeRepositoryFacade interface {
	FindLoanTypeByID(ctx context.Context, loanTypeID string) (*domain.LoanType, error)
	ListLoanTypes(ctx context.Context) ([]domain.LoanType, error)
	CreateLoanType(ctx context.Context, loanType domain.LoanType) error
}
