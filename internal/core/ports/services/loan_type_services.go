package services

import (
	"context"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// LoanTypeSvcFacade exposes the product catalog. The catalog is read-only at
// request time; CreateLoanType exists for seeding and administrative setup.
type LoanTypeSvcFacade interface {
	GetLoanTypeByID(ctx context.Context, loanTypeID string) (*domain.LoanType, error)
	ListLoanTypes(ctx context.Context) ([]domain.LoanType, error)
	CreateLoanType(ctx context.Context, loanType domain.LoanType) (*domain.LoanType, error)
}
