package repositories

import (
	"context"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// BorrowerRepositoryFacade defines operations for borrower data. Deleting a
// borrower cascades to its loans and everything the loans own; the cascade is
// enforced by the schema's foreign keys.
type BorrowerRepositoryFacade interface {
	CreateBorrower(ctx context.Context, borrower domain.Borrower) error
	FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error)
	ListBorrowers(ctx context.Context, offset, limit int) ([]domain.Borrower, error)
	DeleteBorrower(ctx context.Context, borrowerID string) error
}
