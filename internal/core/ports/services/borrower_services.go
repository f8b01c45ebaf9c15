package services

import (
	"context"

	"github.com/karofin/loan_management_app/internal/core/domain"
	"github.com/karofin/loan_management_app/internal/dto"
)

// BorrowerSvcFacade exposes borrower management operations.
type BorrowerSvcFacade interface {
	CreateBorrower(ctx context.Context, req dto.CreateBorrowerRequest, actorUserID string) (*domain.Borrower, error)
	GetBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error)
	ListBorrowers(ctx context.Context, offset, limit int) ([]domain.Borrower, error)
	DeleteBorrower(ctx context.Context, borrowerID string, actorUserID string) error
}
