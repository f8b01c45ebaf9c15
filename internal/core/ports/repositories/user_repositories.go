package repositories

import (
	"context"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// UserRepositoryFacade defines operations for staff accounts.
type UserRepositoryFacade interface {
	CreateUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// AuditLogRepositoryFacade appends audit trail rows. Append-only.
type AuditLogRepositoryFacade interface {
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error
}
