package services

import (
	"context"

	"github.com/karofin/loan_management_app/internal/core/domain"
	"github.com/karofin/loan_management_app/internal/dto"
)

// UserSvcFacade exposes staff account management and credential checks.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, actorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// Authenticate verifies the credentials and returns the user, or
	// apperrors.ErrForbidden on a mismatch.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// ReportingSvcFacade exposes dashboard aggregates.
type ReportingSvcFacade interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
