package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/karofin/loan_management_app/internal/apperrors"
	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/dto"
	"github.com/karofin/loan_management_app/internal/middleware"
	"github.com/karofin/loan_management_app/internal/utils"
)

// userService implements staff account management and credential checks.
type userService struct {
	userRepo  portsrepo.UserRepositoryFacade
	auditRepo portsrepo.AuditLogRepositoryFacade
	now       func() time.Time
}

// NewUserService creates a new UserSvcFacade.
func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	auditRepo portsrepo.AuditLogRepositoryFacade,
	now func() time.Time,
) portssvc.UserSvcFacade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &userService{userRepo: userRepo, auditRepo: auditRepo, now: now}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser creates a staff account with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actorUserID string) (*domain.User, error) {
	role := domain.UserRole(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	if _, err := s.userRepo.FindUserByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username %s already taken", apperrors.ErrDuplicate, req.Username)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username %s: %w", req.Username, err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", req.Username, err)
	}

	s.audit(ctx, actorUserID, "CREATE_USER", fmt.Sprintf("user %s with role %s", user.Username, user.Role))
	middleware.GetLoggerFromCtx(ctx).Info("User created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves a staff account.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return user, nil
}

// ListUsers retrieves all staff accounts.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Authenticate verifies the credentials. An unknown username and a wrong
// password produce the same error, so a caller cannot probe for accounts.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}
	return user, nil
}

func (s *userService) audit(ctx context.Context, actorUserID, action, details string) {
	if s.auditRepo == nil {
		return
	}
	entry := domain.AuditLog{
		AuditLogID: uuid.NewString(),
		Action:     action,
		Details:    details,
		Timestamp:  s.now(),
	}
	if actorUserID != "" {
		entry.UserID = &actorUserID
	}
	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to write audit log", slog.String("action", action), slog.String("error", err.Error()))
	}
}
