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
)

// borrowerService implements borrower management.
type borrowerService struct {
	borrowerRepo portsrepo.BorrowerRepositoryFacade
	auditRepo    portsrepo.AuditLogRepositoryFacade
	now          func() time.Time
}

// NewBorrowerService creates a new BorrowerSvcFacade.
func NewBorrowerService(
	borrowerRepo portsrepo.BorrowerRepositoryFacade,
	auditRepo portsrepo.AuditLogRepositoryFacade,
	now func() time.Time,
) portssvc.BorrowerSvcFacade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &borrowerService{borrowerRepo: borrowerRepo, auditRepo: auditRepo, now: now}
}

var _ portssvc.BorrowerSvcFacade = (*borrowerService)(nil)

// CreateBorrower registers a new borrower.
func (s *borrowerService) CreateBorrower(ctx context.Context, req dto.CreateBorrowerRequest, actorUserID string) (*domain.Borrower, error) {
	borrower := domain.Borrower{
		BorrowerID:    uuid.NewString(),
		Name:          req.Name,
		Address:       req.Address,
		Income:        req.Income,
		MonthlyIncome: req.MonthlyIncome,
		CreditScore:   req.CreditScore,
		CreatedAt:     s.now(),
	}
	if err := s.borrowerRepo.CreateBorrower(ctx, borrower); err != nil {
		return nil, fmt.Errorf("failed to create borrower: %w", err)
	}
	s.audit(ctx, actorUserID, "CREATE_BORROWER", fmt.Sprintf("borrower %s (%s)", borrower.BorrowerID, borrower.Name))
	middleware.GetLoggerFromCtx(ctx).Info("Borrower created", slog.String("borrower_id", borrower.BorrowerID))
	return &borrower, nil
}

// GetBorrowerByID retrieves a borrower.
func (s *borrowerService) GetBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	borrower, err := s.borrowerRepo.FindBorrowerByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
		}
		return nil, fmt.Errorf("failed to find borrower %s: %w", borrowerID, err)
	}
	return borrower, nil
}

// ListBorrowers retrieves a page of borrowers.
func (s *borrowerService) ListBorrowers(ctx context.Context, offset, limit int) ([]domain.Borrower, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	borrowers, err := s.borrowerRepo.ListBorrowers(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	return borrowers, nil
}

// DeleteBorrower removes a borrower. The database cascade takes the
// borrower's loans and everything the loans own with it.
func (s *borrowerService) DeleteBorrower(ctx context.Context, borrowerID string, actorUserID string) error {
	if _, err := s.borrowerRepo.FindBorrowerByID(ctx, borrowerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
		}
		return fmt.Errorf("failed to find borrower %s: %w", borrowerID, err)
	}
	if err := s.borrowerRepo.DeleteBorrower(ctx, borrowerID); err != nil {
		return fmt.Errorf("failed to delete borrower %s: %w", borrowerID, err)
	}
	s.audit(ctx, actorUserID, "DELETE_BORROWER", fmt.Sprintf("borrower %s and owned loans removed", borrowerID))
	middleware.GetLoggerFromCtx(ctx).Info("Borrower deleted", slog.String("borrower_id", borrowerID))
	return nil
}

func (s *borrowerService) audit(ctx context.Context, actorUserID, action, details string) {
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
