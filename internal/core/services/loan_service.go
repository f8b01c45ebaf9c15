package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karofin/loan_management_app/internal/apperrors"
	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/dto"
	"github.com/karofin/loan_management_app/internal/middleware"
	"github.com/karofin/loan_management_app/internal/utils/amortization"
)

var (
	// ErrInvalidStateTransition is returned when an operation targets a loan
	// whose status does not permit it. Never silently ignored.
	ErrInvalidStateTransition = errors.New("invalid loan state transition")
)

// loanService implements the loan lifecycle: application, approval
// (disbursement) and rejection.
type loanService struct {
	loanRepo     portsrepo.LoanRepositoryWithTx
	loanTypeSvc  portssvc.LoanTypeSvcFacade
	borrowerRepo portsrepo.BorrowerRepositoryFacade
	auditRepo    portsrepo.AuditLogRepositoryFacade
	now          func() time.Time
}

// NewLoanService creates a new LoanSvcFacade. now may be nil, in which case
// the wall clock (UTC) is used.
func NewLoanService(
	loanRepo portsrepo.LoanRepositoryWithTx,
	loanTypeSvc portssvc.LoanTypeSvcFacade,
	borrowerRepo portsrepo.BorrowerRepositoryFacade,
	auditRepo portsrepo.AuditLogRepositoryFacade,
	now func() time.Time,
) portssvc.LoanSvcFacade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &loanService{
		loanRepo:     loanRepo,
		loanTypeSvc:  loanTypeSvc,
		borrowerRepo: borrowerRepo,
		auditRepo:    auditRepo,
		now:          now,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// validateAgainstLoanType checks the application against the product limits.
// An absent loan type reference skips validation entirely; no default limits
// are applied.
func (s *loanService) validateAgainstLoanType(ctx context.Context, loanTypeID *string, principal decimal.Decimal, termMonths int) error {
	if loanTypeID == nil {
		return nil
	}
	loanType, err := s.loanTypeSvc.GetLoanTypeByID(ctx, *loanTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: loan type %s", apperrors.ErrNotFound, *loanTypeID)
		}
		return err
	}
	if principal.GreaterThan(loanType.MaxAmount) {
		return fmt.Errorf("%w: principal %s exceeds maximum amount %s for %s loans",
			apperrors.ErrValidation, principal, loanType.MaxAmount, loanType.Name)
	}
	if termMonths > loanType.MaxTenureMonths {
		return fmt.Errorf("%w: tenure %d exceeds maximum tenure %d months for %s loans",
			apperrors.ErrValidation, termMonths, loanType.MaxTenureMonths, loanType.Name)
	}
	return nil
}

// ApplyLoan validates and creates a pending loan with its collaterals.
func (s *loanService) ApplyLoan(ctx context.Context, req dto.ApplyLoanRequest, actorUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: principal must be positive", apperrors.ErrValidation)
	}
	if req.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: term must be positive", apperrors.ErrValidation)
	}
	if req.InterestRate < 0 {
		return nil, fmt.Errorf("%w: interest rate must not be negative", apperrors.ErrValidation)
	}

	if _, err := s.borrowerRepo.FindBorrowerByID(ctx, req.BorrowerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, req.BorrowerID)
		}
		return nil, fmt.Errorf("failed to fetch borrower %s: %w", req.BorrowerID, err)
	}

	if err := s.validateAgainstLoanType(ctx, req.LoanTypeID, req.Principal.Round(2), req.TermMonths); err != nil {
		return nil, err
	}

	now := s.now()
	loan := domain.Loan{
		LoanID:       uuid.NewString(),
		BorrowerID:   req.BorrowerID,
		LoanTypeID:   req.LoanTypeID,
		Principal:    req.Principal.Round(2),
		InterestRate: req.InterestRate,
		TermMonths:   req.TermMonths,
		Status:       domain.LoanPending,
		CreatedAt:    now,
	}

	collaterals := make([]domain.Collateral, 0, len(req.Collaterals))
	for _, c := range req.Collaterals {
		collaterals = append(collaterals, domain.Collateral{
			CollateralID: uuid.NewString(),
			LoanID:       loan.LoanID,
			Type:         c.Type,
			Value:        c.Value.Round(2),
			Description:  c.Description,
			SubmittedOn:  now,
		})
	}

	if err := s.loanRepo.CreateLoan(ctx, loan, collaterals); err != nil {
		logger.Error("Failed to create loan", slog.String("error", err.Error()), slog.String("borrower_id", req.BorrowerID))
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	s.audit(ctx, actorUserID, "CREATE_LOAN", fmt.Sprintf("loan %s for borrower %s, principal %s", loan.LoanID, loan.BorrowerID, loan.Principal))
	logger.Info("Loan application created", slog.String("loan_id", loan.LoanID), slog.String("borrower_id", loan.BorrowerID))

	loan.Collaterals = collaterals
	return &loan, nil
}

// ApproveLoan transitions a pending loan to active and disburses it: posts
// the disbursement ledger entry and materializes the full repayment schedule.
// The whole effect is one database transaction under the loan's row lock, so
// a mid-sequence failure leaves the loan pending with no partial schedule and
// no orphan ledger entry.
func (s *loanService) ApproveLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.loanRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin approval transaction: %w", err)
	}
	defer s.loanRepo.Rollback(ctx, tx)

	loan, err := s.loanRepo.FindLoanByIDForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}

	if !loan.Status.CanTransitionTo(domain.LoanActive) {
		return nil, fmt.Errorf("%w: loan %s is %s, not pending", ErrInvalidStateTransition, loanID, loan.Status)
	}

	now := s.now()
	outstanding := loan.Principal
	loan.Status = domain.LoanActive
	loan.DisbursedOn = &now
	loan.Outstanding = &outstanding

	installment, lines, err := amortization.Schedule(loan.Principal, loan.InterestRate, loan.TermMonths, now)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule generation failed: %v", apperrors.ErrInternal, err)
	}

	if err := s.loanRepo.UpdateLoanStateInTx(ctx, tx, *loan); err != nil {
		return nil, fmt.Errorf("failed to activate loan %s: %w", loanID, err)
	}

	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		LoanID:       loan.LoanID,
		Type:         domain.LedgerDisbursement,
		Amount:       loan.Principal,
		Date:         now,
		BalanceAfter: loan.Principal,
	}
	if err := s.loanRepo.PostLedgerEntryInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to post disbursement ledger entry for loan %s: %w", loanID, err)
	}

	repayments := make([]domain.Repayment, 0, len(lines))
	for _, line := range lines {
		repayments = append(repayments, domain.Repayment{
			RepaymentID: uuid.NewString(),
			LoanID:      loan.LoanID,
			DueDate:     line.DueDate,
			Amount:      line.Payment,
			PaidAmount:  decimal.Zero,
			Status:      domain.RepaymentDue,
		})
	}
	if err := s.loanRepo.SaveRepaymentScheduleInTx(ctx, tx, repayments); err != nil {
		return nil, fmt.Errorf("failed to materialize schedule for loan %s: %w", loanID, err)
	}

	if err := s.loanRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit approval of loan %s: %w", loanID, err)
	}

	s.audit(ctx, actorUserID, "APPROVE_LOAN", fmt.Sprintf("loan %s disbursed, principal %s, installment %s over %d months", loan.LoanID, loan.Principal, installment, loan.TermMonths))
	logger.Info("Loan approved and disbursed",
		slog.String("loan_id", loan.LoanID),
		slog.String("installment", installment.String()),
		slog.Int("schedule_lines", len(repayments)),
	)

	loan.LedgerEntries = []domain.LedgerEntry{entry}
	return loan, nil
}

// RejectLoan moves a pending loan to the terminal rejected state.
func (s *loanService) RejectLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.loanRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rejection transaction: %w", err)
	}
	defer s.loanRepo.Rollback(ctx, tx)

	loan, err := s.loanRepo.FindLoanByIDForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}

	if !loan.Status.CanTransitionTo(domain.LoanRejected) {
		return nil, fmt.Errorf("%w: loan %s is %s, not pending", ErrInvalidStateTransition, loanID, loan.Status)
	}

	loan.Status = domain.LoanRejected
	if err := s.loanRepo.UpdateLoanStateInTx(ctx, tx, *loan); err != nil {
		return nil, fmt.Errorf("failed to reject loan %s: %w", loanID, err)
	}
	if err := s.loanRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit rejection of loan %s: %w", loanID, err)
	}

	s.audit(ctx, actorUserID, "REJECT_LOAN", fmt.Sprintf("loan %s rejected", loanID))
	logger.Info("Loan rejected", slog.String("loan_id", loanID))
	return loan, nil
}

// GetLoanByID retrieves a loan with its collaterals and ledger entries.
func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	return loan, nil
}

// ListLoans retrieves all loans.
func (s *loanService) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.loanRepo.ListLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

// ListLoanTypes retrieves the product catalog.
func (s *loanService) ListLoanTypes(ctx context.Context) ([]domain.LoanType, error) {
	return s.loanTypeSvc.ListLoanTypes(ctx)
}

// audit records the action best-effort: a failed audit write is logged but
// does not fail the already-committed business operation.
func (s *loanService) audit(ctx context.Context, actorUserID, action, details string) {
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
