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
)

var (
	// ErrInvalidAmount is returned when a payment amount is zero or negative.
	ErrInvalidAmount = errors.New("payment amount must be positive")

	// ErrNoReceiptAvailable is returned when a receipt is requested for a
	// repayment that has received no payment yet.
	ErrNoReceiptAvailable = errors.New("no payment recorded, no receipt available")
)

// repaymentService implements payment application and receipt retrieval.
type repaymentService struct {
	repaymentRepo portsrepo.RepaymentRepositoryWithTx
	loanRepo      portsrepo.LoanRepositoryFacade
	auditRepo     portsrepo.AuditLogRepositoryFacade
	now           func() time.Time
}

// NewRepaymentService creates a new RepaymentSvcFacade. now may be nil, in
// which case the wall clock (UTC) is used.
func NewRepaymentService(
	repaymentRepo portsrepo.RepaymentRepositoryWithTx,
	loanRepo portsrepo.LoanRepositoryFacade,
	auditRepo portsrepo.AuditLogRepositoryFacade,
	now func() time.Time,
) portssvc.RepaymentSvcFacade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &repaymentService{
		repaymentRepo: repaymentRepo,
		loanRepo:      loanRepo,
		auditRepo:     auditRepo,
		now:           now,
	}
}

var _ portssvc.RepaymentSvcFacade = (*repaymentService)(nil)

// PayRepayment applies a payment to one installment and updates the owning
// loan inside a single transaction. Lock order is repayment row first, then
// loan row; the approval path locks the loan only, so the ordering admits no
// cycle.
//
// The full payment amount is deducted from the loan's outstanding balance and
// recorded on the ledger even when it exceeds the installment's remainder.
// The outstanding balance clamps at zero and the loan closes when it is
// exhausted.
func (s *repaymentService) PayRepayment(ctx context.Context, repaymentID string, req dto.PayRepaymentRequest, actorUserID string) (*domain.Repayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount := req.Amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, req.Amount)
	}

	tx, err := s.repaymentRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin payment transaction: %w", err)
	}
	defer s.repaymentRepo.Rollback(ctx, tx)

	rp, err := s.repaymentRepo.FindRepaymentByIDForUpdate(ctx, tx, repaymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: repayment %s", apperrors.ErrNotFound, repaymentID)
		}
		return nil, fmt.Errorf("failed to lock repayment %s: %w", repaymentID, err)
	}

	loan, err := s.loanRepo.FindLoanByIDForUpdate(ctx, tx, rp.LoanID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock loan %s: %w", rp.LoanID, err)
	}
	if loan.Outstanding == nil {
		return nil, fmt.Errorf("%w: loan %s has no outstanding balance, was it disbursed?", apperrors.ErrInternal, loan.LoanID)
	}

	now := s.now()
	rp.PaidAmount = rp.PaidAmount.Add(amount)
	rp.PaidOn = &now // most recent payment event
	rp.Status = rp.DeriveStatus()

	newOutstanding := loan.Outstanding.Sub(amount)
	if newOutstanding.LessThanOrEqual(decimal.Zero) {
		newOutstanding = decimal.Zero.Round(2)
		if loan.Status == domain.LoanActive {
			loan.Status = domain.LoanClosed
		}
	}
	loan.Outstanding = &newOutstanding

	if err := s.repaymentRepo.UpdateRepaymentInTx(ctx, tx, *rp); err != nil {
		return nil, fmt.Errorf("failed to update repayment %s: %w", repaymentID, err)
	}
	if err := s.loanRepo.UpdateLoanStateInTx(ctx, tx, *loan); err != nil {
		return nil, fmt.Errorf("failed to update loan %s: %w", loan.LoanID, err)
	}

	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		LoanID:       loan.LoanID,
		Type:         domain.LedgerRepayment,
		Amount:       amount,
		Date:         now,
		BalanceAfter: newOutstanding,
	}
	if err := s.loanRepo.PostLedgerEntryInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to post repayment ledger entry for loan %s: %w", loan.LoanID, err)
	}

	if _, err := s.repaymentRepo.FindReceiptByRepaymentID(ctx, rp.RepaymentID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check receipt for repayment %s: %w", rp.RepaymentID, err)
		}
		receipt := s.buildReceipt(rp.RepaymentID, now)
		if err := s.repaymentRepo.CreateReceiptInTx(ctx, tx, receipt); err != nil {
			return nil, fmt.Errorf("failed to create receipt for repayment %s: %w", rp.RepaymentID, err)
		}
	}

	if err := s.repaymentRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit payment on repayment %s: %w", repaymentID, err)
	}

	s.audit(ctx, actorUserID, "PAY_REPAYMENT", fmt.Sprintf("payment %s on repayment %s, loan %s outstanding %s", amount, rp.RepaymentID, loan.LoanID, newOutstanding))
	logger.Info("Payment applied",
		slog.String("repayment_id", rp.RepaymentID),
		slog.String("loan_id", loan.LoanID),
		slog.String("amount", amount.String()),
		slog.String("outstanding", newOutstanding.String()),
		slog.String("loan_status", string(loan.Status)),
	)
	return rp, nil
}

// ListRepaymentsForLoan retrieves a loan's schedule ordered by due date.
func (s *repaymentService) ListRepaymentsForLoan(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	if _, err := s.loanRepo.FindLoanByID(ctx, loanID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	repayments, err := s.repaymentRepo.ListRepaymentsByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list repayments for loan %s: %w", loanID, err)
	}
	return repayments, nil
}

// GetReceipt returns the receipt for a repayment. A paid repayment missing
// its receipt gets one created on the spot, so historical rows written before
// receipts existed still produce a document.
func (s *repaymentService) GetReceipt(ctx context.Context, repaymentID string) (*domain.Receipt, error) {
	rp, err := s.repaymentRepo.FindRepaymentByID(ctx, repaymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: repayment %s", apperrors.ErrNotFound, repaymentID)
		}
		return nil, fmt.Errorf("failed to find repayment %s: %w", repaymentID, err)
	}

	receipt, err := s.repaymentRepo.FindReceiptByRepaymentID(ctx, repaymentID)
	if err == nil {
		return receipt, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find receipt for repayment %s: %w", repaymentID, err)
	}

	if rp.PaidAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: repayment %s", ErrNoReceiptAvailable, repaymentID)
	}

	healed := s.buildReceipt(repaymentID, s.now())
	if err := s.repaymentRepo.CreateReceipt(ctx, healed); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race to a concurrent heal; the winner's receipt stands.
			return s.repaymentRepo.FindReceiptByRepaymentID(ctx, repaymentID)
		}
		return nil, fmt.Errorf("failed to create receipt for repayment %s: %w", repaymentID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Backfilled missing receipt", slog.String("repayment_id", repaymentID), slog.String("receipt_number", healed.ReceiptNumber))
	return &healed, nil
}

// SweepOverdue marks past-due unpaid repayments as overdue.
func (s *repaymentService) SweepOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	flagged, err := s.repaymentRepo.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep overdue repayments: %w", err)
	}
	if flagged > 0 {
		middleware.GetLoggerFromCtx(ctx).Info("Marked repayments overdue", slog.Int64("count", flagged), slog.Time("as_of", asOf))
	}
	return flagged, nil
}

func (s *repaymentService) buildReceipt(repaymentID string, at time.Time) domain.Receipt {
	fragment := repaymentID
	if len(fragment) > 8 {
		fragment = fragment[:8]
	}
	return domain.Receipt{
		ReceiptID:     uuid.NewString(),
		RepaymentID:   repaymentID,
		ReceiptNumber: fmt.Sprintf("REC-%d-%s", at.Unix(), fragment),
		CreatedAt:     at,
	}
}

func (s *repaymentService) audit(ctx context.Context, actorUserID, action, details string) {
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
