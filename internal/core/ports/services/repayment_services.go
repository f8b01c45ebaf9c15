package services

import (
	"context"
	"time"

	"github.com/karofin/loan_management_app/internal/core/domain"
	"github.com/karofin/loan_management_app/internal/dto"
)

// RepaymentSvcFacade exposes payment application and receipt retrieval.
type RepaymentSvcFacade interface {
	// PayRepayment applies a positive payment amount to a repayment,
	// recomputes the owning loan's outstanding balance, posts a ledger entry
	// and issues a receipt on first payment, atomically per loan.
	PayRepayment(ctx context.Context, repaymentID string, req dto.PayRepaymentRequest, actorUserID string) (*domain.Repayment, error)

	// ListRepaymentsForLoan retrieves a loan's schedule ordered by due date.
	ListRepaymentsForLoan(ctx context.Context, loanID string) ([]domain.Repayment, error)

	// GetReceipt returns the receipt for a repayment, creating a missing one
	// for already-paid repayments (self-heal) and failing with
	// ErrNoReceiptAvailable when nothing has been paid.
	GetReceipt(ctx context.Context, repaymentID string) (*domain.Receipt, error)

	// SweepOverdue marks past-due unpaid repayments as overdue. Driven by the
	// scheduler, never by the payment path.
	SweepOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
