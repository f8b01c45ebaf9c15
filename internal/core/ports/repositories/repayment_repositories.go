package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// RepaymentReader defines read operations for repayment data.
type RepaymentReader interface {
	// FindRepaymentByID retrieves a single repayment.
	FindRepaymentByID(ctx context.Context, repaymentID string) (*domain.Repayment, error)

	// FindRepaymentByIDForUpdate retrieves a repayment within tx, locking its
	// row until the transaction ends.
	FindRepaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, repaymentID string) (*domain.Repayment, error)

	// ListRepaymentsByLoan retrieves a loan's repayments ordered by due date.
	ListRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error)
}

// RepaymentWriter defines write operations for repayment data.
type RepaymentWriter interface {
	// UpdateRepaymentInTx writes the repayment's paid amount, timestamp and
	// status within tx. The caller must hold the owning loan's row lock.
	UpdateRepaymentInTx(ctx context.Context, tx pgx.Tx, repayment domain.Repayment) error

	// MarkOverdue flags unpaid repayments whose due date passed before asOf as
	// overdue. Returns the number of rows flagged. Invoked by the scheduler
	// sweep, never by the payment path.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// ReceiptReader defines read operations for receipts.
type ReceiptReader interface {
	// FindReceiptByRepaymentID retrieves the receipt for a repayment, or
	// apperrors.ErrNotFound when none exists.
	FindReceiptByRepaymentID(ctx context.Context, repaymentID string) (*domain.Receipt, error)
}

// ReceiptWriter defines write operations for receipts. Receipts are immutable
// once created.
type ReceiptWriter interface {
	// CreateReceiptInTx inserts a receipt within tx.
	CreateReceiptInTx(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error

	// CreateReceipt inserts a receipt outside any caller transaction. Used by
	// the lazy self-heal path when a paid repayment is missing its receipt.
	CreateReceipt(ctx context.Context, receipt domain.Receipt) error
}

// RepaymentRepositoryFacade combines all repayment-related repository interfaces.
type RepaymentRepositoryFacade interface {
	RepaymentReader
	RepaymentWriter
	ReceiptReader
	ReceiptWriter
}

// RepaymentRepositoryWithTx extends RepaymentRepositoryFacade with transaction capabilities.
type RepaymentRepositoryWithTx interface {
	RepaymentRepositoryFacade
	TransactionManager
}
