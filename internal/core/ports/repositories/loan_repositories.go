package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// LoanReader defines read operations for loan data.
type LoanReader interface {
	// FindLoanByID retrieves a loan with its collaterals and ledger entries.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// FindLoanByIDForUpdate retrieves a loan within tx, locking its row until
	// the transaction ends. This is the per-loan critical section: approval
	// and repayment against the same loan serialize here while different
	// loans proceed in parallel.
	FindLoanByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID string) (*domain.Loan, error)

	// ListLoans retrieves all loans, newest first.
	ListLoans(ctx context.Context) ([]domain.Loan, error)

	// ListLoansByBorrower retrieves the loans owned by one borrower.
	ListLoansByBorrower(ctx context.Context, borrowerID string) ([]domain.Loan, error)
}

// LoanWriter defines write operations for loan data.
type LoanWriter interface {
	// CreateLoan persists a new pending loan together with its collaterals.
	CreateLoan(ctx context.Context, loan domain.Loan, collaterals []domain.Collateral) error

	// UpdateLoanStateInTx writes the loan's status, disbursement timestamp and
	// outstanding balance within tx. The caller must hold the row lock.
	UpdateLoanStateInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error

	// SaveRepaymentScheduleInTx inserts the materialized schedule rows within tx.
	SaveRepaymentScheduleInTx(ctx context.Context, tx pgx.Tx, repayments []domain.Repayment) error
}

// LedgerReader defines read operations for the loan ledger.
type LedgerReader interface {
	// ListLedgerEntries retrieves a loan's ledger entries in posting order.
	ListLedgerEntries(ctx context.Context, loanID string) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines write operations for the loan ledger. The ledger is
// append-only; there are no update or delete operations by design of the
// audit trail.
type LedgerWriter interface {
	// PostLedgerEntryInTx appends one ledger entry within tx.
	PostLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces.
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
	LedgerReader
	LedgerWriter
}

// LoanRepositoryWithTx extends LoanRepositoryFacade with transaction capabilities.
type LoanRepositoryWithTx interface {
	LoanRepositoryFacade
	TransactionManager
}
