package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karofin/loan_management_app/internal/apperrors"
	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	"github.com/karofin/loan_management_app/internal/models"
	"github.com/karofin/loan_management_app/internal/utils/mapping"
)

const loanColumns = `loan_id, borrower_id, loan_type_id, principal, interest_rate, term_months, disbursed_on, status, outstanding, created_at`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryWithTx {
	return &PgxLoanRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryWithTx
var _ portsrepo.LoanRepositoryWithTx = (*PgxLoanRepository)(nil)

func scanLoan(row pgx.Row) (*models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.BorrowerID,
		&m.LoanTypeID,
		&m.Principal,
		&m.InterestRate,
		&m.TermMonths,
		&m.DisbursedOn,
		&m.Status,
		&m.Outstanding,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CreateLoan inserts a pending loan and its collaterals in one transaction.
func (r *PgxLoanRepository) CreateLoan(ctx context.Context, loan domain.Loan, collaterals []domain.Collateral) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelLoan(loan)
	insertLoan := `
		INSERT INTO loans (loan_id, borrower_id, loan_type_id, principal, interest_rate, term_months, disbursed_on, status, outstanding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, insertLoan,
		m.LoanID,
		m.BorrowerID,
		m.LoanTypeID,
		m.Principal,
		m.InterestRate,
		m.TermMonths,
		m.DisbursedOn,
		m.Status,
		m.Outstanding,
		m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: loan with ID %s already exists", apperrors.ErrDuplicate, m.LoanID)
		}
		return fmt.Errorf("failed to insert loan %s: %w", m.LoanID, err)
	}

	if len(collaterals) > 0 {
		batch := &pgx.Batch{}
		insertCollateral := `
			INSERT INTO collateral (collateral_id, loan_id, type, value, description, submitted_on)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		for _, c := range collaterals {
			mc := mapping.ToModelCollateral(c)
			batch.Queue(insertCollateral, mc.CollateralID, mc.LoanID, mc.Type, mc.Value, mc.Description, mc.SubmittedOn)
		}
		br := tx.SendBatch(ctx, batch)
		for range collaterals {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert collateral for loan %s: %w", m.LoanID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close collateral batch for loan %s: %w", m.LoanID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindLoanByID retrieves a loan together with its collaterals and ledger.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`
	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query loan %s: %w", loanID, err)
	}
	loan := mapping.ToDomainLoan(*m)

	collaterals, err := r.listCollaterals(ctx, loanID)
	if err != nil {
		return nil, err
	}
	loan.Collaterals = collaterals

	entries, err := r.ListLedgerEntries(ctx, loanID)
	if err != nil {
		return nil, err
	}
	loan.LedgerEntries = entries

	return &loan, nil
}

// FindLoanByIDForUpdate locks the loan row for the life of tx. Approval and
// payment against the same loan serialize on this lock.
func (r *PgxLoanRepository) FindLoanByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 FOR UPDATE;`
	m, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}
	loan := mapping.ToDomainLoan(*m)
	return &loan, nil
}

func (r *PgxLoanRepository) listLoans(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		m, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, mapping.ToDomainLoan(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading loan rows: %w", err)
	}
	return loans, nil
}

// ListLoans retrieves all loans, newest first.
func (r *PgxLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC;`
	return r.listLoans(ctx, query)
}

// ListLoansByBorrower retrieves the loans owned by one borrower.
func (r *PgxLoanRepository) ListLoansByBorrower(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE borrower_id = $1 ORDER BY created_at DESC;`
	return r.listLoans(ctx, query, borrowerID)
}

// UpdateLoanStateInTx writes the lifecycle fields of a locked loan row.
func (r *PgxLoanRepository) UpdateLoanStateInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		UPDATE loans
		SET status = $2, disbursed_on = $3, outstanding = $4
		WHERE loan_id = $1;
	`
	tag, err := tx.Exec(ctx, query, m.LoanID, m.Status, m.DisbursedOn, m.Outstanding)
	if err != nil {
		return fmt.Errorf("failed to update loan %s: %w", m.LoanID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, m.LoanID)
	}
	return nil
}

// SaveRepaymentScheduleInTx inserts the materialized schedule rows.
func (r *PgxLoanRepository) SaveRepaymentScheduleInTx(ctx context.Context, tx pgx.Tx, repayments []domain.Repayment) error {
	if len(repayments) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO repayments (repayment_id, loan_id, due_date, amount, paid_amount, paid_on, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, rp := range repayments {
		m := mapping.ToModelRepayment(rp)
		batch.Queue(query, m.RepaymentID, m.LoanID, m.DueDate, m.Amount, m.PaidAmount, m.PaidOn, m.Status)
	}
	br := tx.SendBatch(ctx, batch)
	for range repayments {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert schedule row: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close schedule batch: %w", err)
	}
	return nil
}

// PostLedgerEntryInTx appends one ledger row. There is no update or delete
// counterpart anywhere in this repository.
func (r *PgxLoanRepository) PostLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger (entry_id, loan_id, type, amount, date, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.LoanID,
		models.LedgerEntryType(entry.Type),
		entry.Amount,
		entry.Date,
		entry.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry for loan %s: %w", entry.LoanID, err)
	}
	return nil
}

// ListLedgerEntries retrieves a loan's ledger in posting order.
func (r *PgxLoanRepository) ListLedgerEntries(ctx context.Context, loanID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, loan_id, type, amount, date, balance_after
		FROM ledger
		WHERE loan_id = $1
		ORDER BY date ASC, entry_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.LoanID, &m.Type, &m.Amount, &m.Date, &m.BalanceAfter); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading ledger rows: %w", err)
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

func (r *PgxLoanRepository) listCollaterals(ctx context.Context, loanID string) ([]domain.Collateral, error) {
	query := `
		SELECT collateral_id, loan_id, type, value, description, submitted_on
		FROM collateral
		WHERE loan_id = $1
		ORDER BY submitted_on ASC;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collateral for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var collaterals []domain.Collateral
	for rows.Next() {
		var m models.Collateral
		if err := rows.Scan(&m.CollateralID, &m.LoanID, &m.Type, &m.Value, &m.Description, &m.SubmittedOn); err != nil {
			return nil, fmt.Errorf("failed to scan collateral row: %w", err)
		}
		collaterals = append(collaterals, mapping.ToDomainCollateral(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading collateral rows: %w", err)
	}
	return collaterals, nil
}
