package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karofin/loan_management_app/internal/apperrors"
	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	"github.com/karofin/loan_management_app/internal/models"
	"github.com/karofin/loan_management_app/internal/utils/mapping"
)

const repaymentColumns = `repayment_id, loan_id, due_date, amount, paid_amount, paid_on, status`

type PgxRepaymentRepository struct {
	BaseRepository
}

// newPgxRepaymentRepository creates a new repository for repayment and
// receipt data.
func newPgxRepaymentRepository(pool *pgxpool.Pool) portsrepo.RepaymentRepositoryWithTx {
	return &PgxRepaymentRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxRepaymentRepository implements portsrepo.RepaymentRepositoryWithTx
var _ portsrepo.RepaymentRepositoryWithTx = (*PgxRepaymentRepository)(nil)

func scanRepayment(row pgx.Row) (*models.Repayment, error) {
	var m models.Repayment
	err := row.Scan(
		&m.RepaymentID,
		&m.LoanID,
		&m.DueDate,
		&m.Amount,
		&m.PaidAmount,
		&m.PaidOn,
		&m.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindRepaymentByID retrieves a single repayment.
func (r *PgxRepaymentRepository) FindRepaymentByID(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
	query := `SELECT ` + repaymentColumns + ` FROM repayments WHERE repayment_id = $1;`
	m, err := scanRepayment(r.Pool.QueryRow(ctx, query, repaymentID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query repayment %s: %w", repaymentID, err)
	}
	rp := mapping.ToDomainRepayment(*m)
	return &rp, nil
}

// FindRepaymentByIDForUpdate locks the repayment row for the life of tx.
func (r *PgxRepaymentRepository) FindRepaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, repaymentID string) (*domain.Repayment, error) {
	query := `SELECT ` + repaymentColumns + ` FROM repayments WHERE repayment_id = $1 FOR UPDATE;`
	m, err := scanRepayment(tx.QueryRow(ctx, query, repaymentID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock repayment %s: %w", repaymentID, err)
	}
	rp := mapping.ToDomainRepayment(*m)
	return &rp, nil
}

// ListRepaymentsByLoan retrieves a loan's schedule ordered by due date.
func (r *PgxRepaymentRepository) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	query := `SELECT ` + repaymentColumns + ` FROM repayments WHERE loan_id = $1 ORDER BY due_date ASC;`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query repayments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var repayments []models.Repayment
	for rows.Next() {
		m, err := scanRepayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repayment row: %w", err)
		}
		repayments = append(repayments, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading repayment rows: %w", err)
	}
	return mapping.ToDomainRepaymentSlice(repayments), nil
}

// UpdateRepaymentInTx writes the payment fields of a locked repayment row.
func (r *PgxRepaymentRepository) UpdateRepaymentInTx(ctx context.Context, tx pgx.Tx, repayment domain.Repayment) error {
	m := mapping.ToModelRepayment(repayment)
	query := `
		UPDATE repayments
		SET paid_amount = $2, paid_on = $3, status = $4
		WHERE repayment_id = $1;
	`
	tag, err := tx.Exec(ctx, query, m.RepaymentID, m.PaidAmount, m.PaidOn, m.Status)
	if err != nil {
		return fmt.Errorf("failed to update repayment %s: %w", m.RepaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: repayment %s", apperrors.ErrNotFound, m.RepaymentID)
	}
	return nil
}

// MarkOverdue flags unpaid repayments whose due date passed before asOf. One
// statement, no per-row round trips.
func (r *PgxRepaymentRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE repayments
		SET status = 'overdue'
		WHERE status = 'due' AND due_date < $1;
	`
	tag, err := r.Pool.Exec(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue repayments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// FindReceiptByRepaymentID retrieves the receipt for a repayment.
func (r *PgxRepaymentRepository) FindReceiptByRepaymentID(ctx context.Context, repaymentID string) (*domain.Receipt, error) {
	query := `
		SELECT receipt_id, repayment_id, receipt_number, created_at
		FROM receipts
		WHERE repayment_id = $1;
	`
	var m models.Receipt
	err := r.Pool.QueryRow(ctx, query, repaymentID).Scan(&m.ReceiptID, &m.RepaymentID, &m.ReceiptNumber, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query receipt for repayment %s: %w", repaymentID, err)
	}
	receipt := mapping.ToDomainReceipt(m)
	return &receipt, nil
}

// CreateReceiptInTx inserts a receipt within tx.
func (r *PgxRepaymentRepository) CreateReceiptInTx(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error {
	return r.insertReceipt(ctx, tx, receipt)
}

// CreateReceipt inserts a receipt outside any caller transaction. Used by the
// self-heal path.
func (r *PgxRepaymentRepository) CreateReceipt(ctx context.Context, receipt domain.Receipt) error {
	return r.insertReceipt(ctx, r.Pool, receipt)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *PgxRepaymentRepository) insertReceipt(ctx context.Context, db execer, receipt domain.Receipt) error {
	query := `
		INSERT INTO receipts (receipt_id, repayment_id, receipt_number, created_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := db.Exec(ctx, query, receipt.ReceiptID, receipt.RepaymentID, receipt.ReceiptNumber, receipt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The UNIQUE(repayment_id) constraint makes concurrent self-heals
			// converge on one receipt.
			return fmt.Errorf("%w: receipt for repayment %s already exists", apperrors.ErrDuplicate, receipt.RepaymentID)
		}
		return fmt.Errorf("failed to insert receipt for repayment %s: %w", receipt.RepaymentID, err)
	}
	return nil
}
