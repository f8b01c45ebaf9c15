package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karofin/loan_management_app/internal/apperrors"
	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	"github.com/karofin/loan_management_app/internal/models"
	"github.com/karofin/loan_management_app/internal/utils/mapping"
)

type PgxBorrowerRepository struct {
	BaseRepository
}

// newPgxBorrowerRepository creates a new repository for borrower data.
func newPgxBorrowerRepository(pool *pgxpool.Pool) portsrepo.BorrowerRepositoryFacade {
	return &PgxBorrowerRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxBorrowerRepository implements portsrepo.BorrowerRepositoryFacade
var _ portsrepo.BorrowerRepositoryFacade = (*PgxBorrowerRepository)(nil)

// CreateBorrower inserts a new borrower.
func (r *PgxBorrowerRepository) CreateBorrower(ctx context.Context, borrower domain.Borrower) error {
	m := mapping.ToModelBorrower(borrower)
	query := `
		INSERT INTO borrowers (borrower_id, name, address, income, monthly_income, credit_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BorrowerID,
		m.Name,
		m.Address,
		m.Income,
		m.MonthlyIncome,
		m.CreditScore,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert borrower %s: %w", m.BorrowerID, err)
	}
	return nil
}

// FindBorrowerByID retrieves a borrower by ID.
func (r *PgxBorrowerRepository) FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	query := `
		SELECT borrower_id, name, address, income, monthly_income, credit_score, created_at
		FROM borrowers
		WHERE borrower_id = $1;
	`
	var m models.Borrower
	err := r.Pool.QueryRow(ctx, query, borrowerID).Scan(
		&m.BorrowerID,
		&m.Name,
		&m.Address,
		&m.Income,
		&m.MonthlyIncome,
		&m.CreditScore,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query borrower %s: %w", borrowerID, err)
	}
	borrower := mapping.ToDomainBorrower(m)
	return &borrower, nil
}

// ListBorrowers retrieves a page of borrowers ordered by creation time.
func (r *PgxBorrowerRepository) ListBorrowers(ctx context.Context, offset, limit int) ([]domain.Borrower, error) {
	query := `
		SELECT borrower_id, name, address, income, monthly_income, credit_score, created_at
		FROM borrowers
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query borrowers: %w", err)
	}
	defer rows.Close()

	var borrowers []domain.Borrower
	for rows.Next() {
		var m models.Borrower
		if err := rows.Scan(&m.BorrowerID, &m.Name, &m.Address, &m.Income, &m.MonthlyIncome, &m.CreditScore, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan borrower row: %w", err)
		}
		borrowers = append(borrowers, mapping.ToDomainBorrower(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading borrower rows: %w", err)
	}
	return borrowers, nil
}

// DeleteBorrower removes a borrower. The schema's ON DELETE CASCADE takes
// the borrower's loans, collaterals, repayments, receipts and ledger rows.
func (r *PgxBorrowerRepository) DeleteBorrower(ctx context.Context, borrowerID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM borrowers WHERE borrower_id = $1;`, borrowerID)
	if err != nil {
		return fmt.Errorf("failed to delete borrower %s: %w", borrowerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, borrowerID)
	}
	return nil
}
