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

type PgxLoanTypeRepository struct {
	BaseRepository
}

// newPgxLoanTypeRepository creates a new repository for the product catalog.
func newPgxLoanTypeRepository(pool *pgxpool.Pool) portsrepo.LoanTypeRepositoryFacade {
	return &PgxLoanTypeRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxLoanTypeRepository implements portsrepo.LoanTypeRepositoryFacade
var _ portsrepo.LoanTypeRepositoryFacade = (*PgxLoanTypeRepository)(nil)

// FindLoanTypeByID retrieves one catalog entry.
func (r *PgxLoanTypeRepository) FindLoanTypeByID(ctx context.Context, loanTypeID string) (*domain.LoanType, error) {
	query := `
		SELECT loan_type_id, name, max_amount, max_tenure_months, base_interest_rate
		FROM loan_types
		WHERE loan_type_id = $1;
	`
	var m models.LoanType
	err := r.Pool.QueryRow(ctx, query, loanTypeID).Scan(
		&m.LoanTypeID,
		&m.Name,
		&m.MaxAmount,
		&m.MaxTenureMonths,
		&m.BaseInterestRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query loan type %s: %w", loanTypeID, err)
	}
	loanType := mapping.ToDomainLoanType(m)
	return &loanType, nil
}

// ListLoanTypes retrieves the full catalog ordered by name.
func (r *PgxLoanTypeRepository) ListLoanTypes(ctx context.Context) ([]domain.LoanType, error) {
	query := `
		SELECT loan_type_id, name, max_amount, max_tenure_months, base_interest_rate
		FROM loan_types
		ORDER BY name ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan types: %w", err)
	}
	defer rows.Close()

	var types []domain.LoanType
	for rows.Next() {
		var m models.LoanType
		if err := rows.Scan(&m.LoanTypeID, &m.Name, &m.MaxAmount, &m.MaxTenureMonths, &m.BaseInterestRate); err != nil {
			return nil, fmt.Errorf("failed to scan loan type row: %w", err)
		}
		types = append(types, mapping.ToDomainLoanType(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading loan type rows: %w", err)
	}
	return types, nil
}

// CreateLoanType inserts a catalog entry.
func (r *PgxLoanTypeRepository) CreateLoanType(ctx context.Context, loanType domain.LoanType) error {
	m := mapping.ToModelLoanType(loanType)
	query := `
		INSERT INTO loan_types (loan_type_id, name, max_amount, max_tenure_months, base_interest_rate)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, m.LoanTypeID, m.Name, m.MaxAmount, m.MaxTenureMonths, m.BaseInterestRate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: loan type %s already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to insert loan type %s: %w", m.LoanTypeID, err)
	}
	return nil
}
