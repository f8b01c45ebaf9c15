package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LoanRepo:      newPgxLoanRepository(dbPool),
		LoanTypeRepo:  newPgxLoanTypeRepository(dbPool),
		RepaymentRepo: newPgxRepaymentRepository(dbPool),
		BorrowerRepo:  newPgxBorrowerRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		AuditRepo:     newPgxAuditLogRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}
