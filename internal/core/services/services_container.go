package services

import (
	"github.com/redis/go-redis/v9"

	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
)

// NewServiceContainer creates the service container with properly initialized
// dependencies. cache may be nil when Redis is not configured; the services
// fall back to uncached reads.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cache *redis.Client) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Loan type service first since the loan service validates against it.
	container.LoanType = NewLoanTypeService(repos.LoanTypeRepo, cache)

	container.Loan = NewLoanService(repos.LoanRepo, container.LoanType, repos.BorrowerRepo, repos.AuditRepo, nil)
	container.Repayment = NewRepaymentService(repos.RepaymentRepo, repos.LoanRepo, repos.AuditRepo, nil)
	container.Borrower = NewBorrowerService(repos.BorrowerRepo, repos.AuditRepo, nil)
	container.User = NewUserService(repos.UserRepo, repos.AuditRepo, nil)
	container.Reporting = NewReportingService(repos.ReportingRepo, cache)

	return container
}
