package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/karofin/loan_management_app/internal/apperrors"
	"github.com/karofin/loan_management_app/internal/core/domain"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/core/services"
	"github.com/karofin/loan_management_app/internal/dto"
	"github.com/karofin/loan_management_app/internal/middleware"
	"github.com/karofin/loan_management_app/internal/repositories/database/pgsql"
	"github.com/karofin/loan_management_app/pkg/config"
	"github.com/karofin/loan_management_app/pkg/database"
)

// Seeds the staff accounts, the loan product catalog and a small demo
// dataset. Safe to re-run: already-seeded rows are skipped.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	ctx := middleware.WithLogger(context.Background(), logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(repos, nil)

	seedUsers(ctx, logger, container.User)
	seedLoanTypes(ctx, logger, container.LoanType)
	seedDemoData(ctx, logger, container)

	logger.Info("Seeding complete")
}

func seedUsers(ctx context.Context, logger *slog.Logger, userSvc portssvc.UserSvcFacade) {
	users := []dto.CreateUserRequest{
		{Username: "admin", Password: "admin123secure", Role: string(domain.RoleAdmin)},
		{Username: "officer", Password: "officer123secure", Role: string(domain.RoleLoanOfficer)},
		{Username: "accountant", Password: "accountant123secure", Role: string(domain.RoleAccountant)},
	}
	for _, u := range users {
		if _, err := userSvc.CreateUser(ctx, u, ""); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				logger.Info("User already seeded", slog.String("username", u.Username))
				continue
			}
			logger.Error("Failed to seed user", slog.String("username", u.Username), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Seeded user", slog.String("username", u.Username), slog.String("role", u.Role))
	}
}

func seedLoanTypes(ctx context.Context, logger *slog.Logger, loanTypeSvc portssvc.LoanTypeSvcFacade) {
	existing, err := loanTypeSvc.ListLoanTypes(ctx)
	if err != nil {
		logger.Error("Failed to list loan types", slog.String("error", err.Error()))
		os.Exit(1)
	}
	seeded := make(map[string]bool, len(existing))
	for _, t := range existing {
		seeded[t.Name] = true
	}

	catalog := []domain.LoanType{
		{Name: "Personal Loan", MaxAmount: decimal.RequireFromString("50000"), MaxTenureMonths: 36, BaseInterestRate: 12.5},
		{Name: "Gold Loan", MaxAmount: decimal.RequireFromString("100000"), MaxTenureMonths: 24, BaseInterestRate: 10.0},
		{Name: "Vehicle Loan", MaxAmount: decimal.RequireFromString("500000"), MaxTenureMonths: 60, BaseInterestRate: 9.5},
		{Name: "Home Loan", MaxAmount: decimal.RequireFromString("2000000"), MaxTenureMonths: 240, BaseInterestRate: 8.0},
	}
	for _, t := range catalog {
		if seeded[t.Name] {
			logger.Info("Loan type already seeded", slog.String("name", t.Name))
			continue
		}
		created, err := loanTypeSvc.CreateLoanType(ctx, t)
		if err != nil {
			logger.Error("Failed to seed loan type", slog.String("name", t.Name), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Seeded loan type", slog.String("name", created.Name), slog.String("loan_type_id", created.LoanTypeID))
	}
}

// seedDemoData walks one loan through its lifecycle so a fresh install has
// something to look at: a borrower, an approved personal loan and one paid
// installment. Skipped entirely once any borrower exists.
func seedDemoData(ctx context.Context, logger *slog.Logger, container *portssvc.ServiceContainer) {
	existing, err := container.Borrower.ListBorrowers(ctx, 0, 1)
	if err != nil {
		logger.Error("Failed to list borrowers", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(existing) > 0 {
		logger.Info("Demo data already seeded")
		return
	}

	income := decimal.RequireFromString("45000")
	borrower, err := container.Borrower.CreateBorrower(ctx, dto.CreateBorrowerRequest{
		Name:          "Ravi Kumar",
		Address:       "12 MG Road, Bengaluru",
		MonthlyIncome: &income,
	}, "")
	if err != nil {
		logger.Error("Failed to seed borrower", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Seeded borrower", slog.String("borrower_id", borrower.BorrowerID))

	var personalTypeID *string
	types, err := container.LoanType.ListLoanTypes(ctx)
	if err != nil {
		logger.Error("Failed to list loan types", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for i := range types {
		if types[i].Name == "Personal Loan" {
			personalTypeID = &types[i].LoanTypeID
			break
		}
	}

	loan, err := container.Loan.ApplyLoan(ctx, dto.ApplyLoanRequest{
		BorrowerID:   borrower.BorrowerID,
		LoanTypeID:   personalTypeID,
		Principal:    decimal.RequireFromString("12000"),
		InterestRate: 12.0,
		TermMonths:   12,
	}, "")
	if err != nil {
		logger.Error("Failed to seed loan application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loan, err = container.Loan.ApproveLoan(ctx, loan.LoanID, "")
	if err != nil {
		logger.Error("Failed to approve seeded loan", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Seeded active loan", slog.String("loan_id", loan.LoanID))

	schedule, err := container.Repayment.ListRepaymentsForLoan(ctx, loan.LoanID)
	if err != nil || len(schedule) == 0 {
		logger.Error("Failed to load seeded schedule", slog.String("loan_id", loan.LoanID))
		os.Exit(1)
	}
	first := schedule[0]
	if _, err := container.Repayment.PayRepayment(ctx, first.RepaymentID, dto.PayRepaymentRequest{Amount: first.Amount}, ""); err != nil {
		logger.Error("Failed to pay seeded installment", slog.String("repayment_id", first.RepaymentID), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Seeded first installment payment", slog.String("repayment_id", first.RepaymentID))
}
