package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/karofin/loan_management_app/internal/apperrors"
	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/core/services"
	"github.com/karofin/loan_management_app/internal/dto"
)

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

var _ portsrepo.LoanRepositoryWithTx = (*MockLoanRepository)(nil)

func (m *MockLoanRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLoanRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLoanRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindLoanByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansByBorrower(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) CreateLoan(ctx context.Context, loan domain.Loan, collaterals []domain.Collateral) error {
	args := m.Called(ctx, loan, collaterals)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLoanStateInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error {
	args := m.Called(ctx, tx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) SaveRepaymentScheduleInTx(ctx context.Context, tx pgx.Tx, repayments []domain.Repayment) error {
	args := m.Called(ctx, tx, repayments)
	return args.Error(0)
}

func (m *MockLoanRepository) ListLedgerEntries(ctx context.Context, loanID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLoanRepository) PostLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// --- Mock LoanTypeService ---
type MockLoanTypeService struct {
	mock.Mock
}

var _ portssvc.LoanTypeSvcFacade = (*MockLoanTypeService)(nil)

func (m *MockLoanTypeService) GetLoanTypeByID(ctx context.Context, loanTypeID string) (*domain.LoanType, error) {
	args := m.Called(ctx, loanTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanType), args.Error(1)
}

func (m *MockLoanTypeService) ListLoanTypes(ctx context.Context) ([]domain.LoanType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanType), args.Error(1)
}

func (m *MockLoanTypeService) CreateLoanType(ctx context.Context, loanType domain.LoanType) (*domain.LoanType, error) {
	args := m.Called(ctx, loanType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanType), args.Error(1)
}

// --- Mock BorrowerRepository ---
type MockBorrowerRepository struct {
	mock.Mock
}

var _ portsrepo.BorrowerRepositoryFacade = (*MockBorrowerRepository)(nil)

func (m *MockBorrowerRepository) CreateBorrower(ctx context.Context, borrower domain.Borrower) error {
	args := m.Called(ctx, borrower)
	return args.Error(0)
}

func (m *MockBorrowerRepository) FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}

func (m *MockBorrowerRepository) ListBorrowers(ctx context.Context, offset, limit int) ([]domain.Borrower, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Borrower), args.Error(1)
}

func (m *MockBorrowerRepository) DeleteBorrower(ctx context.Context, borrowerID string) error {
	args := m.Called(ctx, borrowerID)
	return args.Error(0)
}

// --- Mock AuditLogRepository ---
type MockAuditLogRepository struct {
	mock.Mock
}

var _ portsrepo.AuditLogRepositoryFacade = (*MockAuditLogRepository)(nil)

func (m *MockAuditLogRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Test Suite ---
type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo     *MockLoanRepository
	mockLoanTypeSvc  *MockLoanTypeService
	mockBorrowerRepo *MockBorrowerRepository
	mockAuditRepo    *MockAuditLogRepository
	service          portssvc.LoanSvcFacade

	now        time.Time
	actorID    string
	borrowerID string
}

func (s *LoanServiceTestSuite) SetupTest() {
	s.mockLoanRepo = new(MockLoanRepository)
	s.mockLoanTypeSvc = new(MockLoanTypeService)
	s.mockBorrowerRepo = new(MockBorrowerRepository)
	s.mockAuditRepo = new(MockAuditLogRepository)
	s.now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	s.service = services.NewLoanService(
		s.mockLoanRepo, s.mockLoanTypeSvc, s.mockBorrowerRepo, s.mockAuditRepo,
		func() time.Time { return s.now },
	)
	s.actorID = uuid.NewString()
	s.borrowerID = uuid.NewString()
}

func (s *LoanServiceTestSuite) applyRequest() dto.ApplyLoanRequest {
	return dto.ApplyLoanRequest{
		BorrowerID:   s.borrowerID,
		Principal:    decimal.RequireFromString("12000"),
		InterestRate: 12.0,
		TermMonths:   12,
	}
}

func (s *LoanServiceTestSuite) expectBorrowerExists() {
	s.mockBorrowerRepo.On("FindBorrowerByID", mock.Anything, s.borrowerID).
		Return(&domain.Borrower{BorrowerID: s.borrowerID, Name: "Asha"}, nil).Once()
}

func (s *LoanServiceTestSuite) TestApplyLoan_Success() {
	ctx := context.Background()
	s.expectBorrowerExists()
	s.mockLoanRepo.On("CreateLoan", mock.Anything, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("[]domain.Collateral")).Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.AnythingOfType("domain.AuditLog")).Return(nil).Once()

	loan, err := s.service.ApplyLoan(ctx, s.applyRequest(), s.actorID)

	s.Require().NoError(err)
	s.Require().NotNil(loan)
	s.NotEmpty(loan.LoanID)
	s.Equal(domain.LoanPending, loan.Status)
	s.Nil(loan.DisbursedOn)
	s.Nil(loan.Outstanding)
	s.True(loan.Principal.Equal(decimal.RequireFromString("12000")))
	s.mockLoanRepo.AssertExpectations(s.T())
}

func (s *LoanServiceTestSuite) TestApplyLoan_CollateralsGetIDs() {
	ctx := context.Background()
	s.expectBorrowerExists()
	var saved []domain.Collateral
	s.mockLoanRepo.On("CreateLoan", mock.Anything, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("[]domain.Collateral")).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]domain.Collateral) }).
		Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.Anything).Return(nil).Once()

	req := s.applyRequest()
	req.Collaterals = []dto.CollateralRequest{
		{Type: "gold", Value: decimal.RequireFromString("5000.555"), Description: "22k chain"},
	}

	loan, err := s.service.ApplyLoan(ctx, req, s.actorID)

	s.Require().NoError(err)
	s.Require().Len(saved, 1)
	s.NotEmpty(saved[0].CollateralID)
	s.Equal(loan.LoanID, saved[0].LoanID)
	s.True(saved[0].Value.Equal(decimal.RequireFromString("5000.56")))
}

func (s *LoanServiceTestSuite) TestApplyLoan_RejectsNonPositivePrincipal() {
	req := s.applyRequest()
	req.Principal = decimal.Zero

	_, err := s.service.ApplyLoan(context.Background(), req, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLoanRepo.AssertNotCalled(s.T(), "CreateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LoanServiceTestSuite) TestApplyLoan_RejectsNegativeRate() {
	req := s.applyRequest()
	req.InterestRate = -1.0

	_, err := s.service.ApplyLoan(context.Background(), req, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LoanServiceTestSuite) TestApplyLoan_UnknownBorrower() {
	s.mockBorrowerRepo.On("FindBorrowerByID", mock.Anything, s.borrowerID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.ApplyLoan(context.Background(), s.applyRequest(), s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LoanServiceTestSuite) TestApplyLoan_UnknownLoanType() {
	s.expectBorrowerExists()
	typeID := uuid.NewString()
	s.mockLoanTypeSvc.On("GetLoanTypeByID", mock.Anything, typeID).
		Return(nil, apperrors.ErrNotFound).Once()

	req := s.applyRequest()
	req.LoanTypeID = &typeID

	_, err := s.service.ApplyLoan(context.Background(), req, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.mockLoanRepo.AssertNotCalled(s.T(), "CreateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LoanServiceTestSuite) TestApplyLoan_PrincipalOverTypeLimit() {
	s.expectBorrowerExists()
	typeID := uuid.NewString()
	s.mockLoanTypeSvc.On("GetLoanTypeByID", mock.Anything, typeID).
		Return(&domain.LoanType{
			LoanTypeID:      typeID,
			Name:            "Personal",
			MaxAmount:       decimal.RequireFromString("50000"),
			MaxTenureMonths: 36,
		}, nil).Once()

	req := s.applyRequest()
	req.LoanTypeID = &typeID
	req.Principal = decimal.RequireFromString("50000.01")

	_, err := s.service.ApplyLoan(context.Background(), req, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "maximum amount")
	s.Contains(err.Error(), "Personal")
}

func (s *LoanServiceTestSuite) TestApplyLoan_TenureOverTypeLimit() {
	s.expectBorrowerExists()
	typeID := uuid.NewString()
	s.mockLoanTypeSvc.On("GetLoanTypeByID", mock.Anything, typeID).
		Return(&domain.LoanType{
			LoanTypeID:      typeID,
			Name:            "Gold",
			MaxAmount:       decimal.RequireFromString("100000"),
			MaxTenureMonths: 24,
		}, nil).Once()

	req := s.applyRequest()
	req.LoanTypeID = &typeID
	req.TermMonths = 25

	_, err := s.service.ApplyLoan(context.Background(), req, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "maximum tenure")
}

func (s *LoanServiceTestSuite) TestApplyLoan_AtTypeLimitsPasses() {
	s.expectBorrowerExists()
	typeID := uuid.NewString()
	s.mockLoanTypeSvc.On("GetLoanTypeByID", mock.Anything, typeID).
		Return(&domain.LoanType{
			LoanTypeID:      typeID,
			Name:            "Personal",
			MaxAmount:       decimal.RequireFromString("50000"),
			MaxTenureMonths: 36,
		}, nil).Once()
	s.mockLoanRepo.On("CreateLoan", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.Anything).Return(nil).Once()

	req := s.applyRequest()
	req.LoanTypeID = &typeID
	req.Principal = decimal.RequireFromString("50000")
	req.TermMonths = 36

	loan, err := s.service.ApplyLoan(context.Background(), req, s.actorID)

	s.Require().NoError(err)
	s.Equal(domain.LoanPending, loan.Status)
}

func (s *LoanServiceTestSuite) pendingLoan() *domain.Loan {
	return &domain.Loan{
		LoanID:       uuid.NewString(),
		BorrowerID:   s.borrowerID,
		Principal:    decimal.RequireFromString("12000"),
		InterestRate: 12.0,
		TermMonths:   12,
		Status:       domain.LoanPending,
		CreatedAt:    s.now.AddDate(0, 0, -1),
	}
}

func (s *LoanServiceTestSuite) TestApproveLoan_Success() {
	ctx := context.Background()
	loan := s.pendingLoan()

	s.mockLoanRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockLoanRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("FindLoanByIDForUpdate", mock.Anything, mock.Anything, loan.LoanID).Return(loan, nil).Once()

	var updated domain.Loan
	s.mockLoanRepo.On("UpdateLoanStateInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Loan")).
		Run(func(args mock.Arguments) { updated = args.Get(2).(domain.Loan) }).
		Return(nil).Once()

	var entry domain.LedgerEntry
	s.mockLoanRepo.On("PostLedgerEntryInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) { entry = args.Get(2).(domain.LedgerEntry) }).
		Return(nil).Once()

	var schedule []domain.Repayment
	s.mockLoanRepo.On("SaveRepaymentScheduleInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.Repayment")).
		Run(func(args mock.Arguments) { schedule = args.Get(2).([]domain.Repayment) }).
		Return(nil).Once()

	s.mockLoanRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.service.ApproveLoan(ctx, loan.LoanID, s.actorID)

	s.Require().NoError(err)
	s.Equal(domain.LoanActive, result.Status)
	s.Require().NotNil(result.DisbursedOn)
	s.Equal(s.now, *result.DisbursedOn)
	s.Require().NotNil(result.Outstanding)
	s.True(result.Outstanding.Equal(decimal.RequireFromString("12000")))

	s.Equal(domain.LoanActive, updated.Status)

	s.Equal(domain.LedgerDisbursement, entry.Type)
	s.True(entry.Amount.Equal(decimal.RequireFromString("12000")))
	s.True(entry.BalanceAfter.Equal(decimal.RequireFromString("12000")))

	s.Require().Len(schedule, 12)
	for i, rp := range schedule {
		s.Equal(domain.RepaymentDue, rp.Status)
		s.True(rp.PaidAmount.IsZero())
		s.Equal(s.now.AddDate(0, i+1, 0), rp.DueDate)
		s.NotEmpty(rp.RepaymentID)
	}
	// 12000 at 12% over 12 months amortizes to 1066.19 per installment.
	s.True(schedule[0].Amount.Equal(decimal.RequireFromString("1066.19")))

	// Total scheduled payments cover principal plus interest.
	total := decimal.Zero
	for _, rp := range schedule {
		total = total.Add(rp.Amount)
	}
	s.True(total.GreaterThanOrEqual(decimal.RequireFromString("12000")))

	s.mockLoanRepo.AssertExpectations(s.T())
}

func (s *LoanServiceTestSuite) TestApproveLoan_AlreadyActive() {
	loan := s.pendingLoan()
	loan.Status = domain.LoanActive

	s.mockLoanRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockLoanRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("FindLoanByIDForUpdate", mock.Anything, mock.Anything, loan.LoanID).Return(loan, nil).Once()

	_, err := s.service.ApproveLoan(context.Background(), loan.LoanID, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrInvalidStateTransition)
	s.mockLoanRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.mockLoanRepo.AssertNotCalled(s.T(), "SaveRepaymentScheduleInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LoanServiceTestSuite) TestApproveLoan_RejectedIsTerminal() {
	loan := s.pendingLoan()
	loan.Status = domain.LoanRejected

	s.mockLoanRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockLoanRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("FindLoanByIDForUpdate", mock.Anything, mock.Anything, loan.LoanID).Return(loan, nil).Once()

	_, err := s.service.ApproveLoan(context.Background(), loan.LoanID, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrInvalidStateTransition)
}

func (s *LoanServiceTestSuite) TestApproveLoan_NotFound() {
	loanID := uuid.NewString()
	s.mockLoanRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockLoanRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("FindLoanByIDForUpdate", mock.Anything, mock.Anything, loanID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.ApproveLoan(context.Background(), loanID, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LoanServiceTestSuite) TestRejectLoan_Success() {
	loan := s.pendingLoan()

	s.mockLoanRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockLoanRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("FindLoanByIDForUpdate", mock.Anything, mock.Anything, loan.LoanID).Return(loan, nil).Once()
	s.mockLoanRepo.On("UpdateLoanStateInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(l domain.Loan) bool {
		return l.Status == domain.LoanRejected
	})).Return(nil).Once()
	s.mockLoanRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.service.RejectLoan(context.Background(), loan.LoanID, s.actorID)

	s.Require().NoError(err)
	s.Equal(domain.LoanRejected, result.Status)
	s.Nil(result.DisbursedOn)
	s.mockLoanRepo.AssertExpectations(s.T())
}

func (s *LoanServiceTestSuite) TestRejectLoan_ClosedIsTerminal() {
	loan := s.pendingLoan()
	loan.Status = domain.LoanClosed

	s.mockLoanRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockLoanRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("FindLoanByIDForUpdate", mock.Anything, mock.Anything, loan.LoanID).Return(loan, nil).Once()

	_, err := s.service.RejectLoan(context.Background(), loan.LoanID, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrInvalidStateTransition)
}

func (s *LoanServiceTestSuite) TestGetLoanByID_NotFound() {
	loanID := uuid.NewString()
	s.mockLoanRepo.On("FindLoanByID", mock.Anything, loanID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GetLoanByID(context.Background(), loanID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LoanServiceTestSuite) TestAuditFailureDoesNotFailOperation() {
	s.expectBorrowerExists()
	s.mockLoanRepo.On("CreateLoan", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.Anything).Return(apperrors.ErrInternal).Once()

	_, err := s.service.ApplyLoan(context.Background(), s.applyRequest(), s.actorID)

	s.Require().NoError(err)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
