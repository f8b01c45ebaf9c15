package services_test

import (
	"context"
	"strings"
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

// --- Mock RepaymentRepository ---
type MockRepaymentRepository struct {
	mock.Mock
}

var _ portsrepo.RepaymentRepositoryWithTx = (*MockRepaymentRepository)(nil)

func (m *MockRepaymentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepaymentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepaymentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepaymentRepository) FindRepaymentByID(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
	args := m.Called(ctx, repaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repayment), args.Error(1)
}

func (m *MockRepaymentRepository) FindRepaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, repaymentID string) (*domain.Repayment, error) {
	args := m.Called(ctx, tx, repaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repayment), args.Error(1)
}

func (m *MockRepaymentRepository) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repayment), args.Error(1)
}

func (m *MockRepaymentRepository) UpdateRepaymentInTx(ctx context.Context, tx pgx.Tx, repayment domain.Repayment) error {
	args := m.Called(ctx, tx, repayment)
	return args.Error(0)
}

func (m *MockRepaymentRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepaymentRepository) FindReceiptByRepaymentID(ctx context.Context, repaymentID string) (*domain.Receipt, error) {
	args := m.Called(ctx, repaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockRepaymentRepository) CreateReceiptInTx(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error {
	args := m.Called(ctx, tx, receipt)
	return args.Error(0)
}

func (m *MockRepaymentRepository) CreateReceipt(ctx context.Context, receipt domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

// --- Test Suite ---
type RepaymentServiceTestSuite struct {
	suite.Suite
	mockRepaymentRepo *MockRepaymentRepository
	mockLoanRepo      *MockLoanRepository
	mockAuditRepo     *MockAuditLogRepository
	service           portssvc.RepaymentSvcFacade

	now     time.Time
	actorID string
	loan    *domain.Loan
	rp      *domain.Repayment
}

func (s *RepaymentServiceTestSuite) SetupTest() {
	s.mockRepaymentRepo = new(MockRepaymentRepository)
	s.mockLoanRepo = new(MockLoanRepository)
	s.mockAuditRepo = new(MockAuditLogRepository)
	s.now = time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	s.service = services.NewRepaymentService(
		s.mockRepaymentRepo, s.mockLoanRepo, s.mockAuditRepo,
		func() time.Time { return s.now },
	)
	s.actorID = uuid.NewString()

	outstanding := decimal.RequireFromString("12000")
	s.loan = &domain.Loan{
		LoanID:       uuid.NewString(),
		BorrowerID:   uuid.NewString(),
		Principal:    decimal.RequireFromString("12000"),
		InterestRate: 12.0,
		TermMonths:   12,
		Status:       domain.LoanActive,
		Outstanding:  &outstanding,
	}
	s.rp = &domain.Repayment{
		RepaymentID: uuid.NewString(),
		LoanID:      s.loan.LoanID,
		DueDate:     s.now.AddDate(0, 0, 14),
		Amount:      decimal.RequireFromString("1066.19"),
		PaidAmount:  decimal.Zero,
		Status:      domain.RepaymentDue,
	}
}

// expectPaymentTx wires the transactional scaffolding shared by the happy
// path payment tests.
func (s *RepaymentServiceTestSuite) expectPaymentTx() {
	s.mockRepaymentRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockRepaymentRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockRepaymentRepo.On("FindRepaymentByIDForUpdate", mock.Anything, mock.Anything, s.rp.RepaymentID).Return(s.rp, nil).Once()
	s.mockLoanRepo.On("FindLoanByIDForUpdate", mock.Anything, mock.Anything, s.loan.LoanID).Return(s.loan, nil).Once()
	s.mockRepaymentRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (s *RepaymentServiceTestSuite) TestPayRepayment_PartialPayment() {
	s.expectPaymentTx()

	var savedRp domain.Repayment
	s.mockRepaymentRepo.On("UpdateRepaymentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Repayment")).
		Run(func(args mock.Arguments) { savedRp = args.Get(2).(domain.Repayment) }).
		Return(nil).Once()

	var savedLoan domain.Loan
	s.mockLoanRepo.On("UpdateLoanStateInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Loan")).
		Run(func(args mock.Arguments) { savedLoan = args.Get(2).(domain.Loan) }).
		Return(nil).Once()

	var entry domain.LedgerEntry
	s.mockLoanRepo.On("PostLedgerEntryInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) { entry = args.Get(2).(domain.LedgerEntry) }).
		Return(nil).Once()

	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepaymentRepo.On("CreateReceiptInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Receipt")).Return(nil).Once()

	result, err := s.service.PayRepayment(context.Background(), s.rp.RepaymentID,
		dto.PayRepaymentRequest{Amount: decimal.RequireFromString("500")}, s.actorID)

	s.Require().NoError(err)
	s.Equal(domain.RepaymentPartial, result.Status)
	s.True(result.PaidAmount.Equal(decimal.RequireFromString("500")))
	s.Require().NotNil(result.PaidOn)
	s.Equal(s.now, *result.PaidOn)

	s.Equal(domain.RepaymentPartial, savedRp.Status)
	s.Equal(domain.LoanActive, savedLoan.Status)
	s.True(savedLoan.Outstanding.Equal(decimal.RequireFromString("11500")))

	s.Equal(domain.LedgerRepayment, entry.Type)
	s.True(entry.Amount.Equal(decimal.RequireFromString("500")))
	s.True(entry.BalanceAfter.Equal(decimal.RequireFromString("11500")))
}

func (s *RepaymentServiceTestSuite) TestPayRepayment_FullInstallment() {
	s.expectPaymentTx()

	var savedRp domain.Repayment
	s.mockRepaymentRepo.On("UpdateRepaymentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Repayment")).
		Run(func(args mock.Arguments) { savedRp = args.Get(2).(domain.Repayment) }).
		Return(nil).Once()
	s.mockLoanRepo.On("UpdateLoanStateInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("PostLedgerEntryInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepaymentRepo.On("CreateReceiptInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.service.PayRepayment(context.Background(), s.rp.RepaymentID,
		dto.PayRepaymentRequest{Amount: decimal.RequireFromString("1066.19")}, s.actorID)

	s.Require().NoError(err)
	s.Equal(domain.RepaymentPaid, result.Status)
	s.Equal(domain.RepaymentPaid, savedRp.Status)
}

func (s *RepaymentServiceTestSuite) TestPayRepayment_ExactBoundaryClosesLoan() {
	remaining := decimal.RequireFromString("1066.19")
	s.loan.Outstanding = &remaining
	s.rp.PaidAmount = decimal.Zero

	s.expectPaymentTx()
	s.mockRepaymentRepo.On("UpdateRepaymentInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	var savedLoan domain.Loan
	s.mockLoanRepo.On("UpdateLoanStateInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Loan")).
		Run(func(args mock.Arguments) { savedLoan = args.Get(2).(domain.Loan) }).
		Return(nil).Once()

	var entry domain.LedgerEntry
	s.mockLoanRepo.On("PostLedgerEntryInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) { entry = args.Get(2).(domain.LedgerEntry) }).
		Return(nil).Once()
	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepaymentRepo.On("CreateReceiptInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.service.PayRepayment(context.Background(), s.rp.RepaymentID,
		dto.PayRepaymentRequest{Amount: decimal.RequireFromString("1066.19")}, s.actorID)

	s.Require().NoError(err)
	s.Equal(domain.LoanClosed, savedLoan.Status)
	s.True(savedLoan.Outstanding.IsZero())
	s.True(entry.BalanceAfter.IsZero())
}

func (s *RepaymentServiceTestSuite) TestPayRepayment_OverpaymentClampsToZero() {
	remaining := decimal.RequireFromString("100")
	s.loan.Outstanding = &remaining

	s.expectPaymentTx()
	s.mockRepaymentRepo.On("UpdateRepaymentInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	var savedLoan domain.Loan
	s.mockLoanRepo.On("UpdateLoanStateInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Loan")).
		Run(func(args mock.Arguments) { savedLoan = args.Get(2).(domain.Loan) }).
		Return(nil).Once()

	var entry domain.LedgerEntry
	s.mockLoanRepo.On("PostLedgerEntryInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) { entry = args.Get(2).(domain.LedgerEntry) }).
		Return(nil).Once()
	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepaymentRepo.On("CreateReceiptInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.service.PayRepayment(context.Background(), s.rp.RepaymentID,
		dto.PayRepaymentRequest{Amount: decimal.RequireFromString("250")}, s.actorID)

	s.Require().NoError(err)
	// Balance clamps at zero but the ledger records the full payment.
	s.True(savedLoan.Outstanding.IsZero())
	s.Equal(domain.LoanClosed, savedLoan.Status)
	s.True(entry.Amount.Equal(decimal.RequireFromString("250")))
	s.True(entry.BalanceAfter.IsZero())
}

func (s *RepaymentServiceTestSuite) TestPayRepayment_SecondPaymentKeepsReceipt() {
	s.rp.PaidAmount = decimal.RequireFromString("500")
	s.rp.Status = domain.RepaymentPartial
	paidOn := s.now.AddDate(0, 0, -3)
	s.rp.PaidOn = &paidOn

	s.expectPaymentTx()
	s.mockRepaymentRepo.On("UpdateRepaymentInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("UpdateLoanStateInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("PostLedgerEntryInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	existing := &domain.Receipt{
		ReceiptID:   uuid.NewString(),
		RepaymentID: s.rp.RepaymentID,
	}
	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(existing, nil).Once()

	result, err := s.service.PayRepayment(context.Background(), s.rp.RepaymentID,
		dto.PayRepaymentRequest{Amount: decimal.RequireFromString("566.19")}, s.actorID)

	s.Require().NoError(err)
	s.True(result.PaidAmount.Equal(decimal.RequireFromString("1066.19")))
	s.Equal(domain.RepaymentPaid, result.Status)
	s.Equal(s.now, *result.PaidOn)
	s.mockRepaymentRepo.AssertNotCalled(s.T(), "CreateReceiptInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RepaymentServiceTestSuite) TestPayRepayment_OverdueClearsOnPayment() {
	s.rp.Status = domain.RepaymentOverdue

	s.expectPaymentTx()

	var savedRp domain.Repayment
	s.mockRepaymentRepo.On("UpdateRepaymentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Repayment")).
		Run(func(args mock.Arguments) { savedRp = args.Get(2).(domain.Repayment) }).
		Return(nil).Once()
	s.mockLoanRepo.On("UpdateLoanStateInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockLoanRepo.On("PostLedgerEntryInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepaymentRepo.On("CreateReceiptInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.service.PayRepayment(context.Background(), s.rp.RepaymentID,
		dto.PayRepaymentRequest{Amount: decimal.RequireFromString("200")}, s.actorID)

	s.Require().NoError(err)
	s.Equal(domain.RepaymentPartial, savedRp.Status)
}

func (s *RepaymentServiceTestSuite) TestPayRepayment_RejectsNonPositiveAmount() {
	for _, amount := range []string{"0", "-1", "-0.01"} {
		_, err := s.service.PayRepayment(context.Background(), s.rp.RepaymentID,
			dto.PayRepaymentRequest{Amount: decimal.RequireFromString(amount)}, s.actorID)
		s.Require().Error(err, "amount %s", amount)
		s.ErrorIs(err, services.ErrInvalidAmount)
	}
	s.mockRepaymentRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *RepaymentServiceTestSuite) TestPayRepayment_UnknownRepayment() {
	s.mockRepaymentRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockRepaymentRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockRepaymentRepo.On("FindRepaymentByIDForUpdate", mock.Anything, mock.Anything, s.rp.RepaymentID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.PayRepayment(context.Background(), s.rp.RepaymentID,
		dto.PayRepaymentRequest{Amount: decimal.RequireFromString("100")}, s.actorID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RepaymentServiceTestSuite) TestGetReceipt_Existing() {
	s.rp.PaidAmount = decimal.RequireFromString("500")
	s.mockRepaymentRepo.On("FindRepaymentByID", mock.Anything, s.rp.RepaymentID).Return(s.rp, nil).Once()
	existing := &domain.Receipt{
		ReceiptID:     uuid.NewString(),
		RepaymentID:   s.rp.RepaymentID,
		ReceiptNumber: "REC-1751362200-abcdef12",
	}
	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(existing, nil).Once()

	receipt, err := s.service.GetReceipt(context.Background(), s.rp.RepaymentID)

	s.Require().NoError(err)
	s.Equal(existing.ReceiptID, receipt.ReceiptID)
	s.mockRepaymentRepo.AssertNotCalled(s.T(), "CreateReceipt", mock.Anything, mock.Anything)
}

func (s *RepaymentServiceTestSuite) TestGetReceipt_BackfillsForPaidRepayment() {
	s.rp.PaidAmount = decimal.RequireFromString("1066.19")
	s.rp.Status = domain.RepaymentPaid
	s.mockRepaymentRepo.On("FindRepaymentByID", mock.Anything, s.rp.RepaymentID).Return(s.rp, nil).Once()
	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(nil, apperrors.ErrNotFound).Once()

	var created domain.Receipt
	s.mockRepaymentRepo.On("CreateReceipt", mock.Anything, mock.AnythingOfType("domain.Receipt")).
		Run(func(args mock.Arguments) { created = args.Get(1).(domain.Receipt) }).
		Return(nil).Once()

	receipt, err := s.service.GetReceipt(context.Background(), s.rp.RepaymentID)

	s.Require().NoError(err)
	s.Equal(s.rp.RepaymentID, receipt.RepaymentID)
	s.True(strings.HasPrefix(created.ReceiptNumber, "REC-"))
	s.Contains(created.ReceiptNumber, s.rp.RepaymentID[:8])
}

func (s *RepaymentServiceTestSuite) TestGetReceipt_NothingPaid() {
	s.mockRepaymentRepo.On("FindRepaymentByID", mock.Anything, s.rp.RepaymentID).Return(s.rp, nil).Once()
	s.mockRepaymentRepo.On("FindReceiptByRepaymentID", mock.Anything, s.rp.RepaymentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GetReceipt(context.Background(), s.rp.RepaymentID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrNoReceiptAvailable)
	s.mockRepaymentRepo.AssertNotCalled(s.T(), "CreateReceipt", mock.Anything, mock.Anything)
}

func (s *RepaymentServiceTestSuite) TestGetReceipt_UnknownRepayment() {
	s.mockRepaymentRepo.On("FindRepaymentByID", mock.Anything, s.rp.RepaymentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GetReceipt(context.Background(), s.rp.RepaymentID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RepaymentServiceTestSuite) TestListRepaymentsForLoan_UnknownLoan() {
	s.mockLoanRepo.On("FindLoanByID", mock.Anything, s.loan.LoanID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.ListRepaymentsForLoan(context.Background(), s.loan.LoanID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RepaymentServiceTestSuite) TestSweepOverdue() {
	asOf := s.now
	s.mockRepaymentRepo.On("MarkOverdue", mock.Anything, asOf).Return(int64(3), nil).Once()

	flagged, err := s.service.SweepOverdue(context.Background(), asOf)

	s.Require().NoError(err)
	s.Equal(int64(3), flagged)
}

func TestRepaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RepaymentServiceTestSuite))
}
