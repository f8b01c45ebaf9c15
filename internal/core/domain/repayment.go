package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepaymentStatus is the state of a single scheduled installment.
type RepaymentStatus string

const (
	RepaymentDue     RepaymentStatus = "due"
	RepaymentPartial RepaymentStatus = "partial"
	RepaymentPaid    RepaymentStatus = "paid"
	// RepaymentOverdue is set only by the time-based sweep; any payment
	// clears it back to partial or paid.
	RepaymentOverdue RepaymentStatus = "overdue"
)

// Repayment is one installment of a loan's amortization schedule. PaidAmount
// accumulates across partial payments; PaidOn records the most recent payment
// event.
type Repayment struct {
	RepaymentID string          `json:"repaymentID"`
	LoanID      string          `json:"loanID"`
	DueDate     time.Time       `json:"dueDate"`
	Amount      decimal.Decimal `json:"amount"` // scheduled installment
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	PaidOn      *time.Time      `json:"paidOn,omitempty"`
	Status      RepaymentStatus `json:"status"`
}

// DeriveStatus returns the status implied by the paid amount: paid once the
// cumulative payment covers the scheduled amount, partial otherwise.
func (r Repayment) DeriveStatus() RepaymentStatus {
	if r.PaidAmount.GreaterThanOrEqual(r.Amount) {
		return RepaymentPaid
	}
	return RepaymentPartial
}
