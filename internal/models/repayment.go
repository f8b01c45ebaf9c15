package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepaymentStatus mirrors domain.RepaymentStatus at the persistence boundary.
type RepaymentStatus string

const (
	RepaymentDue     RepaymentStatus = "due"
	RepaymentPartial RepaymentStatus = "partial"
	RepaymentPaid    RepaymentStatus = "paid"
	RepaymentOverdue RepaymentStatus = "overdue"
)

// Repayment is the persisted shape of a repayments row.
type Repayment struct {
	RepaymentID string
	LoanID      string
	DueDate     time.Time
	Amount      decimal.Decimal
	PaidAmount  decimal.Decimal
	PaidOn      *time.Time
	Status      RepaymentStatus
}

// Receipt is the persisted shape of a receipts row.
type Receipt struct {
	ReceiptID     string
	RepaymentID   string
	ReceiptNumber string
	CreatedAt     time.Time
}
