package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanActive   LoanStatus = "active"
	LoanRejected LoanStatus = "rejected"
	LoanClosed   LoanStatus = "closed"
)

// CanTransitionTo reports whether a loan may move from its current status to
// target. pending may become active or rejected; active may become closed;
// rejected and closed are terminal.
func (s LoanStatus) CanTransitionTo(target LoanStatus) bool {
	switch s {
	case LoanPending:
		return target == LoanActive || target == LoanRejected
	case LoanActive:
		return target == LoanClosed
	default:
		return false
	}
}

// Loan is the aggregate root of the lending core. It owns its collaterals,
// repayments and ledger entries; all mutations to the aggregate are
// serialized per loan by the persistence layer.
type Loan struct {
	LoanID       string           `json:"loanID"`
	BorrowerID   string           `json:"borrowerID"`
	LoanTypeID   *string          `json:"loanTypeID,omitempty"` // nil skips product-limit validation
	Principal    decimal.Decimal  `json:"principal"`
	InterestRate float64          `json:"interestRate"` // annual percent, e.g. 12.5
	TermMonths   int              `json:"termMonths"`
	DisbursedOn  *time.Time       `json:"disbursedOn,omitempty"`
	Status       LoanStatus       `json:"status"`
	Outstanding  *decimal.Decimal `json:"outstanding,omitempty"` // set iff status is active or closed
	CreatedAt    time.Time        `json:"createdAt"`

	Collaterals   []Collateral  `json:"collaterals,omitempty"`
	LedgerEntries []LedgerEntry `json:"ledgerEntries,omitempty"`
}
