package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType classifies a balance-affecting event on a loan.
type LedgerEntryType string

const (
	LedgerDisbursement LedgerEntryType = "disbursement"
	LedgerRepayment    LedgerEntryType = "repayment"
	// LedgerPenalty entries are recorded when supplied externally; the core
	// never computes penalties itself.
	LedgerPenalty LedgerEntryType = "penalty"
)

// LedgerEntry is an append-only audit record of a balance-affecting event.
// BalanceAfter snapshots the loan's outstanding balance at posting time, so
// entries for a loan read in posting order form a consistent prefix sum.
// Entries are never edited or removed after creation.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	LoanID       string          `json:"loanID"`
	Type         LedgerEntryType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
}
