package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType mirrors domain.LedgerEntryType at the persistence boundary.
type LedgerEntryType string

const (
	LedgerDisbursement LedgerEntryType = "disbursement"
	LedgerRepayment    LedgerEntryType = "repayment"
	LedgerPenalty      LedgerEntryType = "penalty"
)

// LedgerEntry is the persisted shape of a ledger row. Rows are append-only.
type LedgerEntry struct {
	EntryID      string
	LoanID       string
	Type         LedgerEntryType
	Amount       decimal.Decimal
	Date         time.Time
	BalanceAfter decimal.Decimal
}
