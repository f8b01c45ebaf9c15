package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Borrower is the persisted shape of a borrowers row.
type Borrower struct {
	BorrowerID    string
	Name          string
	Address       string
	Income        *decimal.Decimal
	MonthlyIncome *decimal.Decimal
	CreditScore   *int
	CreatedAt     time.Time
}
