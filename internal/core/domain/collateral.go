package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collateral is an asset pledged against a single loan.
type Collateral struct {
	CollateralID string          `json:"collateralID"`
	LoanID       string          `json:"loanID"`
	Type         string          `json:"type"` // Property, Vehicle, Gold, ...
	Value        decimal.Decimal `json:"value"`
	Description  string          `json:"description,omitempty"`
	SubmittedOn  time.Time       `json:"submittedOn"`
}
