package domain

import "github.com/shopspring/decimal"

// LoanType is an immutable product template. It is referenced by loans but
// never owned by them, and is read-only at request time.
type LoanType struct {
	LoanTypeID       string          `json:"loanTypeID"`
	Name             string          `json:"name"` // unique: Personal, Gold, Vehicle, ...
	MaxAmount        decimal.Decimal `json:"maxAmount"`
	MaxTenureMonths  int             `json:"maxTenureMonths"`
	BaseInterestRate float64         `json:"baseInterestRate"` // annual percent
}
