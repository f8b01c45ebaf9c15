package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus mirrors domain.LoanStatus at the persistence boundary.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanActive   LoanStatus = "active"
	LoanRejected LoanStatus = "rejected"
	LoanClosed   LoanStatus = "closed"
)

// Loan is the persisted shape of a loan row.
type Loan struct {
	LoanID       string
	BorrowerID   string
	LoanTypeID   *string
	Principal    decimal.Decimal
	InterestRate float64
	TermMonths   int
	DisbursedOn  *time.Time
	Status       LoanStatus
	Outstanding  *decimal.Decimal
	CreatedAt    time.Time
}

// LoanType is the persisted shape of a loan_types row.
type LoanType struct {
	LoanTypeID       string
	Name             string
	MaxAmount        decimal.Decimal
	MaxTenureMonths  int
	BaseInterestRate float64
}

// Collateral is the persisted shape of a collateral row.
type Collateral struct {
	CollateralID string
	LoanID       string
	Type         string
	Value        decimal.Decimal
	Description  string
	SubmittedOn  time.Time
}
