package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Borrower is an identity plus a financial profile. A borrower owns its
// loans; deleting a borrower cascades to everything its loans own.
type Borrower struct {
	BorrowerID    string           `json:"borrowerID"`
	Name          string           `json:"name"`
	Address       string           `json:"address,omitempty"`
	Income        *decimal.Decimal `json:"income,omitempty"`
	MonthlyIncome *decimal.Decimal `json:"monthlyIncome,omitempty"`
	CreditScore   *int             `json:"creditScore,omitempty"` // recorded, never computed here
	CreatedAt     time.Time        `json:"createdAt"`
}
