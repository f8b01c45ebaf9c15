package mapping

import (
	"github.com/karofin/loan_management_app/internal/core/domain"
	"github.com/karofin/loan_management_app/internal/models"
)

// ToModelBorrower converts a domain Borrower to a model Borrower.
func ToModelBorrower(d domain.Borrower) models.Borrower {
	return models.Borrower{
		BorrowerID:    d.BorrowerID,
		Name:          d.Name,
		Address:       d.Address,
		Income:        d.Income,
		MonthlyIncome: d.MonthlyIncome,
		CreditScore:   d.CreditScore,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainBorrower converts a model Borrower to a domain Borrower.
func ToDomainBorrower(m models.Borrower) domain.Borrower {
	return domain.Borrower{
		BorrowerID:    m.BorrowerID,
		Name:          m.Name,
		Address:       m.Address,
		Income:        m.Income,
		MonthlyIncome: m.MonthlyIncome,
		CreditScore:   m.CreditScore,
		CreatedAt:     m.CreatedAt,
	}
}
