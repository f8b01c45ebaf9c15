package mapping

import (
	"github.com/karofin/loan_management_app/internal/core/domain"
	"github.com/karofin/loan_management_app/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan.
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:       d.LoanID,
		BorrowerID:   d.BorrowerID,
		LoanTypeID:   d.LoanTypeID,
		Principal:    d.Principal,
		InterestRate: d.InterestRate,
		TermMonths:   d.TermMonths,
		DisbursedOn:  d.DisbursedOn,
		Status:       models.LoanStatus(d.Status),
		Outstanding:  d.Outstanding,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainLoan converts a model Loan to a domain Loan.
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:       m.LoanID,
		BorrowerID:   m.BorrowerID,
		LoanTypeID:   m.LoanTypeID,
		Principal:    m.Principal,
		InterestRate: m.InterestRate,
		TermMonths:   m.TermMonths,
		DisbursedOn:  m.DisbursedOn,
		Status:       domain.LoanStatus(m.Status),
		Outstanding:  m.Outstanding,
		CreatedAt:    m.CreatedAt,
	}
}

// ToModelLoanType converts a domain LoanType to a model LoanType.
func ToModelLoanType(d domain.LoanType) models.LoanType {
	return models.LoanType{
		LoanTypeID:       d.LoanTypeID,
		Name:             d.Name,
		MaxAmount:        d.MaxAmount,
		MaxTenureMonths:  d.MaxTenureMonths,
		BaseInterestRate: d.BaseInterestRate,
	}
}

// ToDomainLoanType converts a model LoanType to a domain LoanType.
func ToDomainLoanType(m models.LoanType) domain.LoanType {
	return domain.LoanType{
		LoanTypeID:       m.LoanTypeID,
		Name:             m.Name,
		MaxAmount:        m.MaxAmount,
		MaxTenureMonths:  m.MaxTenureMonths,
		BaseInterestRate: m.BaseInterestRate,
	}
}

// ToModelCollateral converts a domain Collateral to a model Collateral.
func ToModelCollateral(d domain.Collateral) models.Collateral {
	return models.Collateral{
		CollateralID: d.CollateralID,
		LoanID:       d.LoanID,
		Type:         d.Type,
		Value:        d.Value,
		Description:  d.Description,
		SubmittedOn:  d.SubmittedOn,
	}
}

// ToDomainCollateral converts a model Collateral to a domain Collateral.
func ToDomainCollateral(m models.Collateral) domain.Collateral {
	return domain.Collateral{
		CollateralID: m.CollateralID,
		LoanID:       m.LoanID,
		Type:         m.Type,
		Value:        m.Value,
		Description:  m.Description,
		SubmittedOn:  m.SubmittedOn,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		LoanID:       m.LoanID,
		Type:         domain.LedgerEntryType(m.Type),
		Amount:       m.Amount,
		Date:         m.Date,
		BalanceAfter: m.BalanceAfter,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
