package mapping

import (
	"github.com/karofin/loan_management_app/internal/core/domain"
	"github.com/karofin/loan_management_app/internal/models"
)

// ToModelRepayment converts a domain Repayment to a model Repayment.
func ToModelRepayment(d domain.Repayment) models.Repayment {
	return models.Repayment{
		RepaymentID: d.RepaymentID,
		LoanID:      d.LoanID,
		DueDate:     d.DueDate,
		Amount:      d.Amount,
		PaidAmount:  d.PaidAmount,
		PaidOn:      d.PaidOn,
		Status:      models.RepaymentStatus(d.Status),
	}
}

// ToDomainRepayment converts a model Repayment to a domain Repayment.
func ToDomainRepayment(m models.Repayment) domain.Repayment {
	return domain.Repayment{
		RepaymentID: m.RepaymentID,
		LoanID:      m.LoanID,
		DueDate:     m.DueDate,
		Amount:      m.Amount,
		PaidAmount:  m.PaidAmount,
		PaidOn:      m.PaidOn,
		Status:      domain.RepaymentStatus(m.Status),
	}
}

// ToDomainRepaymentSlice converts a slice of model Repayments.
func ToDomainRepaymentSlice(ms []models.Repayment) []domain.Repayment {
	ds := make([]domain.Repayment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRepayment(m)
	}
	return ds
}

// ToDomainReceipt converts a model Receipt to a domain Receipt.
func ToDomainReceipt(m models.Receipt) domain.Receipt {
	return domain.Receipt{
		ReceiptID:     m.ReceiptID,
		RepaymentID:   m.RepaymentID,
		ReceiptNumber: m.ReceiptNumber,
		CreatedAt:     m.CreatedAt,
	}
}
