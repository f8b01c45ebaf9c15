package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karofin/loan_management_app/internal/core/domain"
)

// PayRepaymentRequest is the explicit input for the payment operation.
type PayRepaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RepaymentResponse defines the data returned for a repayment.
type RepaymentResponse struct {
	RepaymentID string          `json:"repaymentID"`
	LoanID      string          `json:"loanID"`
	DueDate     time.Time       `json:"dueDate"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	PaidOn      *time.Time      `json:"paidOn,omitempty"`
	Status      string          `json:"status"`
}

// ReceiptResponse defines the data returned for a receipt.
type ReceiptResponse struct {
	ReceiptID     string    `json:"receiptID"`
	RepaymentID   string    `json:"repaymentID"`
	ReceiptNumber string    `json:"receiptNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToRepaymentResponse converts a domain.Repayment to RepaymentResponse.
func ToRepaymentResponse(r *domain.Repayment) RepaymentResponse {
	return RepaymentResponse{
		RepaymentID: r.RepaymentID,
		LoanID:      r.LoanID,
		DueDate:     r.DueDate,
		Amount:      r.Amount,
		PaidAmount:  r.PaidAmount,
		PaidOn:      r.PaidOn,
		Status:      string(r.Status),
	}
}

// ToRepaymentResponses converts a slice of domain.Repayment to []RepaymentResponse.
func ToRepaymentResponses(repayments []domain.Repayment) []RepaymentResponse {
	responses := make([]RepaymentResponse, len(repayments))
	for i := range repayments {
		responses[i] = ToRepaymentResponse(&repayments[i])
	}
	return responses
}

// ToReceiptResponse converts a domain.Receipt to ReceiptResponse.
func ToReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID:     r.ReceiptID,
		RepaymentID:   r.RepaymentID,
		ReceiptNumber: r.ReceiptNumber,
		CreatedAt:     r.CreatedAt,
	}
}
