package domain

import "time"

// Receipt is issued on the first payment against a repayment and is immutable
// afterwards. At most one receipt exists per repayment.
type Receipt struct {
	ReceiptID     string    `json:"receiptID"`
	RepaymentID   string    `json:"repaymentID"`
	ReceiptNumber string    `json:"receiptNumber"` // unique, REC-<unix>-<fragment>
	CreatedAt     time.Time `json:"createdAt"`
}
