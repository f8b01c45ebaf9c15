package domain

import "time"

// AuditLog records who did what, when. Rows are append-only.
type AuditLog struct {
	AuditLogID string    `json:"auditLogID"`
	UserID     *string   `json:"userID,omitempty"`
	Action     string    `json:"action"` // e.g. CREATE_LOAN, APPROVE_LOAN
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
