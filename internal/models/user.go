package models

import "time"

// User is the persisted shape of a users row.
type User struct {
	UserID       string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// AuditLog is the persisted shape of an audit_logs row.
type AuditLog struct {
	AuditLogID string
	UserID     *string
	Action     string
	Details    string
	Timestamp  time.Time
}
