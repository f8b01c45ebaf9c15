package domain

import "time"

// UserRole determines which operations the calling layer lets a user invoke.
// The core itself accepts only pre-authorized calls.
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleLoanOfficer UserRole = "loan_officer"
	RoleAccountant  UserRole = "accountant"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleLoanOfficer, RoleAccountant:
		return true
	}
	return false
}

// User is a staff account operating the system.
type User struct {
	UserID       string    `json:"userID"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
