package model

import "time"

// StaffUser is a member of staff allowed to operate terminals.  Roles
// gate the HTTP surface: WAITER for day-to-day order taking, MANAGER for
// everything a waiter can do plus cancellations.
//
// Fields:
//
//	ID           – primary key identifier.
//	Username     – login name, unique.
//	PasswordHash – bcrypt hash of the password.
//	DisplayName  – name shown on tickets and in notifications.
//	Role         – staff role (WAITER, MANAGER).
//	IsActive     – whether the account may log in.
//	CreatedAt    – creation timestamp.
type StaffUser struct {
	ID           uint64    `json:"id"`           // staff_users.id
	Username     string    `json:"username"`     // staff_users.username
	PasswordHash string    `json:"-"`            // staff_users.password_hash
	DisplayName  string    `json:"display_name"` // staff_users.display_name
	Role         string    `json:"role"`         // staff_users.role
	IsActive     bool      `json:"is_active"`    // staff_users.is_active
	CreatedAt    time.Time `json:"-"`            // staff_users.created_at
}
