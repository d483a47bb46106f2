// Package models contains the domain structures shared by the service layer
// and the storage layer: users, organizations, sessions, packages, purchases
// and chat messages.
package models

import "time"

// User represents an end user of a Sionyx organization.
//
// TimeBalanceSeconds and PrintBalance are the prepaid balances the kiosk
// consumes; both are kept non-negative by the storage layer.
type User struct {
	UID                string     // Unique user identifier (uuid)
	OrgID              string     // Organization the user belongs to
	Phone              string     // Login phone number (unique per org)
	FirstName          string     // First name
	LastName           string     // Last name
	Email              string     // Contact email
	PasswordHash       string     // bcrypt hash of the password
	Role               string     // "user" or "admin"
	TimeBalanceSeconds int        // Remaining prepaid computer time
	PrintBalance       int        // Remaining prepaid print credits
	CreatedAt          time.Time  // Registration time
	LastSeenAt         *time.Time // Last successful login, nil if never
}

// FullName joins the first and last name for display and email templates.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserProfile is the JSON shape of a user returned by the API. It never
// carries the password hash.
type UserProfile struct {
	UID                string     `json:"uid"`
	Phone              string     `json:"phone"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	TimeBalanceSeconds int        `json:"time_balance_seconds"`
	PrintBalance       int        `json:"print_balance"`
	CreatedAt          time.Time  `json:"created_at"`
	LastSeenAt         *time.Time `json:"last_seen_at,omitempty"`
}

// NewUserProfile converts a stored user to its API shape.
func NewUserProfile(u *User) UserProfile {
	return UserProfile{
		UID:                u.UID,
		Phone:              u.Phone,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Email:              u.Email,
		Role:               u.Role,
		TimeBalanceSeconds: u.TimeBalanceSeconds,
		PrintBalance:       u.PrintBalance,
		CreatedAt:          u.CreatedAt,
		LastSeenAt:         u.LastSeenAt,
	}
}

// BalanceAdjustment is the delta an admin applies to a user's balances.
// Either field may be negative; the storage layer clamps the result at zero.
type BalanceAdjustment struct {
	TimeSeconds int `json:"time_seconds"`
	Prints      int `json:"prints"`
}
