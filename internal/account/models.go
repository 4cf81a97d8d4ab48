package account

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two principal actors. It is resolved once at the
// HTTP boundary and threaded through as a typed parameter; nothing downstream
// re-derives it from strings.
type Role string

const (
	RoleUser Role = "user"
	RoleHost Role = "host"
)

// ParseRole converts an untrusted string (token claim, request field) into a
// Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleHost:
		return RoleHost, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Table returns the backing table for the role's accounts.
func (r Role) Table() string {
	if r == RoleHost {
		return "host_details"
	}
	return "user_details"
}

// Account is one registered identity, user or host. The password hash and the
// pending OTP never leave the service; JSON tags match the API responses.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`

	// InviteCode is set for hosts only, generated at signup. It is handed to
	// participants out of band; nothing in this service consumes it.
	InviteCode string `json:"inviteCode,omitempty"`

	Verified bool `json:"verified"`

	OTPCode      sql.NullString `json:"-"`
	OTPExpiresAt sql.NullTime   `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// HasPendingOTP reports whether an OTP was issued and not yet consumed.
// Expiry is the caller's concern.
func (a *Account) HasPendingOTP() bool {
	return a.OTPCode.Valid && a.OTPExpiresAt.Valid
}
