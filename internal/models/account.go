package models

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "Active"
	AccountStatusInactive AccountStatus = "Inactive"
)

type Account struct {
	ID                string
	Title             string
	FirstName         string
	LastName          string
	Email             string
	PasswordHash      []byte
	Role              Role
	Status            AccountStatus
	VerificationToken *string
	VerifiedAt        *time.Time
	ResetToken        *string
	ResetTokenExpires *time.Time
	PasswordResetAt   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsVerified reports whether the account completed email verification.
func (a Account) IsVerified() bool {
	return a.VerifiedAt != nil
}

type RefreshToken struct {
	Token           string
	AccountID       string
	ExpiresAt       time.Time
	CreatedByIP     string
	CreatedAt       time.Time
	RevokedAt       *time.Time
	RevokedByIP     *string
	ReplacedByToken *string
}

func (t RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsActive reports whether the token can still mint sessions: not revoked
// and not expired. Revocation is one-way.
func (t RefreshToken) IsActive() bool {
	return t.RevokedAt == nil && !t.IsExpired()
}
