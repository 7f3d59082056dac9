package entities

import (
	"crypto/subtle"
	"time"
)

// DefaultPendingRegistrationTTL is how long a half finished sign-up is kept
const DefaultPendingRegistrationTTL = 24 * time.Hour

// PendingRegistrationTokenHeader carries the claim token on GET, PUT and DELETE
const PendingRegistrationTokenHeader = "X-Registration-Token"

// PendingRegistration is profile data captured before the account exists.
// ClaimToken is handed out once by Save and must be presented to read, change or consume the draft.
type PendingRegistration struct {
	Email      string      `json:"email"`
	Role       UserRole    `json:"role"`
	Profile    ProfileSeed `json:"profile"`
	ClaimToken string      `json:"claimToken,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Claims reports whether token matches the draft's claim token
func (p *PendingRegistration) Claims(token string) bool {
	if p.ClaimToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.ClaimToken), []byte(token)) == 1
}

// Redacted is a copy without the claim token
func (p *PendingRegistration) Redacted() *PendingRegistration {
	cp := *p
	cp.ClaimToken = ""
	return &cp
}

// Expired reports whether the payload is older than ttl at now
func (p *PendingRegistration) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(p.CreatedAt.Add(ttl))
}

// SavePendingRegistrationInput is the body of PUT /registration/pending
type SavePendingRegistrationInput struct {
	Email   string      `json:"email" binding:"required,email"`
	Role    UserRole    `json:"role" binding:"required"`
	Profile ProfileSeed `json:"profile"`
}
