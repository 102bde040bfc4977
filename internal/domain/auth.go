package domain

import "time"

// IdentityClaim is the minimal set of user attributes a session token
// carries: enough to identify the caller, nothing secret.
type IdentityClaim struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session describes an issued session token's metadata.
type Session struct {
	Claim     IdentityClaim
	IssuedAt  time.Time
	ExpiresAt time.Time
}
