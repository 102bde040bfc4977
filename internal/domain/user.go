package domain

import "time"

// User is the domain model for a registered toolbox account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claim projects the user into the identity claim embedded in session
// tokens. The password hash never crosses this boundary.
func (u *User) Claim() IdentityClaim {
	return IdentityClaim{ID: u.ID, Name: u.Name, Email: u.Email}
}
