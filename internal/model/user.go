// Package model defines domain entities for the gateway backend.
package model

import "time"

// User is a registered account. IdentityID is assigned by the identity
// broker on first use and never changes afterwards.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize
	IdentityID   string    `json:"identity_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasIdentity reports whether the broker has assigned an identity.
func (u *User) HasIdentity() bool {
	return u.IdentityID != ""
}

// Identity is what the identity broker issues for a user: a stable identity
// id and a short lived OpenID token proving it.
type Identity struct {
	IdentityID  string
	OpenIDToken string
}
