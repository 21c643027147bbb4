package model

import "time"

// RegisterUserRequest is the body of POST /users and POST /login.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credentials is a session credentials bundle. Expiration is in epoch
// milliseconds.
type Credentials struct {
	AccessKey    string `json:"accessKey"`
	SecretKey    string `json:"secretKey"`
	SessionToken string `json:"sessionToken"`
	Expiration   int64  `json:"expiration"`
}

// ExpiresAt converts Expiration to a time. The zero time means no expiration
// was supplied.
func (c *Credentials) ExpiresAt() time.Time {
	if c == nil || c.Expiration == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.Expiration)
}

// Complete reports whether the bundle carries an access key and secret key.
func (c *Credentials) Complete() bool {
	return c != nil && c.AccessKey != "" && c.SecretKey != ""
}

// RegisterUserResponse is the body returned by POST /users. Credentials may be
// nil when the user was stored but session credentials could not be issued.
type RegisterUserResponse struct {
	Username    string       `json:"username"`
	IdentityID  string       `json:"identityId"`
	Token       string       `json:"token"`
	Credentials *Credentials `json:"credentials,omitempty"`
}

// LoginUserResponse is the body returned by POST /login.
type LoginUserResponse struct {
	IdentityID  string       `json:"identityId"`
	Token       string       `json:"token"`
	Credentials *Credentials `json:"credentials,omitempty"`
}

// Error is the error payload returned by the gateway on any non-2xx answer.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned by the gateway.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUsernameTaken    = "USERNAME_TAKEN"
	CodeIdentityError    = "IDENTITY_ERROR"
	CodePetNotFound      = "PET_NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeSignatureExpired = "SIGNATURE_EXPIRED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	CodeInternalError    = "INTERNAL_ERROR"
)
