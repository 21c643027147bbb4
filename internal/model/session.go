package model

import (
	"strconv"
	"time"
)

// Session holds temporary credentials issued to an identity. The access key
// is the lookup key used when verifying signed requests.
type Session struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	IdentityID      string
	Username        string
	ExpiresAt       time.Time
}

// IsExpired reports whether the session is no longer usable at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// CachedSession is the Redis hash form of a Session.
// The access key is part of the key, not the hash.
type CachedSession struct {
	SecretAccessKey string `redis:"secret_access_key"`
	SessionToken    string `redis:"session_token"`
	IdentityID      string `redis:"identity_id"`
	Username        string `redis:"username"`
	ExpiresAt       string `redis:"expires_at"` // Unix milliseconds
}

// ToCachedSession converts a Session to its cached form.
func (s *Session) ToCachedSession() *CachedSession {
	return &CachedSession{
		SecretAccessKey: s.SecretAccessKey,
		SessionToken:    s.SessionToken,
		IdentityID:      s.IdentityID,
		Username:        s.Username,
		ExpiresAt:       strconv.FormatInt(s.ExpiresAt.UnixMilli(), 10),
	}
}

// ToSession converts the cached form back. A malformed expiration yields an
// already expired session.
func (c *CachedSession) ToSession(accessKeyID string) *Session {
	s := &Session{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
		IdentityID:      c.IdentityID,
		Username:        c.Username,
	}

	if ms, err := strconv.ParseInt(c.ExpiresAt, 10, 64); err == nil {
		s.ExpiresAt = time.UnixMilli(ms)
	}

	return s
}
