package auth

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/petgateway/petgateway/internal/model"
)

// Temporary access keys look like ASIA followed by 16 base32 characters,
// the same shape as STS session keys.
const (
	AccessKeyPrefix = "ASIA"
	accessKeyIDLen  = 16
	secretKeyBytes  = 30 // 40 base64 characters
	sessionTokenLen = 96
)

var (
	// ErrInvalidAccessKey indicates an access key that was not minted here.
	ErrInvalidAccessKey = errors.New("invalid access key format")
	// ErrInvalidTTL indicates a non-positive credential lifetime.
	ErrInvalidTTL = errors.New("credential ttl must be positive")

	accessKeyRegex = regexp.MustCompile(`^ASIA[A-Z2-7]{16}$`)
)

// GenerateSessionCredentials mints a temporary credential set for identityID
// that expires ttl after now. Expiry is truncated to milliseconds, the
// precision of the wire format.
func GenerateSessionCredentials(identityID, username string, ttl time.Duration, now time.Time) (*model.Session, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	idBytes := make([]byte, 10)
	if _, err := rand.Read(idBytes); err != nil {
		return nil, fmt.Errorf("generate access key: %w", err)
	}

	secret := make([]byte, secretKeyBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret key: %w", err)
	}

	token := make([]byte, sessionTokenLen)
	if _, err := rand.Read(token); err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	return &model.Session{
		AccessKeyID:     AccessKeyPrefix + base32.StdEncoding.EncodeToString(idBytes)[:accessKeyIDLen],
		SecretAccessKey: base64.StdEncoding.EncodeToString(secret),
		SessionToken:    base64.StdEncoding.EncodeToString(token),
		IdentityID:      identityID,
		Username:        username,
		ExpiresAt:       time.UnixMilli(now.Add(ttl).UnixMilli()),
	}, nil
}

// ValidateAccessKeyFormat checks if key has the shape of a minted access key.
func ValidateAccessKeyFormat(key string) bool {
	return accessKeyRegex.MatchString(key)
}
