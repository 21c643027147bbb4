package credentials

import (
	"time"

	awscreds "github.com/aws/aws-sdk-go/aws/credentials"

	"github.com/petgateway/petgateway/pkg/model"
)

// StaticProvider serves a pre-built credentials bundle. It never contacts
// the gateway.
type StaticProvider struct {
	creds model.Credentials
	now   func() time.Time
}

// NewStaticProvider wraps bundle. The bundle must carry an access key and a
// secret key.
func NewStaticProvider(bundle model.Credentials) (*StaticProvider, error) {
	if !bundle.Complete() {
		return nil, ErrEmptyBundle
	}
	return &StaticProvider{creds: bundle, now: time.Now}, nil
}

// Retrieve returns the bundle, or ErrBundleExpired once it has expired.
func (p *StaticProvider) Retrieve() (awscreds.Value, error) {
	if p.IsExpired() {
		return awscreds.Value{ProviderName: StaticProviderName}, ErrBundleExpired
	}
	return toValue(p.creds, StaticProviderName), nil
}

// IsExpired reports whether the bundle's expiration has passed. A bundle
// without expiration never expires.
func (p *StaticProvider) IsExpired() bool {
	exp := p.creds.ExpiresAt()
	return !exp.IsZero() && !p.now().Before(exp)
}

// Username is always empty: a bundle carries no user.
func (p *StaticProvider) Username() string {
	return ""
}

// AccessKey returns the access key id.
func (p *StaticProvider) AccessKey() string {
	return p.creds.AccessKey
}

// SecretKey returns the secret access key.
func (p *StaticProvider) SecretKey() string {
	return p.creds.SecretKey
}

// SessionKey returns the session token.
func (p *StaticProvider) SessionKey() string {
	return p.creds.SessionToken
}

// Expiration returns the bundle's expiration, or the zero time.
func (p *StaticProvider) Expiration() time.Time {
	return p.creds.ExpiresAt()
}
