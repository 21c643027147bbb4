// Package credentials provides the session credentials used to sign calls to
// the pet gateway. Each credential source is its own Provider variant:
// SessionProvider exchanges a username and password with the gateway,
// StaticProvider serves a pre-built bundle.
package credentials

import (
	"context"
	"errors"
	"time"

	awscreds "github.com/aws/aws-sdk-go/aws/credentials"

	"github.com/petgateway/petgateway/pkg/model"
)

// Provider names reported in credentials values.
const (
	SessionProviderName = "PetGatewaySessionProvider"
	StaticProviderName  = "PetGatewayStaticProvider"
)

var (
	// ErrMissingUsername is returned when a session provider gets no username.
	ErrMissingUsername = errors.New("credentials: username is required")
	// ErrMissingPassword is returned when a session provider gets no password.
	ErrMissingPassword = errors.New("credentials: password is required")
	// ErrMissingExchanger is returned when a session provider gets no exchanger.
	ErrMissingExchanger = errors.New("credentials: exchanger is required")
	// ErrEmptyBundle is returned for a bundle without access or secret key.
	ErrEmptyBundle = errors.New("credentials: bundle has no access key or secret key")
	// ErrBundleExpired is returned by a static provider past its expiration.
	ErrBundleExpired = errors.New("credentials: bundle has expired")
	// ErrNoCredentialsIssued is returned when a login answer carries no
	// credentials.
	ErrNoCredentialsIssued = errors.New("credentials: gateway issued no credentials")
)

// Provider is a source of session credentials. It satisfies the AWS SDK
// provider contract so it can back a SigV4 signer directly.
type Provider interface {
	awscreds.Provider

	// AccessKey, SecretKey and SessionKey are empty and Expiration is the
	// zero time until credentials have been obtained.
	AccessKey() string
	SecretKey() string
	SessionKey() string
	Expiration() time.Time
}

// Exchanger performs the remote calls that trade a username and password for
// session credentials. *client.Client satisfies it.
type Exchanger interface {
	UsersPost(ctx context.Context, body *model.RegisterUserRequest) (*model.RegisterUserResponse, error)
	LoginPost(ctx context.Context, body *model.RegisterUserRequest) (*model.LoginUserResponse, error)
}

func toValue(c model.Credentials, providerName string) awscreds.Value {
	return awscreds.Value{
		AccessKeyID:     c.AccessKey,
		SecretAccessKey: c.SecretKey,
		SessionToken:    c.SessionToken,
		ProviderName:    providerName,
	}
}
