package credentials

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	awscreds "github.com/aws/aws-sdk-go/aws/credentials"
	"golang.org/x/sync/singleflight"

	"github.com/petgateway/petgateway/pkg/model"
	"github.com/petgateway/petgateway/pkg/task"
)

const (
	// DefaultExpiryWindow refreshes credentials this long before they expire.
	DefaultExpiryWindow = time.Minute
	// DefaultRefreshTimeout bounds the login made by Retrieve.
	DefaultRefreshTimeout = 30 * time.Second
)

// SessionProvider holds a username and password and the session credentials
// obtained for them. Reads never observe a partial update. Explicit
// exchanges are not serialized: the last successful one wins. Refreshes
// started by Retrieve are shared by concurrent callers.
type SessionProvider struct {
	username  string
	password  string
	exchanger Exchanger

	expiryWindow   time.Duration
	refreshTimeout time.Duration
	now            func() time.Time
	logger         *slog.Logger

	refresh singleflight.Group

	mu         sync.RWMutex
	creds      model.Credentials
	identityID string
	token      string
}

// Option configures a SessionProvider.
type Option func(*SessionProvider)

// WithExpiryWindow sets how long before expiration the credentials count as
// expired.
func WithExpiryWindow(d time.Duration) Option {
	return func(p *SessionProvider) { p.expiryWindow = d }
}

// WithRefreshTimeout bounds the login Retrieve performs on its own.
func WithRefreshTimeout(d time.Duration) Option {
	return func(p *SessionProvider) { p.refreshTimeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *SessionProvider) { p.logger = l }
}

// NewSessionProvider creates a provider for username and password that
// exchanges them through ex.
func NewSessionProvider(username, password string, ex Exchanger, opts ...Option) (*SessionProvider, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrMissingUsername
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrMissingPassword
	}
	if ex == nil {
		return nil, ErrMissingExchanger
	}

	p := &SessionProvider{
		username:       username,
		password:       password,
		exchanger:      ex,
		expiryWindow:   DefaultExpiryWindow,
		refreshTimeout: DefaultRefreshTimeout,
		now:            time.Now,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Username returns the username the provider was created with.
func (p *SessionProvider) Username() string {
	return p.username
}

// RegisterUser registers the user with the gateway and stores the session
// credentials it answers with. A registration answer without credentials is
// followed by one login. On failure the stored state is left untouched.
func (p *SessionProvider) RegisterUser(ctx context.Context) error {
	resp, err := p.exchanger.UsersPost(ctx, p.request())
	if err != nil {
		return err
	}

	if resp.Credentials.Complete() {
		p.store(*resp.Credentials, resp.IdentityID, resp.Token)
		p.logger.Debug("registered user", slog.String("username", p.username))
		return nil
	}

	p.logger.Warn("registration returned no credentials, logging in",
		slog.String("username", p.username),
	)
	return p.Login(ctx)
}

// RegisterUserAsync runs RegisterUser in the background. The task yields the
// credentials stored by the exchange.
func (p *SessionProvider) RegisterUserAsync(ctx context.Context) *task.Task[model.Credentials] {
	return task.Go(ctx, func(ctx context.Context) (model.Credentials, error) {
		if err := p.RegisterUser(ctx); err != nil {
			return model.Credentials{}, err
		}
		return p.Credentials(), nil
	})
}

// Login exchanges the username and password of an existing user for fresh
// session credentials. On failure the stored state is left untouched.
func (p *SessionProvider) Login(ctx context.Context) error {
	resp, err := p.exchanger.LoginPost(ctx, p.request())
	if err != nil {
		return err
	}
	if !resp.Credentials.Complete() {
		return ErrNoCredentialsIssued
	}

	p.store(*resp.Credentials, resp.IdentityID, resp.Token)
	p.logger.Debug("logged in", slog.String("username", p.username))
	return nil
}

// Retrieve returns the stored credentials, logging in first when there are
// none yet or they have expired.
func (p *SessionProvider) Retrieve() (awscreds.Value, error) {
	if p.IsExpired() {
		_, err, _ := p.refresh.Do("login", func() (any, error) {
			if !p.IsExpired() {
				return nil, nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), p.refreshTimeout)
			defer cancel()
			return nil, p.Login(ctx)
		})
		if err != nil {
			return awscreds.Value{ProviderName: SessionProviderName}, err
		}
	}

	return toValue(p.Credentials(), SessionProviderName), nil
}

// IsExpired reports whether the credentials are missing or within the expiry
// window of their expiration.
func (p *SessionProvider) IsExpired() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.creds.Complete() {
		return true
	}
	exp := p.creds.ExpiresAt()
	if exp.IsZero() {
		return false
	}
	return !p.now().Add(p.expiryWindow).Before(exp)
}

// Credentials returns a copy of the stored bundle.
func (p *SessionProvider) Credentials() model.Credentials {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.creds
}

// AccessKey returns the access key id.
func (p *SessionProvider) AccessKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.creds.AccessKey
}

// SecretKey returns the secret access key.
func (p *SessionProvider) SecretKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.creds.SecretKey
}

// SessionKey returns the session token.
func (p *SessionProvider) SessionKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.creds.SessionToken
}

// Expiration returns when the credentials expire.
func (p *SessionProvider) Expiration() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.creds.ExpiresAt()
}

// IdentityID returns the identity id assigned by the gateway.
func (p *SessionProvider) IdentityID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.identityID
}

// Token returns the identity token issued with the credentials.
func (p *SessionProvider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *SessionProvider) request() *model.RegisterUserRequest {
	return &model.RegisterUserRequest{
		Username: p.username,
		Password: p.password,
	}
}

func (p *SessionProvider) store(c model.Credentials, identityID, token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds = c
	p.identityID = identityID
	p.token = token
}
