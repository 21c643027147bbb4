// Package identity issues identities and temporary credentials to users,
// playing the part of a developer-authenticated identity pool.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/petgateway/petgateway/internal/auth"
	"github.com/petgateway/petgateway/internal/model"
)

// DefaultTokenTTL is the lifetime of an OpenID token. The token is only used
// to obtain credentials right after it is issued.
const DefaultTokenTTL = 10 * time.Minute

var (
	// ErrInvalidUser indicates a user without username or identity.
	ErrInvalidUser = errors.New("invalid user")
	// ErrInvalidToken indicates an OpenID token that does not prove the identity.
	ErrInvalidToken = errors.New("invalid identity token")
)

// Broker issues identities and session credentials.
type Broker interface {
	// GetUserIdentity returns the user's identity id, assigning one on first
	// use, and an OpenID token for it.
	GetUserIdentity(ctx context.Context, user *model.User) (*model.Identity, error)
	// GetUserCredentials exchanges an identity and its token for temporary
	// credentials.
	GetUserCredentials(ctx context.Context, user *model.User, id *model.Identity) (*model.Session, error)
}

// SessionSaver persists issued sessions until they expire.
type SessionSaver interface {
	SaveSession(ctx context.Context, s *model.Session) error
}

// Config configures a LocalBroker.
type Config struct {
	Region         string
	PoolID         string
	ProviderName   string
	SigningKey     []byte
	CredentialsTTL time.Duration
	TokenTTL       time.Duration
}

// LocalBroker is a self-contained Broker. Identity ids are <region>:<uuid>,
// tokens are HS256 JWTs and credentials are minted locally.
type LocalBroker struct {
	cfg      Config
	sessions SessionSaver
	logger   *slog.Logger
	now      func() time.Time
}

// NewLocalBroker creates a LocalBroker.
func NewLocalBroker(cfg Config, sessions SessionSaver, logger *slog.Logger) (*LocalBroker, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("identity: signing key is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.CredentialsTTL <= 0 {
		cfg.CredentialsTTL = time.Hour
	}
	return &LocalBroker{
		cfg:      cfg,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// GetUserIdentity implements Broker. An existing identity id is reused.
func (b *LocalBroker) GetUserIdentity(_ context.Context, user *model.User) (*model.Identity, error) {
	if user == nil || strings.TrimSpace(user.Username) == "" {
		return nil, ErrInvalidUser
	}

	identityID := user.IdentityID
	if !user.HasIdentity() {
		identityID = b.cfg.Region + ":" + uuid.NewString()
	}

	now := b.now()
	claims := jwt.MapClaims{
		"sub":   identityID,
		"iss":   b.cfg.PoolID,
		"aud":   b.cfg.ProviderName,
		"login": user.Username,
		"iat":   now.Unix(),
		"exp":   now.Add(b.cfg.TokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.cfg.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("sign identity token: %w", err)
	}

	return &model.Identity{IdentityID: identityID, OpenIDToken: token}, nil
}

// GetUserCredentials implements Broker. The token must have been issued by
// this broker for the same identity.
func (b *LocalBroker) GetUserCredentials(ctx context.Context, user *model.User, id *model.Identity) (*model.Session, error) {
	if user == nil || id == nil || strings.TrimSpace(id.IdentityID) == "" {
		return nil, ErrInvalidUser
	}

	if err := b.verifyToken(id); err != nil {
		return nil, err
	}

	session, err := auth.GenerateSessionCredentials(id.IdentityID, user.Username, b.cfg.CredentialsTTL, b.now())
	if err != nil {
		return nil, fmt.Errorf("mint credentials: %w", err)
	}

	if err := b.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	b.logger.Debug("credentials issued",
		slog.String("identity_id", id.IdentityID),
		slog.String("access_key_id", session.AccessKeyID),
		slog.Time("expires_at", session.ExpiresAt),
	)

	return session, nil
}

func (b *LocalBroker) verifyToken(id *model.Identity) error {
	parsed, err := jwt.Parse(id.OpenIDToken,
		func(*jwt.Token) (any, error) { return b.cfg.SigningKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(b.cfg.PoolID),
		jwt.WithAudience(b.cfg.ProviderName),
		jwt.WithSubject(id.IdentityID),
		jwt.WithTimeFunc(b.now),
	)
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
