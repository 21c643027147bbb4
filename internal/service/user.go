package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/petgateway/petgateway/internal/auth"
	"github.com/petgateway/petgateway/internal/identity"
	"github.com/petgateway/petgateway/internal/metrics"
	"github.com/petgateway/petgateway/internal/model"
	"github.com/petgateway/petgateway/internal/repository"
)

// AuthResult is what registration and login hand back to the caller.
// Session is nil when the account exists but credentials could not be issued.
type AuthResult struct {
	User     *model.User
	Identity *model.Identity
	Session  *model.Session
}

// UserService handles registration and login.
type UserService struct {
	users   UserStore
	broker  identity.Broker
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, broker identity.Broker, logger *slog.Logger, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:   users,
		broker:  broker,
		logger:  logger,
		metrics: recorder,
	}
}

func validCredentialsInput(username, password string) bool {
	return strings.TrimSpace(username) != "" &&
		utf8.RuneCountInString(username) <= MaxUsernameLength &&
		strings.TrimSpace(password) != ""
}

// Register creates an account, assigns it an identity and issues a first set
// of session credentials.
func (s *UserService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if !validCredentialsInput(username, password) {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		return nil, ErrUsernameTaken
	case err != nil && !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := s.broker.GetUserIdentity(ctx, user)
	if err != nil {
		s.logger.Error("identity lookup failed", slog.String("username", username), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrIdentity, err)
	}
	user.IdentityID = id.IdentityID

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.metrics.IncUserRegistered()

	result := &AuthResult{User: user, Identity: id}

	session, err := s.broker.GetUserCredentials(ctx, user, id)
	if err != nil {
		// The account is stored; the client can log in to get credentials.
		s.logger.Warn("credentials not issued at registration",
			slog.String("identity_id", id.IdentityID),
			slog.String("error", err.Error()),
		)
		return result, nil
	}
	s.metrics.IncCredentialsIssued()
	result.Session = session

	return result, nil
}

// Login verifies a password and issues fresh session credentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if !validCredentialsInput(username, password) {
		s.metrics.IncLogin(metrics.LoginInvalid)
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.BurnVerify(password)
			s.metrics.IncLogin(metrics.LoginInvalid)
			return nil, ErrInvalidCredentials
		}
		s.metrics.IncLogin(metrics.LoginError)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.metrics.IncLogin(metrics.LoginError)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(metrics.LoginInvalid)
		return nil, ErrInvalidCredentials
	}

	id, err := s.broker.GetUserIdentity(ctx, user)
	if err != nil {
		s.metrics.IncLogin(metrics.LoginError)
		return nil, fmt.Errorf("%w: %v", ErrIdentity, err)
	}

	session, err := s.broker.GetUserCredentials(ctx, user, id)
	if err != nil {
		s.metrics.IncLogin(metrics.LoginError)
		return nil, fmt.Errorf("%w: %v", ErrIdentity, err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)
	s.metrics.IncCredentialsIssued()

	return &AuthResult{User: user, Identity: id, Session: session}, nil
}
