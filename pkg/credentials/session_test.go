package credentials

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petgateway/petgateway/pkg/model"
)

type fakeExchanger struct {
	mu        sync.Mutex
	register  *model.RegisterUserResponse
	login     *model.LoginUserResponse
	err       error
	logins    int
	registers int
	lastReq   model.RegisterUserRequest
	// gate, when set, holds every login until it is closed.
	gate chan struct{}
}

func (f *fakeExchanger) UsersPost(_ context.Context, body *model.RegisterUserRequest) (*model.RegisterUserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers++
	f.lastReq = *body
	if f.err != nil {
		return nil, f.err
	}
	return f.register, nil
}

func (f *fakeExchanger) LoginPost(_ context.Context, body *model.RegisterUserRequest) (*model.LoginUserResponse, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	f.lastReq = *body
	if f.err != nil {
		return nil, f.err
	}
	return f.login, nil
}

func bundle(ak string, exp time.Time) *model.Credentials {
	return &model.Credentials{
		AccessKey:    ak,
		SecretKey:    "secret-" + ak,
		SessionToken: "token-" + ak,
		Expiration:   exp.UnixMilli(),
	}
}

func TestNewSessionProvider_Validation(t *testing.T) {
	t.Parallel()

	ex := &fakeExchanger{}
	tests := []struct {
		name     string
		username string
		password string
		ex       Exchanger
		wantErr  error
	}{
		{"valid", "alice", "pw", ex, nil},
		{"missing username", " ", "pw", ex, ErrMissingUsername},
		{"missing password", "alice", "", ex, ErrMissingPassword},
		{"missing exchanger", "alice", "pw", nil, ErrMissingExchanger},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewSessionProvider(tt.username, tt.password, tt.ex)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSessionProvider() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionProvider_RegisterUser(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Millisecond)
	ex := &fakeExchanger{
		register: &model.RegisterUserResponse{
			Username:    "alice",
			IdentityID:  "us-east-1:abc",
			Token:       "jwt",
			Credentials: bundle("AK1", exp),
		},
	}

	p, err := NewSessionProvider("alice", "pw", ex)
	if err != nil {
		t.Fatalf("NewSessionProvider() error = %v", err)
	}

	if err := p.RegisterUser(context.Background()); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	if ex.lastReq.Username != "alice" || ex.lastReq.Password != "pw" {
		t.Errorf("request = %+v", ex.lastReq)
	}
	if p.AccessKey() != "AK1" || p.SecretKey() != "secret-AK1" || p.SessionKey() != "token-AK1" {
		t.Errorf("keys = %q/%q/%q", p.AccessKey(), p.SecretKey(), p.SessionKey())
	}
	if !p.Expiration().Equal(exp) {
		t.Errorf("Expiration() = %v, want %v", p.Expiration(), exp)
	}
	if p.Username() != "alice" || p.IdentityID() != "us-east-1:abc" || p.Token() != "jwt" {
		t.Errorf("username/identity/token = %q/%q/%q", p.Username(), p.IdentityID(), p.Token())
	}
	if ex.logins != 0 {
		t.Errorf("logins = %d, want 0", ex.logins)
	}
}

func TestSessionProvider_RegisterFallsBackToLogin(t *testing.T) {
	t.Parallel()

	ex := &fakeExchanger{
		register: &model.RegisterUserResponse{Username: "alice", IdentityID: "id"},
		login: &model.LoginUserResponse{
			IdentityID:  "id",
			Token:       "jwt",
			Credentials: bundle("AK2", time.Now().Add(time.Hour)),
		},
	}

	p, err := NewSessionProvider("alice", "pw", ex)
	if err != nil {
		t.Fatalf("NewSessionProvider() error = %v", err)
	}

	if err := p.RegisterUser(context.Background()); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if ex.registers != 1 || ex.logins != 1 {
		t.Errorf("registers/logins = %d/%d, want 1/1", ex.registers, ex.logins)
	}
	if p.AccessKey() != "AK2" {
		t.Errorf("AccessKey() = %q, want AK2", p.AccessKey())
	}
}

func TestSessionProvider_FailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	ex := &fakeExchanger{
		login: &model.LoginUserResponse{
			IdentityID:  "id",
			Credentials: bundle("AK1", time.Now().Add(time.Hour)),
		},
	}

	p, err := NewSessionProvider("alice", "pw", ex)
	if err != nil {
		t.Fatalf("NewSessionProvider() error = %v", err)
	}
	if err := p.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	before := p.Credentials()

	ex.err = errors.New("Username is taken")
	if err := p.RegisterUser(context.Background()); err == nil {
		t.Fatal("RegisterUser() error = nil, want failure")
	}
	if err := p.Login(context.Background()); err == nil {
		t.Fatal("Login() error = nil, want failure")
	}

	if p.Credentials() != before || p.IdentityID() != "id" {
		t.Errorf("state changed after failures: %+v", p.Credentials())
	}
}

func TestSessionProvider_LoginWithoutCredentials(t *testing.T) {
	t.Parallel()

	ex := &fakeExchanger{login: &model.LoginUserResponse{IdentityID: "id"}}
	p, err := NewSessionProvider("alice", "pw", ex)
	if err != nil {
		t.Fatalf("NewSessionProvider() error = %v", err)
	}

	if err := p.Login(context.Background()); !errors.Is(err, ErrNoCredentialsIssued) {
		t.Errorf("Login() error = %v, want ErrNoCredentialsIssued", err)
	}
	if p.IdentityID() != "" {
		t.Errorf("IdentityID() = %q, want empty", p.IdentityID())
	}
}

func TestSessionProvider_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		creds *model.Credentials
		want  bool
	}{
		{"no credentials", nil, true},
		{"far from expiry", bundle("AK", now.Add(time.Hour)), false},
		{"inside window", bundle("AK", now.Add(30*time.Second)), true},
		{"already expired", bundle("AK", now.Add(-time.Second)), true},
		{"no expiration", &model.Credentials{AccessKey: "AK", SecretKey: "SK"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := NewSessionProvider("alice", "pw", &fakeExchanger{})
			if err != nil {
				t.Fatalf("NewSessionProvider() error = %v", err)
			}
			p.now = func() time.Time { return now }
			if tt.creds != nil {
				p.store(*tt.creds, "id", "tok")
			}

			if got := p.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionProvider_RetrieveRefreshes(t *testing.T) {
	t.Parallel()

	ex := &fakeExchanger{
		login: &model.LoginUserResponse{
			IdentityID:  "id",
			Credentials: bundle("AK3", time.Now().Add(time.Hour)),
		},
	}
	p, err := NewSessionProvider("alice", "pw", ex)
	if err != nil {
		t.Fatalf("NewSessionProvider() error = %v", err)
	}

	v, err := p.Retrieve()
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if v.AccessKeyID != "AK3" || v.SecretAccessKey != "secret-AK3" || v.SessionToken != "token-AK3" {
		t.Errorf("Retrieve() = %+v", v)
	}
	if v.ProviderName != SessionProviderName {
		t.Errorf("ProviderName = %q, want %q", v.ProviderName, SessionProviderName)
	}

	if _, err := p.Retrieve(); err != nil {
		t.Fatalf("second Retrieve() error = %v", err)
	}
	if ex.logins != 1 {
		t.Errorf("logins = %d, want 1 while credentials are fresh", ex.logins)
	}
}

func TestSessionProvider_ConcurrentRetrieveLogsInOnce(t *testing.T) {
	t.Parallel()

	ex := &fakeExchanger{
		login: &model.LoginUserResponse{
			IdentityID:  "id",
			Credentials: bundle("AK5", time.Now().Add(time.Hour)),
		},
		gate: make(chan struct{}),
	}
	p, err := NewSessionProvider("alice", "pw", ex)
	if err != nil {
		t.Fatalf("NewSessionProvider() error = %v", err)
	}

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := p.Retrieve()
			if err == nil && v.AccessKeyID != "AK5" {
				err = errors.New("unexpected access key " + v.AccessKeyID)
			}
			errs <- err
		}()
	}
	close(ex.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Retrieve() error = %v", err)
		}
	}
	if ex.logins != 1 {
		t.Errorf("logins = %d, want 1", ex.logins)
	}
}

func TestSessionProvider_RetrieveFailure(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("gateway down")
	p, err := NewSessionProvider("alice", "pw", &fakeExchanger{err: wantErr})
	if err != nil {
		t.Fatalf("NewSessionProvider() error = %v", err)
	}

	if _, err := p.Retrieve(); !errors.Is(err, wantErr) {
		t.Errorf("Retrieve() error = %v, want %v", err, wantErr)
	}
}

func TestSessionProvider_RegisterUserAsync(t *testing.T) {
	t.Parallel()

	ex := &fakeExchanger{
		register: &model.RegisterUserResponse{
			Username:    "bob",
			IdentityID:  "id",
			Credentials: bundle("AK4", time.Now().Add(time.Hour)),
		},
	}
	p, err := NewSessionProvider("bob", "pw", ex)
	if err != nil {
		t.Fatalf("NewSessionProvider() error = %v", err)
	}

	creds, err := p.RegisterUserAsync(context.Background()).Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if creds.AccessKey != "AK4" {
		t.Errorf("AccessKey = %q, want AK4", creds.AccessKey)
	}
}
