package credentials

import (
	"errors"
	"testing"
	"time"

	"github.com/petgateway/petgateway/pkg/model"
)

func TestNewStaticProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bundle  model.Credentials
		wantErr error
	}{
		{"complete", model.Credentials{AccessKey: "AK", SecretKey: "SK"}, nil},
		{"missing secret", model.Credentials{AccessKey: "AK"}, ErrEmptyBundle},
		{"empty", model.Credentials{}, ErrEmptyBundle},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewStaticProvider(tt.bundle)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewStaticProvider() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStaticProvider_Retrieve(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	p, err := NewStaticProvider(model.Credentials{
		AccessKey:    "AK",
		SecretKey:    "SK",
		SessionToken: "TOK",
		Expiration:   exp.UnixMilli(),
	})
	if err != nil {
		t.Fatalf("NewStaticProvider() error = %v", err)
	}

	v, err := p.Retrieve()
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if v.AccessKeyID != "AK" || v.SecretAccessKey != "SK" || v.SessionToken != "TOK" {
		t.Errorf("Retrieve() = %+v", v)
	}
	if v.ProviderName != StaticProviderName {
		t.Errorf("ProviderName = %q", v.ProviderName)
	}
	if p.Username() != "" {
		t.Errorf("Username() = %q, want empty", p.Username())
	}
	if p.Expiration().UnixMilli() != exp.UnixMilli() {
		t.Errorf("Expiration() = %v, want %v", p.Expiration(), exp)
	}
}

func TestStaticProvider_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		exp  int64
		want bool
	}{
		{"no expiration", 0, false},
		{"future", now.Add(time.Minute).UnixMilli(), false},
		{"past", now.Add(-time.Minute).UnixMilli(), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := NewStaticProvider(model.Credentials{AccessKey: "AK", SecretKey: "SK", Expiration: tt.exp})
			if err != nil {
				t.Fatalf("NewStaticProvider() error = %v", err)
			}
			p.now = func() time.Time { return now }

			if got := p.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
			_, err = p.Retrieve()
			if tt.want && !errors.Is(err, ErrBundleExpired) {
				t.Errorf("Retrieve() error = %v, want ErrBundleExpired", err)
			}
			if !tt.want && err != nil {
				t.Errorf("Retrieve() error = %v", err)
			}
		})
	}
}
