package main

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/petgateway/petgateway/internal/config"
	"github.com/petgateway/petgateway/internal/testutil"
)

func TestCleanupStack_UnwindsNewestFirst(t *testing.T) {
	t.Parallel()

	var order []string
	var c cleanupStack
	c.push(func() { order = append(order, "postgres") })
	c.push(func() { order = append(order, "redis") })
	c.push(func() { order = append(order, "sweeper") })

	c.unwind()
	if want := []string{"sweeper", "redis", "postgres"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}

	c.unwind()
	if len(order) != 3 {
		t.Errorf("second unwind ran cleanups again: %v", order)
	}
}

func memoryConfig() *config.Config {
	return &config.Config{
		AppEnv:           "development",
		AppPort:          0,
		Region:           "us-east-1",
		ServiceName:      "execute-api",
		IdentityPoolID:   "us-east-1:pool",
		TokenSigningKey:  "build-test-key",
		CredentialsTTL:   time.Hour,
		SignatureMaxSkew: 5 * time.Minute,
		PetPageLimit:     50,
		ReadTimeout:      time.Second,
		WriteTimeout:     time.Second,
		ShutdownTimeout:  time.Second,
	}
}

func TestBuild_InMemory(t *testing.T) {
	t.Parallel()

	srv, err := build(context.Background(), memoryConfig(), testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if srv == nil {
		t.Fatal("build returned nil server")
	}
}

func TestBuild_FailsWithoutSigningKey(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.TokenSigningKey = ""

	if _, err := build(context.Background(), cfg, testutil.DiscardLogger()); err == nil {
		t.Fatal("expected build to fail without a signing key")
	}
}
