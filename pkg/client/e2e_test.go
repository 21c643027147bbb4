package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/petgateway/petgateway/internal/auth"
	"github.com/petgateway/petgateway/internal/cache"
	"github.com/petgateway/petgateway/internal/identity"
	"github.com/petgateway/petgateway/internal/repository/memory"
	"github.com/petgateway/petgateway/internal/router"
	"github.com/petgateway/petgateway/internal/service"
	"github.com/petgateway/petgateway/internal/testutil"
	"github.com/petgateway/petgateway/pkg/client"
	"github.com/petgateway/petgateway/pkg/credentials"
	"github.com/petgateway/petgateway/pkg/model"
)

const gatewayRegion = "us-west-2"

func startGateway(t *testing.T) string {
	t.Helper()

	logger := testutil.DiscardLogger()
	sessions := cache.NewMemorySessions()
	broker, err := identity.NewLocalBroker(identity.Config{
		Region:       gatewayRegion,
		PoolID:       gatewayRegion + ":pool",
		ProviderName: "login.petgateway",
		SigningKey:   []byte("e2e-key"),
	}, sessions, logger)
	if err != nil {
		t.Fatalf("NewLocalBroker failed: %v", err)
	}

	srv := httptest.NewServer(router.New(router.Deps{
		Logger:            logger,
		Users:             service.NewUserService(memory.NewUsers(), broker, logger, nil),
		Pets:              service.NewPetService(memory.NewPets(), 10, nil),
		Verifier:          auth.NewVerifier(sessions, gatewayRegion, client.DefaultServiceName, 5*time.Minute),
		IsDevelopment:     true,
		SignatureRequired: true,
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestEndToEnd_RegisterAndManagePets(t *testing.T) {
	t.Parallel()

	endpoint := startGateway(t)
	ctx := context.Background()

	anon, err := client.New(client.Config{Endpoint: endpoint, Region: gatewayRegion})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	provider, err := credentials.NewSessionProvider("carol", "hunter2", anon)
	if err != nil {
		t.Fatalf("NewSessionProvider failed: %v", err)
	}
	if err := provider.RegisterUser(ctx); err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	if provider.IdentityID() == "" || provider.IsExpired() {
		t.Fatalf("provider not populated: identity=%q expired=%v", provider.IdentityID(), provider.IsExpired())
	}

	registry := client.NewRegistry(client.Config{})
	if err := registry.Register(client.Config{Endpoint: endpoint, Region: gatewayRegion, Credentials: provider}, "west"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := registry.Register(client.Config{Endpoint: endpoint, Region: "eu-central-1", Credentials: provider}, "central"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	west, ok := registry.Client("west")
	if !ok {
		t.Fatal("west client not registered")
	}

	created, err := west.PetsPost(ctx, &model.CreatePetRequest{PetType: "cat", PetName: "Tom", PetAge: 2})
	if err != nil {
		t.Fatalf("PetsPost failed: %v", err)
	}
	if created.PetID == "" {
		t.Fatal("PetsPost returned empty id")
	}

	got, err := west.PetsPetIDGet(ctx, created.PetID)
	if err != nil {
		t.Fatalf("PetsPetIDGet failed: %v", err)
	}
	want := model.Pet{PetID: created.PetID, PetType: "cat", PetName: "Tom", PetAge: 2}
	if *got != want {
		t.Errorf("pet = %+v, want %+v", *got, want)
	}

	list, err := west.PetsGetAsync(ctx).Wait(ctx)
	if err != nil {
		t.Fatalf("PetsGetAsync failed: %v", err)
	}
	if list.Count != 1 || list.PageLimit != 10 || len(list.Pets) != 1 || list.Pets[0] != want {
		t.Errorf("list = %+v", list)
	}

	if _, err := west.PetsPetIDGet(ctx, "does-not-exist"); !client.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}

	central, _ := registry.Client("central")
	_, err = central.PetsGet(ctx)
	if client.StatusCode(err) != http.StatusForbidden {
		t.Errorf("wrong-region status = %d, want 403 (err = %v)", client.StatusCode(err), err)
	}
}

func TestEndToEnd_LoginReusesIdentity(t *testing.T) {
	t.Parallel()

	endpoint := startGateway(t)
	ctx := context.Background()

	anon, err := client.New(client.Config{Endpoint: endpoint, Region: gatewayRegion})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	registered, err := anon.UsersPost(ctx, &model.RegisterUserRequest{Username: "dan", Password: "pw"})
	if err != nil {
		t.Fatalf("UsersPost failed: %v", err)
	}

	loggedIn, err := anon.LoginPost(ctx, &model.RegisterUserRequest{Username: "dan", Password: "pw"})
	if err != nil {
		t.Fatalf("LoginPost failed: %v", err)
	}
	if loggedIn.IdentityID != registered.IdentityID {
		t.Errorf("identity changed: %s -> %s", registered.IdentityID, loggedIn.IdentityID)
	}
	if loggedIn.Credentials.AccessKey == registered.Credentials.AccessKey {
		t.Error("login should issue fresh credentials")
	}

	if _, err := anon.UsersPost(ctx, &model.RegisterUserRequest{Username: "dan", Password: "pw"}); client.ErrorCode(err) != model.CodeUsernameTaken {
		t.Errorf("duplicate registration code = %q, want USERNAME_TAKEN", client.ErrorCode(err))
	}

	// Unsigned pet calls are rejected.
	if _, err := anon.PetsGet(ctx); client.StatusCode(err) != http.StatusForbidden {
		t.Errorf("unsigned status = %d, want 403", client.StatusCode(err))
	}
}
