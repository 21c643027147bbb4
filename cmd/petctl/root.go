package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petgateway/petgateway/internal/config"
	"github.com/petgateway/petgateway/pkg/client"
	"github.com/petgateway/petgateway/pkg/credentials"
)

// app carries the resolved configuration for one invocation.
type app struct {
	out      io.Writer
	cfg      *config.ClientConfig
	username string
	password string
	logger   *slog.Logger
	// clients holds the unsigned default client and the signed client
	// registered after login.
	clients *client.Registry
}

// signedClientKey is the registry key of the client signing with the
// logged-in session.
const signedClientKey = "session"

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           "petctl",
		Short:         "Command line client for the pet gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.username, "username", "u", "", "Account username. This can also be specified through the PETS_USERNAME ENV var.")
	rootCmd.PersistentFlags().StringVarP(&a.password, "password", "p", "", "Account password. This can also be specified through the PETS_PASSWORD ENV var.")

	rootCmd.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newPetsCmd(a),
	)
	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.username == "" {
		a.username = cfg.Username
	}
	if a.password == "" {
		a.password = cfg.Password
	}

	level := slog.LevelWarn
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelWarn
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	a.clients = client.NewRegistry(a.clientConfig(nil))
	return nil
}

// clientConfig is the SDK configuration for the gateway, signed with creds
// when creds is non-nil.
func (a *app) clientConfig(creds credentials.Provider) client.Config {
	cfg := client.Config{
		Endpoint:    a.cfg.Endpoint,
		Region:      a.cfg.Region,
		ServiceName: a.cfg.ServiceName,
		HTTPClient:  client.NewHTTPClient(a.cfg.Timeout),
		Logger:      a.logger,
	}
	if creds != nil {
		cfg.Credentials = creds
	}
	return cfg
}

// sessionProvider returns a provider that exchanges the account's username
// and password through an unsigned client.
func (a *app) sessionProvider() (*credentials.SessionProvider, error) {
	if a.username == "" || a.password == "" {
		return nil, errors.New("username and password are required (--username/--password or PETS_USERNAME/PETS_PASSWORD)")
	}

	anon, err := a.clients.Default()
	if err != nil {
		return nil, err
	}
	return credentials.NewSessionProvider(a.username, a.password, anon, credentials.WithLogger(a.logger))
}

// signedClient logs in and returns the registered client that signs with
// the session.
func (a *app) signedClient(ctx context.Context) (*client.Client, error) {
	provider, err := a.sessionProvider()
	if err != nil {
		return nil, err
	}
	if err := provider.Login(ctx); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := a.clients.Register(a.clientConfig(provider), signedClientKey); err != nil {
		return nil, err
	}
	c, ok := a.clients.Client(signedClientKey)
	if !ok {
		return nil, fmt.Errorf("client %q not registered", signedClientKey)
	}
	return c, nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
