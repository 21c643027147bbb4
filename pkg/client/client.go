// Package client is the SDK for the pet gateway: five typed operations over
// HTTP, signed with AWS Signature V4, and a keyed registry of configured
// clients.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"

	"github.com/petgateway/petgateway/pkg/model"
	"github.com/petgateway/petgateway/pkg/task"
)

const (
	// ErrCodeParamRequired marks a missing required argument.
	ErrCodeParamRequired = "ParamRequiredError"
	// ErrCodeSigning marks a request that could not be signed, usually
	// because the credentials provider has nothing to offer yet.
	ErrCodeSigning = "SigningError"

	// maxResponseBody caps how much of a response is read.
	maxResponseBody = 1 << 20
)

// Client is a configured handle to one gateway deployment. It is safe for
// concurrent use; calls are independent and unordered.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New validates cfg and returns a client for it.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	return &Client{
		cfg:    cfg,
		http:   cfg.HTTPClient,
		logger: cfg.Logger,
	}, nil
}

// Config returns the configuration the client was built with, defaults
// applied.
func (c *Client) Config() Config {
	return c.cfg
}

// LoginPost exchanges username and password for session credentials.
// POST /login
func (c *Client) LoginPost(ctx context.Context, body *model.RegisterUserRequest) (*model.LoginUserResponse, error) {
	if body == nil {
		return nil, paramRequired("body")
	}

	var out model.LoginUserResponse
	if err := c.do(ctx, http.MethodPost, "/login", false, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PetsGet lists pets.
// GET /pets
func (c *Client) PetsGet(ctx context.Context) (*model.ListPetsResponse, error) {
	var out model.ListPetsResponse
	if err := c.do(ctx, http.MethodGet, "/pets", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PetsPost creates a pet.
// POST /pets
func (c *Client) PetsPost(ctx context.Context, body *model.CreatePetRequest) (*model.CreatePetResponse, error) {
	if body == nil {
		return nil, paramRequired("body")
	}

	var out model.CreatePetResponse
	if err := c.do(ctx, http.MethodPost, "/pets", true, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PetsPetIDGet fetches one pet. An unknown id fails with a 404 request
// failure; see IsNotFound.
// GET /pets/{petId}
func (c *Client) PetsPetIDGet(ctx context.Context, petID string) (*model.GetPetResponse, error) {
	if petID == "" {
		return nil, paramRequired("petId")
	}

	var out model.GetPetResponse
	if err := c.do(ctx, http.MethodGet, "/pets/"+url.PathEscape(petID), true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UsersPost registers a user.
// POST /users
func (c *Client) UsersPost(ctx context.Context, body *model.RegisterUserRequest) (*model.RegisterUserResponse, error) {
	if body == nil {
		return nil, paramRequired("body")
	}

	var out model.RegisterUserResponse
	if err := c.do(ctx, http.MethodPost, "/users", false, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginPostAsync runs LoginPost in the background.
func (c *Client) LoginPostAsync(ctx context.Context, body *model.RegisterUserRequest) *task.Task[*model.LoginUserResponse] {
	return task.Go(ctx, func(ctx context.Context) (*model.LoginUserResponse, error) {
		return c.LoginPost(ctx, body)
	})
}

// PetsGetAsync runs PetsGet in the background.
func (c *Client) PetsGetAsync(ctx context.Context) *task.Task[*model.ListPetsResponse] {
	return task.Go(ctx, c.PetsGet)
}

// PetsPostAsync runs PetsPost in the background.
func (c *Client) PetsPostAsync(ctx context.Context, body *model.CreatePetRequest) *task.Task[*model.CreatePetResponse] {
	return task.Go(ctx, func(ctx context.Context) (*model.CreatePetResponse, error) {
		return c.PetsPost(ctx, body)
	})
}

// PetsPetIDGetAsync runs PetsPetIDGet in the background.
func (c *Client) PetsPetIDGetAsync(ctx context.Context, petID string) *task.Task[*model.GetPetResponse] {
	return task.Go(ctx, func(ctx context.Context) (*model.GetPetResponse, error) {
		return c.PetsPetIDGet(ctx, petID)
	})
}

// UsersPostAsync runs UsersPost in the background.
func (c *Client) UsersPostAsync(ctx context.Context, body *model.RegisterUserRequest) *task.Task[*model.RegisterUserResponse] {
	return task.Go(ctx, func(ctx context.Context) (*model.RegisterUserResponse, error) {
		return c.UsersPost(ctx, body)
	})
}

// do sends one request and decodes a 2xx body into out. Login and
// registration are public routes and are sent unsigned, so a client may act
// as the exchanger of the provider that signs its other calls.
func (c *Client) do(ctx context.Context, method, path string, signed bool, in, out any) error {
	var payload []byte
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return awserr.New(ErrCodeSerialization, "failed to encode request body", err)
		}
		payload = b
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, body)
	if err != nil {
		return awserr.New(ErrCodeRequest, "failed to build request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if signed && c.cfg.Credentials != nil {
		if err := c.sign(req, payload); err != nil {
			return err
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return awserr.New(ErrCodeRequest, "send request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return awserr.New(ErrCodeRequest, "failed to read response body", err)
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "pet gateway call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status_code", resp.StatusCode),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
		slog.String("request_id", requestID(resp.Header)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestFailure(resp, raw)
	}

	if out == nil {
		return nil
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return awserr.New(ErrCodeSerialization, "empty response body", nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return awserr.New(ErrCodeSerialization, "failed to decode response body", err)
	}

	return nil
}

// sign adds a SigV4 Authorization header. The credentials are wrapped per
// request so that a provider refreshed in place is always read fresh.
func (c *Client) sign(req *http.Request, payload []byte) error {
	signer := v4.NewSigner(credentials.NewCredentials(c.cfg.Credentials))

	var body io.ReadSeeker
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	if _, err := signer.Sign(req, body, c.cfg.ServiceName, c.cfg.Region, time.Now()); err != nil {
		return awserr.New(ErrCodeSigning, "failed to sign request", err)
	}
	return nil
}

func paramRequired(name string) error {
	return awserr.New(ErrCodeParamRequired, "missing required parameter "+name, nil)
}
