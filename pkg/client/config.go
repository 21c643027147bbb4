package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
)

const (
	// DefaultRegion is used when Config.Region is empty.
	DefaultRegion = "us-east-1"
	// DefaultServiceName is the SigV4 service name of API Gateway.
	DefaultServiceName = "execute-api"
	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "petgateway-go/1.0"

	// ClientTimeout is the total request timeout of the default HTTP client.
	ClientTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second
)

// ErrMissingEndpoint is returned when a Config has no endpoint.
var ErrMissingEndpoint = errors.New("client: endpoint is required")

// Config describes one deployment of the pet gateway.
type Config struct {
	// Endpoint is the invoke URL, including any stage path
	// (e.g. https://abc.execute-api.us-west-2.amazonaws.com/test).
	Endpoint string
	// Region and ServiceName scope the SigV4 signature.
	Region      string
	ServiceName string
	// Credentials signs every request. Nil sends unsigned requests.
	Credentials credentials.Provider
	// HTTPClient defaults to NewHTTPClient(ClientTimeout).
	HTTPClient *http.Client
	// Logger defaults to a handler that discards everything.
	Logger    *slog.Logger
	UserAgent string
}

// Validate checks that the endpoint is an absolute http(s) URL.
func (c Config) Validate() error {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return ErrMissingEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("client: invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("client: endpoint scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("client: endpoint %q has no host", endpoint)
	}

	return nil
}

// withDefaults returns a copy with every empty optional field filled in.
func (c Config) withDefaults() Config {
	c.Endpoint = strings.TrimRight(strings.TrimSpace(c.Endpoint), "/")
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.HTTPClient == nil {
		c.HTTPClient = NewHTTPClient(ClientTimeout)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// NewHTTPClient creates an HTTP client with bounded timeouts that does not
// follow redirects. A redirect would drop the signature scope.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = ClientTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
