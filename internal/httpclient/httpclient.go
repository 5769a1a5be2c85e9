/*
Package httpclient implements http client.
*/
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/vigo/cvelookup/internal/tlog"
	"github.com/vigo/cvelookup/internal/useragent"
)

var _ Doer = (*Client)(nil) // compile time proof

// defaults.
const (
	DefaultMaxIdleConns    = 10
	DefaultIdleConnTimeout = 10 * time.Second
	DefaultTimeout         = 60 * time.Second

	TimeoutMax = 5 * time.Minute
)

// sentinel errors.
var (
	ErrInvalid          = errors.New("invalid value")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrInvalidEncoding  = errors.New("response body is not valid utf-8")
)

// Doer satisfies RoundTripper interface.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client holds http client params.
type Client struct {
	HTTPClient      *http.Client
	Logger          *slog.Logger
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	Timeout         time.Duration
}

// Do executes the given HTTP request using the underlying HTTP client.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// Fetch issues a single GET request to url with header applied and returns
// the decoded body. There is no retry, any transport failure, timeout or
// non 2xx status is returned as error.
func (c *Client) Fetch(ctx context.Context, url string, header useragent.Header) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	if header.Name != "" {
		req.Header.Set(header.Name, header.Value)
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	c.Logger.Debug("fetch", "url", url, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w, %s returned %d", ErrUnexpectedStatus, url, resp.StatusCode)
	}

	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w, %s", ErrInvalidEncoding, url)
	}

	return string(body), nil
}

func (c *Client) setDefaults() {
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = DefaultIdleConnTimeout
	}
	if c.Timeout <= 0 || c.Timeout > TimeoutMax {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = tlog.Discard()
	}
}

// Option represents option function type.
type Option func(*Client) error

// WithTimeout sets the per request timeout with a max limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 || d > TimeoutMax {
			return fmt.Errorf("%w: timeout must be between 1ns and %s, got %s", ErrInvalid, TimeoutMax, d)
		}
		c.Timeout = d
		return nil
	}
}

// WithLogger sets logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		if l == nil {
			return fmt.Errorf("%w, logger can not be nil", ErrInvalid)
		}
		c.Logger = l
		return nil
	}
}

// New instantiates new http client instance.
func New(options ...Option) (*Client, error) {
	client := new(Client)
	client.setDefaults()

	for _, option := range options {
		if err := option(client); err != nil {
			return nil, err
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = client.MaxIdleConns
	transport.IdleConnTimeout = client.IdleConnTimeout

	client.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   client.Timeout,
	}

	return client, nil
}
