/*
Package renderer implements a headless browser document fetcher for pages
that only complete after JavaScript execution.
*/
package renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/vigo/cvelookup/internal/source"
	"github.com/vigo/cvelookup/internal/tlog"
	"github.com/vigo/cvelookup/internal/useragent"
)

var _ source.Fetcher = (*Renderer)(nil) // compile time proof

// defaults.
const (
	DefaultTimeout  = 60 * time.Second
	DefaultWaitTime = 3 * time.Second

	WaitTimeMax = 30 * time.Second
)

// sentinel errors.
var (
	ErrInvalid = errors.New("invalid value")
)

// Renderer holds headless browser params.
type Renderer struct {
	Logger   *slog.Logger
	ExecPath string
	Timeout  time.Duration
	WaitTime time.Duration
}

// Option represents option function type.
type Option func(*Renderer) error

// WithTimeout sets the per page timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) error {
		if d <= 0 {
			return fmt.Errorf("%w, timeout '%s' must > 0", ErrInvalid, d)
		}
		r.Timeout = d
		return nil
	}
}

// WithWaitTime sets how long the page may run scripts after load.
func WithWaitTime(d time.Duration) Option {
	return func(r *Renderer) error {
		if d < 0 || d > WaitTimeMax {
			return fmt.Errorf("%w, wait time must be between 0 and %s, got %s", ErrInvalid, WaitTimeMax, d)
		}
		r.WaitTime = d
		return nil
	}
}

// WithExecPath sets browser executable, default is auto detected.
func WithExecPath(s string) Option {
	return func(r *Renderer) error {
		if s == "" {
			return fmt.Errorf("%w, exec path can not be empty string", ErrInvalid)
		}
		r.ExecPath = s
		return nil
	}
}

// WithLogger sets logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) error {
		if l == nil {
			return fmt.Errorf("%w, logger can not be nil", ErrInvalid)
		}
		r.Logger = l
		return nil
	}
}

func (r *Renderer) setDefaults() {
	if r.Timeout <= 0 {
		r.Timeout = DefaultTimeout
	}
	if r.Logger == nil {
		r.Logger = tlog.Discard()
	}
}

// New instantiates renderer.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{WaitTime: DefaultWaitTime}
	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	r.setDefaults()

	return r, nil
}

// allocatorOptions returns browser flags, header value becomes the browser's
// user agent.
func (r *Renderer) allocatorOptions(header useragent.Header) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)

	if header.Value != "" {
		opts = append(opts, chromedp.UserAgent(header.Value))
	}
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	return opts
}

// Fetch renders url in a fresh headless browser and returns the outer html.
func (r *Renderer) Fetch(ctx context.Context, url string, header useragent.Header) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	allocatorCtx, cancelAllocator := chromedp.NewExecAllocator(ctx, r.allocatorOptions(header)...)
	defer cancelAllocator()

	browserCtx, cancelBrowser := chromedp.NewContext(allocatorCtx)
	defer cancelBrowser()

	var html string

	r.Logger.Debug("navigating to", "url", url)

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.WaitTime),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	if html == "" {
		r.Logger.Warn("empty html received", "url", url)
	}

	return html, nil
}
