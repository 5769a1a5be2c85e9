/*
Package source implements per-site document extractors. Every page layout
heuristic of the tool lives in this package.
*/
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/vigo/cvelookup/internal/cve"
	"github.com/vigo/cvelookup/internal/useragent"
	"golang.org/x/net/html"
)

// sentinel errors.
var (
	ErrLayout = errors.New("unexpected page layout")
)

// Kind identifies a terminal condition.
type Kind string

// terminal conditions.
const (
	KindNotFound   Kind = "not-found"
	KindReserved   Kind = "reserved"
	KindNoSeverity Kind = "no-severity"
)

func (k Kind) String() string {
	return string(k)
}

// Signal is returned by extractors for a recognized, non exceptional stop.
// Message carries the text published by the source, if any.
type Signal struct {
	Kind    Kind
	Source  string
	Message string
}

func (s *Signal) Error() string {
	if s.Message == "" {
		return fmt.Sprintf("%s: %s", s.Source, s.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", s.Source, s.Kind, s.Message)
}

// AsSignal reports whether err carries a terminal Signal.
func AsSignal(err error) (*Signal, bool) {
	var sig *Signal
	if errors.As(err, &sig) {
		return sig, true
	}
	return nil, false
}

// Fetcher retrieves a document body.
type Fetcher interface {
	Fetch(ctx context.Context, url string, header useragent.Header) (string, error)
}

// HeaderPicker selects the identification header for each fetch.
type HeaderPicker interface {
	Pick() useragent.Header
}

// Extractor produces a partial cve.Record for a normalized identifier, or a
// *Signal for a terminal condition.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, id string) (*cve.Record, error)
}

// site bundles what every extractor needs to fetch its page.
type site struct {
	fetcher     Fetcher
	agents      HeaderPicker
	urlTemplate string
}

// fetch downloads the page for id. urlTemplate holds a single %s verb for
// the identifier.
func (s site) fetch(ctx context.Context, name, id string) (string, error) {
	url := fmt.Sprintf(s.urlTemplate, id)

	body, err := s.fetcher.Fetch(ctx, url, s.agents.Pick())
	if err != nil {
		return "", fmt.Errorf("%s fetch: %w", name, err)
	}

	return body, nil
}

func parse(doc string) (*html.Node, error) {
	return htmlquery.Parse(strings.NewReader(doc))
}

func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmlquery.InnerText(n)
}
