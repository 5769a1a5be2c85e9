package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/vigo/cvelookup/internal/cve"
)

// RegistryURL is the CVE registry detail page.
const RegistryURL = "https://cve.mitre.org/cgi-bin/cvename.cgi?name=%s"

const (
	registryName   = "registry"
	notFoundMarker = "ERROR"
	reservedMarker = "** RESERVED **"
	paddingMarker  = "  "
	linkMarker     = "https"
)

var (
	registryHeading    = xpath.MustCompile(`//h2`)
	registryCells      = xpath.MustCompile(`//td[@colspan='2']`)
	registryReferences = xpath.MustCompile(`//a[@target='_blank']`)
)

var _ Extractor = (*Registry)(nil) // compile time proof

// Registry extracts description and references from the CVE registry.
type Registry struct {
	site
}

// NewRegistry instantiates registry extractor. Empty urlTemplate means
// RegistryURL.
func NewRegistry(fetcher Fetcher, agents HeaderPicker, urlTemplate string) *Registry {
	if urlTemplate == "" {
		urlTemplate = RegistryURL
	}

	return &Registry{site: site{fetcher: fetcher, agents: agents, urlTemplate: urlTemplate}}
}

// Name returns the source name.
func (*Registry) Name() string {
	return registryName
}

// Extract fetches and parses the registry page of id.
func (r *Registry) Extract(ctx context.Context, id string) (*cve.Record, error) {
	body, err := r.fetch(ctx, registryName, id)
	if err != nil {
		return nil, err
	}

	rec, err := ParseRegistry(body)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	return rec, nil
}

// ParseRegistry extracts description and references from a registry page.
//
// A leading heading starting with "ERROR" yields a KindNotFound signal, a
// description starting with "** RESERVED **" yields KindReserved. The
// description is the first two column cell without double spaces, padding
// cells always contain them. Reference anchors render as "URL:https://...",
// everything up to the first colon is dropped.
func ParseRegistry(doc string) (*cve.Record, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%s parse: %w", registryName, err)
	}

	heading := htmlquery.QuerySelector(root, registryHeading)
	if heading == nil {
		return nil, fmt.Errorf("%w, %s: heading not found", ErrLayout, registryName)
	}

	if title := strings.TrimSpace(text(heading)); strings.HasPrefix(title, notFoundMarker) {
		return nil, &Signal{Kind: KindNotFound, Source: registryName, Message: title}
	}

	var description string
	var found bool
	for _, cell := range htmlquery.QuerySelectorAll(root, registryCells) {
		if raw := text(cell); !strings.Contains(raw, paddingMarker) {
			description = strings.TrimSpace(raw)
			found = true
			break
		}
	}

	if !found {
		return nil, fmt.Errorf("%w, %s: description not found", ErrLayout, registryName)
	}

	if strings.HasPrefix(description, reservedMarker) {
		return nil, &Signal{Kind: KindReserved, Source: registryName, Message: description}
	}

	var refs []string
	for _, anchor := range htmlquery.QuerySelectorAll(root, registryReferences) {
		link := text(anchor)
		if !strings.Contains(link, linkMarker) {
			continue
		}

		if _, after, ok := strings.Cut(link, ":"); ok {
			link = after
		}
		refs = append(refs, link)
	}

	return &cve.Record{
		Description: description,
		References:  cve.References(refs),
	}, nil
}
