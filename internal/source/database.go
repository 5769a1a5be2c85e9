package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/vigo/cvelookup/internal/cve"
)

// DatabaseURL is the vulnerability database detail page.
const DatabaseURL = "https://nvd.nist.gov/vuln/detail/%s"

const databaseName = "database"

var (
	databaseSeverity  = xpath.MustCompile(`//span[contains(concat(' ', normalize-space(@class), ' '), ' severityDetail ')]`)
	databaseScore     = xpath.MustCompile(`.//a`)
	databasePublished = xpath.MustCompile(`//span[@data-testid='vuln-published-on']`)
)

var _ Extractor = (*Database)(nil) // compile time proof

// Database extracts score and publication date from the vulnerability
// database.
type Database struct {
	site
}

// NewDatabase instantiates database extractor. Empty urlTemplate means
// DatabaseURL.
func NewDatabase(fetcher Fetcher, agents HeaderPicker, urlTemplate string) *Database {
	if urlTemplate == "" {
		urlTemplate = DatabaseURL
	}

	return &Database{site: site{fetcher: fetcher, agents: agents, urlTemplate: urlTemplate}}
}

// Name returns the source name.
func (*Database) Name() string {
	return databaseName
}

// Extract fetches and parses the database page of id.
func (d *Database) Extract(ctx context.Context, id string) (*cve.Record, error) {
	body, err := d.fetch(ctx, databaseName, id)
	if err != nil {
		return nil, err
	}

	rec, err := ParseDatabase(body)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	return rec, nil
}

// ParseDatabase extracts score and publication date from a database page.
// A page without severity block yields a KindNoSeverity signal.
func ParseDatabase(doc string) (*cve.Record, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%s parse: %w", databaseName, err)
	}

	severity := htmlquery.QuerySelector(root, databaseSeverity)
	if severity == nil {
		return nil, &Signal{Kind: KindNoSeverity, Source: databaseName}
	}

	score := htmlquery.QuerySelector(severity, databaseScore)
	if score == nil {
		return nil, fmt.Errorf("%w, %s: score link not found", ErrLayout, databaseName)
	}

	published := htmlquery.QuerySelector(root, databasePublished)
	if published == nil {
		return nil, fmt.Errorf("%w, %s: publication date not found", ErrLayout, databaseName)
	}

	return &cve.Record{
		Published: strings.TrimSpace(text(published)),
		Score:     strings.TrimSpace(text(score)),
	}, nil
}
