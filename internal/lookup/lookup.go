/*
Package lookup implements the two-source CVE lookup.
*/
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vigo/cvelookup/internal/cve"
	"github.com/vigo/cvelookup/internal/source"
	"github.com/vigo/cvelookup/internal/tlog"
	"golang.org/x/sync/errgroup"
)

// MinWorkers is the lower bound of the extractor pool.
const MinWorkers = 2

// sentinel errors.
var (
	ErrNoExtractors = errors.New("at least one extractor required")
	ErrInvalid      = errors.New("invalid value")
)

// Kind discriminates lookup outcomes.
type Kind int

// outcome kinds.
const (
	Success Kind = iota
	NotFound
	Reserved
	NoSeverity
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case NotFound:
		return "not-found"
	case Reserved:
		return "reserved"
	case NoSeverity:
		return "no-severity"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of a lookup. Record is set only for Success, Message
// carries the source text for terminal kinds.
type Outcome struct {
	Record  *cve.Record
	ID      string
	Message string
	Kind    Kind
}

// Lookup runs extractors concurrently and joins their results.
type Lookup struct {
	Logger     *slog.Logger
	extractors []source.Extractor
	Workers    int
}

// Option represents option function type.
type Option func(*Lookup) error

// WithLogger sets logger.
func WithLogger(l *slog.Logger) Option {
	return func(lk *Lookup) error {
		if l == nil {
			return fmt.Errorf("%w, logger can not be nil", ErrInvalid)
		}
		lk.Logger = l
		return nil
	}
}

func (lk *Lookup) setDefaults() {
	if lk.Logger == nil {
		lk.Logger = tlog.Discard()
	}
	lk.Workers = max(lk.Workers, MinWorkers, len(lk.extractors))
}

// New instantiates lookup. Extractor order decides which terminal condition
// wins when more than one source reports one.
func New(extractors []source.Extractor, options ...Option) (*Lookup, error) {
	if len(extractors) == 0 {
		return nil, ErrNoExtractors
	}

	lk := &Lookup{extractors: extractors}
	for _, option := range options {
		if err := option(lk); err != nil {
			return nil, err
		}
	}

	lk.setDefaults()

	return lk, nil
}

// Run normalizes input and queries every extractor. Run waits for all of
// them, only ctx cancels in flight extractors. A terminal condition of any
// extractor becomes the outcome, otherwise the first error in extractor order
// is returned. A partial record is never returned.
func (lk *Lookup) Run(ctx context.Context, input string) (*Outcome, error) {
	id, err := cve.Normalize(input)
	if err != nil {
		return nil, err
	}

	records := make([]*cve.Record, len(lk.extractors))
	errs := make([]error, len(lk.extractors))

	var g errgroup.Group
	g.SetLimit(lk.Workers)

	for i, extractor := range lk.extractors {
		g.Go(func() error {
			lk.Logger.Debug("extract", "source", extractor.Name(), "id", id)

			records[i], errs[i] = extractor.Extract(ctx, id)
			if errs[i] != nil {
				lk.Logger.Debug("extract failed", "source", extractor.Name(), "err", errs[i])
			}

			return nil
		})
	}

	_ = g.Wait()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	for _, e := range errs {
		if sig, ok := source.AsSignal(e); ok {
			return signalOutcome(id, sig)
		}
	}

	if err = firstError(errs); err != nil {
		return nil, err
	}

	rec := &cve.Record{ID: id}
	for _, r := range records {
		rec.Merge(r)
	}

	return &Outcome{Kind: Success, ID: id, Record: rec}, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func signalOutcome(id string, sig *source.Signal) (*Outcome, error) {
	out := &Outcome{ID: id, Message: sig.Message}

	switch sig.Kind {
	case source.KindNotFound:
		out.Kind = NotFound
	case source.KindReserved:
		out.Kind = Reserved
	case source.KindNoSeverity:
		out.Kind = NoSeverity
	default:
		return nil, fmt.Errorf("unknown terminal condition: %w", sig)
	}

	return out, nil
}
