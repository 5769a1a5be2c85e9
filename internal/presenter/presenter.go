/*
Package presenter renders lookup outcomes to the terminal.
*/
package presenter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/vigo/cvelookup/internal/lookup"
)

// defaults.
const (
	DefaultWidth         = 80
	DefaultReservedWidth = 81
)

// sentinel errors.
var (
	ErrInvalid  = errors.New("invalid value")
	ErrNoRecord = errors.New("success outcome without record")
)

// Presenter writes outcomes to W.
type Presenter struct {
	W             io.Writer
	Width         int
	ReservedWidth int
}

// Option represents option function type.
type Option func(*Presenter) error

// WithWidth sets wrap width of descriptions.
func WithWidth(n int) Option {
	return func(p *Presenter) error {
		if n <= 0 {
			return fmt.Errorf("%w, width '%d'", ErrInvalid, n)
		}
		p.Width = n
		p.ReservedWidth = n + 1
		return nil
	}
}

// New instantiates presenter.
func New(w io.Writer, options ...Option) (*Presenter, error) {
	if w == nil {
		return nil, fmt.Errorf("%w, writer can not be nil", ErrInvalid)
	}

	p := &Presenter{W: w, Width: DefaultWidth, ReservedWidth: DefaultReservedWidth}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Present writes out. NoSeverity prints nothing.
func (p *Presenter) Present(out *lookup.Outcome) error {
	switch out.Kind {
	case lookup.Success:
		return p.record(out)
	case lookup.NotFound:
		_, err := fmt.Fprintln(p.W, out.Message)
		return err
	case lookup.Reserved:
		_, err := fmt.Fprintf(p.W, "\n%s\n", Wrap(out.Message, p.ReservedWidth))
		return err
	default:
		return nil
	}
}

func (p *Presenter) record(out *lookup.Outcome) error {
	rec := out.Record
	if rec == nil {
		return ErrNoRecord
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\n\tPublished on:\n\n%s\n\n", rec.Published)
	fmt.Fprintf(&b, "\tDescription:\n\n%s\n\n", Wrap(rec.Description, p.Width))
	fmt.Fprintf(&b, "\tBase Score:\n\n%s\n\n", rec.Score)
	b.WriteString("\tReferences:\n\n")
	for _, ref := range rec.References {
		b.WriteString(ref)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	_, err := io.WriteString(p.W, b.String())
	return err
}

// Wrap collapses whitespace in s and wraps it at width columns. Words longer
// than width are split across lines.
func Wrap(s string, width int) string {
	wrapped := wordwrap.WrapString(strings.Join(strings.Fields(s), " "), uint(width)) //nolint:gosec

	return wrap.String(wrapped, width)
}
