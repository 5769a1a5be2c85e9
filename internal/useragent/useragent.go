/*
Package useragent implements outbound User-Agent rotation.
*/
package useragent

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
)

// HeaderName is the header every picked value is sent under.
const HeaderName = "User-Agent"

// sentinel errors.
var (
	ErrEmptyPool = errors.New("user agent pool is empty")
)

// Header is a single outbound identification header.
type Header struct {
	Name  string
	Value string
}

// Pool holds candidate header values. Safe for concurrent use, it is never
// mutated after construction.
type Pool struct {
	values []string
}

// New instantiates pool from candidates, skipping blank entries.
func New(candidates []string) (*Pool, error) {
	values := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			values = append(values, c)
		}
	}

	if len(values) == 0 {
		return nil, ErrEmptyPool
	}

	return &Pool{values: values}, nil
}

// Load reads newline delimited candidates from r.
func Load(r io.Reader) (*Pool, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read user agents: %w", err)
	}

	return New(lines)
}

// LoadFile reads candidates from the file at path.
func LoadFile(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open user agents: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	pool, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return pool, nil
}

// Len returns number of candidates.
func (p *Pool) Len() int {
	return len(p.values)
}

// Pick returns a header with a uniformly random candidate value.
func (p *Pool) Pick() Header {
	return Header{
		Name:  HeaderName,
		Value: p.values[rand.IntN(len(p.values))], //nolint:gosec
	}
}
