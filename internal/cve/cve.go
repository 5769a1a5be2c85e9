/*
Package cve implements CVE identifier and record related functionality.
*/
package cve

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Prefix is the canonical leading token of every identifier.
const Prefix = "CVE"

const separator = "-"

// sentinel errors.
var (
	ErrInvalidID       = errors.New("invalid CVE identifier")
	ErrInvalidYear     = errors.New("invalid CVE year")
	ErrInvalidSequence = errors.New("invalid CVE sequence")
)

var (
	yearPattern     = regexp.MustCompile(`^[0-9]{4}$`)
	sequencePattern = regexp.MustCompile(`^[0-9]{4,}$`)
)

// Normalize rewrites user input to the canonical CVE-<year>-<sequence> form.
//
// The first of three dash separated segments is always replaced with
// Prefix, whatever it was: "cve-2021-34527" and "XXX-2021-34527" both become
// "CVE-2021-34527". Two segments are read as <year>-<sequence> and get the
// prefix prepended. Anything else is rejected.
func Normalize(input string) (string, error) {
	parts := strings.Split(strings.TrimSpace(input), separator)

	switch len(parts) {
	case 2:
		parts = append([]string{Prefix}, parts...)
	case 3:
		parts[0] = Prefix
	default:
		return "", fmt.Errorf("%w, %q: format is CVE-<YYYY>-<NNNN...>", ErrInvalidID, input)
	}

	if !yearPattern.MatchString(parts[1]) {
		return "", fmt.Errorf("%w, %q", ErrInvalidYear, parts[1])
	}

	if !sequencePattern.MatchString(parts[2]) {
		return "", fmt.Errorf("%w, %q", ErrInvalidSequence, parts[2])
	}

	return strings.Join(parts, separator), nil
}
