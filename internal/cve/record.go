package cve

import (
	"slices"
	"strings"
)

// Record represents the joined lookup result of a single CVE. Every field is
// free text as published by its source.
type Record struct {
	ID          string
	Published   string
	Description string
	Score       string
	References  []string
}

// Merge copies non-empty fields of other into r. References are unioned.
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}

	if r.ID == "" {
		r.ID = other.ID
	}
	if other.Published != "" {
		r.Published = other.Published
	}
	if other.Description != "" {
		r.Description = other.Description
	}
	if other.Score != "" {
		r.Score = other.Score
	}

	r.References = References(append(r.References, other.References...))
}

// References returns a deduplicated, sorted copy of refs without blanks.
func References(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			out = append(out, ref)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}
