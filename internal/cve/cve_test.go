package cve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vigo/cvelookup/internal/cve"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical", "CVE-2021-34527", "CVE-2021-34527"},
		{"lowercase prefix", "cve-2021-34527", "CVE-2021-34527"},
		{"foreign prefix", "XXX-2021-34527", "CVE-2021-34527"},
		{"no prefix", "2021-34527", "CVE-2021-34527"},
		{"surrounding space", "  cve-2014-0160\n", "CVE-2014-0160"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cve.Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeInvalid(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"34527", cve.ErrInvalidID},
		{"", cve.ErrInvalidID},
		{"CVE-2021-34527-1", cve.ErrInvalidID},
		{"CVE-21-34527", cve.ErrInvalidYear},
		{"CVE-year-34527", cve.ErrInvalidYear},
		{"CVE-2021-1", cve.ErrInvalidSequence},
		{"CVE-2021-", cve.ErrInvalidSequence},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := cve.Normalize(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecordMerge(t *testing.T) {
	rec := &cve.Record{
		ID:          "CVE-2021-34527",
		Description: "Windows Print Spooler Remote Code Execution Vulnerability.",
		References:  []string{"https://b.example", "https://a.example"},
	}

	rec.Merge(&cve.Record{
		ID:         "CVE-2021-34527",
		Published:  "07/02/2021",
		Score:      "8.8 HIGH",
		References: []string{"https://a.example"},
	})
	rec.Merge(nil)

	assert.Equal(t, "07/02/2021", rec.Published)
	assert.Equal(t, "8.8 HIGH", rec.Score)
	assert.Equal(t, "Windows Print Spooler Remote Code Execution Vulnerability.", rec.Description)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, rec.References)
}

func TestReferences(t *testing.T) {
	got := cve.References([]string{" https://x ", "", "https://x", "https://a"})

	assert.Equal(t, []string{"https://a", "https://x"}, got)
}
