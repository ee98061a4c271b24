package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses runs of whitespace so multi-line SQL reads
// as one line in span attributes, then caps the length.
func formatDBQueryForTrace(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	normalized := strings.Join(fields, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
