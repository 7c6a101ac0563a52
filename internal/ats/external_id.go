package ats

import "strings"

// Some sources hand us a bare UUID as the external id, others the full job
// URL whose trailing path segment is the canonical slug. These helpers keep
// the two shapes interchangeable.

// NormalizeExternalID strips any query string from a URL-shaped external id.
// Greenhouse appends tracking parameters (?gh_jid=...) that would otherwise
// produce duplicate job rows for the same posting.
func NormalizeExternalID(id string) string {
	if i := strings.IndexByte(id, '?'); i >= 0 {
		return id[:i]
	}
	return id
}

// TailSegment returns the last path segment of a URL-shaped external id, or
// the id itself when it contains no slash. Trailing slashes are ignored.
func TailSegment(id string) string {
	id = strings.TrimRight(NormalizeExternalID(id), "/")
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		return id[i+1:]
	}
	return id
}
