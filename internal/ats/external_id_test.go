package ats

import "testing"

func TestNormalizeExternalID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://job-boards.greenhouse.io/acme/jobs/7434532002?gh_jid=7434532002", "https://job-boards.greenhouse.io/acme/jobs/7434532002"},
		{"https://jobs.lever.co/acme/uuid-1234", "https://jobs.lever.co/acme/uuid-1234"},
		{"7434532002", "7434532002"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeExternalID(tt.input); got != tt.expected {
			t.Errorf("NormalizeExternalID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTailSegment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://job-boards.greenhouse.io/acme/jobs/7434532002", "7434532002"},
		{"https://jobs.lever.co/acme/0192aeb5-1c5e-7014/", "0192aeb5-1c5e-7014"},
		{"https://job-boards.greenhouse.io/acme/jobs/7434532002?gh_jid=x", "7434532002"},
		{"7434532002", "7434532002"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TailSegment(tt.input); got != tt.expected {
			t.Errorf("TailSegment(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
