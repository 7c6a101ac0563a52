package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvidence() Evidence {
	return Evidence{
		SourceType:       SourceCommonCrawl,
		SourceURL:        "https://boards.greenhouse.io/acme",
		CrawlID:          "CC-MAIN-2026-30",
		CaptureTimestamp: "20260715093000",
		ObservedAt:       time.Date(2026, 7, 15, 9, 30, 0, 0, time.UTC),
		Method:           MethodJSONLD,
		ExtractorVersion: "v3",
		ContentHash:      "sha256:2b5e9c",
	}
}

func TestEncodeEvidence_RoundTrip(t *testing.T) {
	ev := validEvidence()
	status := 200
	ev.HTTPStatus = &status
	ev.Warc = &WarcPointer{
		Filename: "crawl-data/CC-MAIN-2026-30/segment.warc.gz",
		Offset:   81920,
		Length:   4096,
		Digest:   "sha1:QX5A",
	}

	data, err := EncodeEvidence(ev)
	require.NoError(t, err)

	got, err := DecodeEvidence(data)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestEncodeEvidence_RejectsBadEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Evidence)
	}{
		{"unknown source type", func(ev *Evidence) { ev.SourceType = "SCREENSHOT" }},
		{"unknown method", func(ev *Evidence) { ev.Method = "GUESS" }},
		{"missing source type", func(ev *Evidence) { ev.SourceType = "" }},
		{"missing method", func(ev *Evidence) { ev.Method = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validEvidence()
			tt.mutate(&ev)
			_, err := EncodeEvidence(ev)
			assert.Error(t, err)
		})
	}
}

func TestDecodeEvidence_RejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not json", "not-json"},
		{"missing required fields", `{"source_type": "MANUAL"}`},
		{"unknown field", `{"source_type": "MANUAL", "observed_at": "2026-07-15T09:30:00Z", "method": "DOM", "extra": 1}`},
		{"wrong type", `{"source_type": "MANUAL", "observed_at": "2026-07-15T09:30:00Z", "method": "DOM", "http_status": "200"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvidence([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeEvidence_AcceptsMinimalDocument(t *testing.T) {
	data := []byte(`{"source_type": "MANUAL", "observed_at": "2026-07-15T09:30:00Z", "method": "HEURISTIC"}`)
	ev, err := DecodeEvidence(data)
	require.NoError(t, err)
	assert.Equal(t, SourceManual, ev.SourceType)
	assert.Equal(t, MethodHeuristic, ev.Method)
	assert.Nil(t, ev.HTTPStatus)
	assert.Nil(t, ev.Warc)
}
