package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/remoteeu/jobboard/internal/schemas"
)

// Evidence source type constants.
const (
	SourceCommonCrawl = "COMMONCRAWL"
	SourceLiveFetch   = "LIVE_FETCH"
	SourceManual      = "MANUAL"
	SourcePartner     = "PARTNER"
)

// Evidence extraction method constants.
const (
	MethodDOM       = "DOM"
	MethodHeuristic = "HEURISTIC"
	MethodJSONLD    = "JSONLD"
	MethodLLM       = "LLM"
	MethodMeta      = "META"
)

// WarcPointer locates the exact byte range of an archived capture inside a
// Web ARChive file.
type WarcPointer struct {
	Filename string `json:"filename"`
	Offset   int64  `json:"offset"`
	Length   int64  `json:"length"`
	Digest   string `json:"digest,omitempty"`
}

// Evidence records how and when a fact about a company was observed. Every
// fact, snapshot and ATS board row carries exactly one Evidence value; it is
// written once and never updated in place.
type Evidence struct {
	SourceType       string       `json:"source_type"`
	SourceURL        string       `json:"source_url,omitempty"`
	CrawlID          string       `json:"crawl_id,omitempty"`
	CaptureTimestamp string       `json:"capture_timestamp,omitempty"`
	ObservedAt       time.Time    `json:"observed_at"`
	Method           string       `json:"method"`
	ExtractorVersion string       `json:"extractor_version,omitempty"`
	HTTPStatus       *int         `json:"http_status,omitempty"`
	Mime             string       `json:"mime,omitempty"`
	ContentHash      string       `json:"content_hash,omitempty"`
	Warc             *WarcPointer `json:"warc,omitempty"`
}

// evidenceSchema is the storage-boundary contract for the evidence JSONB
// column. Decoding is schema-validated so a malformed document fails loudly
// at one place instead of surfacing as odd nil fields downstream.
const evidenceSchema = `{
	"type": "object",
	"required": ["source_type", "observed_at", "method"],
	"properties": {
		"source_type": {"type": "string", "enum": ["COMMONCRAWL", "LIVE_FETCH", "MANUAL", "PARTNER"]},
		"source_url": {"type": "string"},
		"crawl_id": {"type": "string"},
		"capture_timestamp": {"type": "string"},
		"observed_at": {"type": "string"},
		"method": {"type": "string", "enum": ["DOM", "HEURISTIC", "JSONLD", "LLM", "META"]},
		"extractor_version": {"type": "string"},
		"http_status": {"type": "integer"},
		"mime": {"type": "string"},
		"content_hash": {"type": "string"},
		"warc": {
			"type": "object",
			"required": ["filename", "offset", "length"],
			"properties": {
				"filename": {"type": "string"},
				"offset": {"type": "integer"},
				"length": {"type": "integer"},
				"digest": {"type": "string"}
			}
		}
	},
	"additionalProperties": false
}`

// EncodeEvidence validates and marshals an Evidence value for storage.
func EncodeEvidence(ev Evidence) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal evidence: %w", err)
	}
	if err := schemas.Validate(evidenceSchema, data); err != nil {
		return nil, fmt.Errorf("invalid evidence: %w", err)
	}
	return data, nil
}

// DecodeEvidence validates and unmarshals the evidence JSONB column.
func DecodeEvidence(data []byte) (Evidence, error) {
	var ev Evidence
	if len(data) == 0 {
		return ev, fmt.Errorf("empty evidence document")
	}
	if err := schemas.Validate(evidenceSchema, data); err != nil {
		return ev, fmt.Errorf("invalid evidence: %w", err)
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("failed to unmarshal evidence: %w", err)
	}
	return ev, nil
}
