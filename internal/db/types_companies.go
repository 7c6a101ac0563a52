package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Company groups facts, snapshots and ATS boards under one identity. The key
// is a unique slug (usually the board token) and is immutable once assigned.
type Company struct {
	ID              uuid.UUID `json:"id"`
	Key             string    `json:"key"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Score           float64   `json:"score"`
	Tags            []string  `json:"tags"`
	Services        []string  `json:"services"`
	Industries      []string  `json:"industries"`
	CanonicalDomain *string   `json:"canonical_domain,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompanyFact is one append-only row in the fact ledger. Multiple rows may
// exist for the same field with different confidence and evidence; selecting
// the current value is a read-time concern.
type CompanyFact struct {
	ID              uuid.UUID       `json:"id"`
	CompanyID       uuid.UUID       `json:"company_id"`
	Field           string          `json:"field"`
	ValueJSON       json.RawMessage `json:"value_json,omitempty"`
	ValueText       *string         `json:"value_text,omitempty"`
	NormalizedValue *string         `json:"normalized_value,omitempty"`
	Confidence      float64         `json:"confidence"`
	Evidence        Evidence        `json:"evidence"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CompanySnapshot is a raw page capture. (company_id, content_hash) is the
// dedup key: re-ingesting identical content returns the existing row.
type CompanySnapshot struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	SourceURL        string          `json:"source_url"`
	CrawlID          *string         `json:"crawl_id,omitempty"`
	CaptureTimestamp *string         `json:"capture_timestamp,omitempty"`
	FetchedAt        *time.Time      `json:"fetched_at,omitempty"`
	HTTPStatus       *int            `json:"http_status,omitempty"`
	Mime             *string         `json:"mime,omitempty"`
	ContentHash      string          `json:"content_hash"`
	TextSample       *string         `json:"text_sample,omitempty"`
	JSONLD           json.RawMessage `json:"jsonld,omitempty"`
	Extracted        json.RawMessage `json:"extracted,omitempty"`
	Evidence         Evidence        `json:"evidence"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AtsBoard tracks which ATS vendor/board a company uses, with observed
// interval semantics: first_seen_at never changes after creation and
// last_seen_at advances monotonically on every re-observation.
type AtsBoard struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	URL         string    `json:"url"`
	Vendor      string    `json:"vendor"`
	BoardType   string    `json:"board_type"`
	Confidence  float64   `json:"confidence"`
	IsActive    bool      `json:"is_active"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	Evidence    Evidence  `json:"evidence"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FactCreate holds the values for one fact ledger insert.
type FactCreate struct {
	Field           string
	ValueJSON       json.RawMessage
	ValueText       *string
	NormalizedValue *string
	Confidence      float64
	Evidence        Evidence
}

// SnapshotCreate holds the values for one snapshot insert.
type SnapshotCreate struct {
	CompanyID        uuid.UUID
	SourceURL        string
	CrawlID          *string
	CaptureTimestamp *string
	FetchedAt        *time.Time
	HTTPStatus       *int
	Mime             *string
	ContentHash      string
	TextSample       *string
	JSONLD           json.RawMessage
	Extracted        json.RawMessage
	Evidence         Evidence
}

// BoardObservation holds one ATS board sighting for upsert.
type BoardObservation struct {
	URL        string
	Vendor     string
	BoardType  string
	Confidence float64
	IsActive   bool
	ObservedAt time.Time
	Evidence   Evidence
}
