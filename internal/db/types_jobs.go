package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/remoteeu/jobboard/internal/status"
)

// Source kind constants for job ingestion origins.
const (
	SourceKindGreenhouse  = "greenhouse"
	SourceKindLever       = "lever"
	SourceKindAshby       = "ashby"
	SourceKindWorkable    = "workable"
	SourceKindCommonCrawl = "commoncrawl"
)

// Skill tag level constants.
const (
	SkillLevelRequired  = "required"
	SkillLevelPreferred = "preferred"
	SkillLevelNice      = "nice"
)

// Job is one aggregated job posting.
type Job struct {
	ID          int64      `json:"id"`
	ExternalID  string     `json:"external_id"`
	SourceKind  string     `json:"source_kind"`
	CompanyKey  string     `json:"company_key"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	Title       string     `json:"title"`
	Location    *string    `json:"location,omitempty"`
	Country     *string    `json:"country,omitempty"`
	URL         string     `json:"url"`
	Description *string    `json:"description,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`

	Status      status.Status `json:"status"`
	Score       *float64      `json:"score,omitempty"`
	ScoreReason *string       `json:"score_reason,omitempty"`

	RemoteEUConfidence *status.Confidence `json:"remote_eu_confidence,omitempty"`
	RemoteEUReason     *string            `json:"remote_eu_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRemoteEU derives the remote-EU flag from status. There is no stored
// column for it.
func (j *Job) IsRemoteEU() bool {
	return status.IsRemoteEU(j.Status)
}

// JobSkillTag is one extracted skill on a job. Tags are canonical,
// taxonomy-controlled values.
type JobSkillTag struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	Tag         string    `json:"tag"`
	Level       string    `json:"level"`
	Confidence  float64   `json:"confidence"`
	Evidence    string    `json:"evidence"`
	ExtractedAt time.Time `json:"extracted_at"`
	Version     *string   `json:"version,omitempty"`
}

// JobCreate holds the values for one job insert from an ingestion source.
type JobCreate struct {
	ExternalID  string
	SourceKind  string
	CompanyKey  string
	CompanyID   *uuid.UUID
	Title       string
	Location    *string
	Country     *string
	URL         string
	Description *string
	PostedAt    *time.Time
}

// JobFilters holds the client-controlled filters for the job listing query.
// The zero value (with DefaultLimit applied) is the default front-page query.
type JobFilters struct {
	Search             string
	SourceKind         string
	IsRemoteEU         *bool
	RemoteEUConfidence status.Confidence
	Skills             []string
	ExcludedCompanies  []string
	Limit              int
	Offset             int
}

// DefaultLimit is the page size applied when the caller does not set one.
const DefaultLimit = 20

// active reports whether any filter beyond the default listing is set.
// Pagination depth is not a filter.
func (f JobFilters) active() bool {
	return f.Search != "" ||
		f.SourceKind != "" ||
		f.IsRemoteEU != nil ||
		f.RemoteEUConfidence != "" ||
		len(f.Skills) > 0 ||
		len(f.ExcludedCompanies) > 0
}

// JobsPage is one page of listing results. TotalCount is exact whenever the
// caller paginates past the first page or applies any filter; on the default
// first page it may be the lower-bound estimate "at least offset+limit+1".
type JobsPage struct {
	Jobs       []Job `json:"jobs"`
	TotalCount int   `json:"totalCount"`
}
