// Package classify provides the default stage implementations for the
// processing pipeline: an ATS-backed enhancer and keyword heuristics for
// role tagging and remote-EU classification. All three are swappable at the
// pipeline boundary.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/remoteeu/jobboard/internal/ats"
	"github.com/remoteeu/jobboard/internal/db"
)

const (
	greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"
	leverBaseURL      = "https://api.lever.co/v0/postings"
)

// ErrUnsupportedSource marks jobs whose ATS has no detail API to enhance
// from. The pipeline advances such jobs on their ingested fields.
var ErrUnsupportedSource = errors.New("no detail API for this job source")

// ATSEnhancer fetches the full posting from the public ATS detail APIs.
type ATSEnhancer struct {
	client *http.Client
}

// NewATSEnhancer creates an enhancer. client may be nil for a default with a
// sane timeout.
func NewATSEnhancer(client *http.Client) *ATSEnhancer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ATSEnhancer{client: client}
}

// Enhance resolves the job's board token and posting id and queries the
// vendor detail endpoint. The board token is the company key; the posting id
// is the tail segment of the external id.
func (e *ATSEnhancer) Enhance(ctx context.Context, job db.Job) (db.Enhancement, error) {
	postingID := ats.TailSegment(job.ExternalID)
	if postingID == "" {
		return db.Enhancement{}, fmt.Errorf("job %d has no posting id in external id %q", job.ID, job.ExternalID)
	}

	switch job.SourceKind {
	case db.SourceKindGreenhouse:
		return e.enhanceGreenhouse(ctx, job.CompanyKey, postingID)
	case db.SourceKindLever:
		return e.enhanceLever(ctx, job.CompanyKey, postingID)
	default:
		return db.Enhancement{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, job.SourceKind)
	}
}

type greenhouseDetail struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	UpdatedAt string `json:"updated_at"`
}

func (e *ATSEnhancer) enhanceGreenhouse(ctx context.Context, boardToken, postingID string) (db.Enhancement, error) {
	url := fmt.Sprintf("%s/%s/jobs/%s", greenhouseBaseURL, boardToken, postingID)

	var detail greenhouseDetail
	if err := e.getJSON(ctx, url, &detail); err != nil {
		return db.Enhancement{}, fmt.Errorf("greenhouse detail for %s/%s: %w", boardToken, postingID, err)
	}

	enh := db.Enhancement{}
	if detail.Content != "" {
		enh.Description = &detail.Content
	}
	if detail.Location.Name != "" {
		enh.Location = &detail.Location.Name
	}
	if detail.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, detail.UpdatedAt); err == nil {
			posted := t.UTC().Format(time.RFC3339)
			enh.PostedAt = &posted
		}
	}
	return enh, nil
}

type leverDetail struct {
	Text             string `json:"text"`
	DescriptionPlain string `json:"descriptionPlain"`
	Country          string `json:"country"`
	Categories       struct {
		Location string `json:"location"`
	} `json:"categories"`
	CreatedAt int64 `json:"createdAt"` // milliseconds since epoch
}

func (e *ATSEnhancer) enhanceLever(ctx context.Context, boardToken, postingID string) (db.Enhancement, error) {
	url := fmt.Sprintf("%s/%s/%s", leverBaseURL, boardToken, postingID)

	var detail leverDetail
	if err := e.getJSON(ctx, url, &detail); err != nil {
		return db.Enhancement{}, fmt.Errorf("lever detail for %s/%s: %w", boardToken, postingID, err)
	}

	enh := db.Enhancement{}
	if detail.DescriptionPlain != "" {
		enh.Description = &detail.DescriptionPlain
	}
	if detail.Categories.Location != "" {
		enh.Location = &detail.Categories.Location
	}
	if detail.Country != "" {
		enh.Country = &detail.Country
	}
	if detail.CreatedAt > 0 {
		posted := time.UnixMilli(detail.CreatedAt).UTC().Format(time.RFC3339)
		enh.PostedAt = &posted
	}
	return enh, nil
}

func (e *ATSEnhancer) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
