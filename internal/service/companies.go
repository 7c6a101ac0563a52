package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/remoteeu/jobboard/internal/ats"
	"github.com/remoteeu/jobboard/internal/db"
)

// EvidenceInput carries provenance for a write. Source type and method are
// re-checked against the storage schema on encode; the tags here catch the
// obvious mistakes before any round trip.
type EvidenceInput struct {
	SourceType       string    `json:"source_type" validate:"required,oneof=COMMONCRAWL LIVE_FETCH MANUAL PARTNER"`
	SourceURL        string    `json:"source_url,omitempty" validate:"omitempty,url"`
	CrawlID          string    `json:"crawl_id,omitempty"`
	CaptureTimestamp string    `json:"capture_timestamp,omitempty"`
	ObservedAt       time.Time `json:"observed_at" validate:"required"`
	Method           string    `json:"method" validate:"required,oneof=DOM HEURISTIC JSONLD LLM META"`
	ExtractorVersion string    `json:"extractor_version,omitempty"`
	ContentHash      string    `json:"content_hash,omitempty"`
}

func (in EvidenceInput) toEvidence() db.Evidence {
	return db.Evidence{
		SourceType:       in.SourceType,
		SourceURL:        in.SourceURL,
		CrawlID:          in.CrawlID,
		CaptureTimestamp: in.CaptureTimestamp,
		ObservedAt:       in.ObservedAt,
		Method:           in.Method,
		ExtractorVersion: in.ExtractorVersion,
		ContentHash:      in.ContentHash,
	}
}

// CompanyFactInput is one fact to append to a company's ledger.
type CompanyFactInput struct {
	Field           string          `json:"field" validate:"required,min=1"`
	ValueJSON       json.RawMessage `json:"value_json,omitempty"`
	ValueText       *string         `json:"value_text,omitempty"`
	NormalizedValue *string         `json:"normalized_value,omitempty"`
	Confidence      float64         `json:"confidence" validate:"gte=0,lte=1"`
	Evidence        EvidenceInput   `json:"evidence" validate:"required"`
}

// SnapshotInput is one page capture to ingest.
type SnapshotInput struct {
	CompanyKey       string          `json:"company_key" validate:"required,min=1"`
	SourceURL        string          `json:"source_url" validate:"required,url"`
	CrawlID          *string         `json:"crawl_id,omitempty"`
	CaptureTimestamp *string         `json:"capture_timestamp,omitempty"`
	FetchedAt        *time.Time      `json:"fetched_at,omitempty"`
	HTTPStatus       *int            `json:"http_status,omitempty"`
	Mime             *string         `json:"mime,omitempty"`
	ContentHash      string          `json:"content_hash" validate:"required,min=1"`
	TextSample       *string         `json:"text_sample,omitempty"`
	JSONLD           json.RawMessage `json:"jsonld,omitempty"`
	Extracted        json.RawMessage `json:"extracted,omitempty"`
	Evidence         EvidenceInput   `json:"evidence" validate:"required"`
}

// AtsBoardUpsertInput is one ATS board observation.
type AtsBoardUpsertInput struct {
	URL        string        `json:"url" validate:"required,url"`
	Vendor     string        `json:"vendor" validate:"required"`
	BoardType  string        `json:"board_type,omitempty"`
	Confidence float64       `json:"confidence" validate:"gte=0,lte=1"`
	IsActive   bool          `json:"is_active"`
	ObservedAt time.Time     `json:"observed_at" validate:"required"`
	Evidence   EvidenceInput `json:"evidence" validate:"required"`
}

// validateInput maps validator failures to the service's typed error.
func (s *Service) validateInput(in any) error {
	err := s.validator.Struct(in)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed " + fe.Tag() + " validation"}
	}
	return &ErrValidation{Field: "", Message: err.Error()}
}

func (s *Service) requireCompany(ctx context.Context, companyID uuid.UUID) (*db.Company, error) {
	company, err := s.store.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company %s: %w", companyID, err)
	}
	if company == nil {
		return nil, &ErrCompanyNotFound{CompanyID: companyID}
	}
	return company, nil
}

// CompanyFacts lists a company's fact ledger, optionally narrowed to one
// field, newest first.
func (s *Service) CompanyFacts(ctx context.Context, companyID uuid.UUID, field string, limit, offset int) ([]db.CompanyFact, error) {
	if _, err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.store.ListFacts(ctx, companyID, field, limit, offset)
}

// CompanySnapshots lists a company's page captures, newest first.
func (s *Service) CompanySnapshots(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]db.CompanySnapshot, error) {
	if _, err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.store.ListSnapshots(ctx, companyID, limit, offset)
}

// CompanyATSBoards lists a company's known ATS boards.
func (s *Service) CompanyATSBoards(ctx context.Context, companyID uuid.UUID) ([]db.AtsBoard, error) {
	if _, err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.store.ListBoards(ctx, companyID)
}

// AddCompanyFacts appends facts to a company's ledger.
func (s *Service) AddCompanyFacts(ctx context.Context, companyID uuid.UUID, inputs []CompanyFactInput) ([]db.CompanyFact, error) {
	if len(inputs) == 0 {
		return nil, &ErrValidation{Field: "facts", Message: "must not be empty"}
	}
	if _, err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	facts := make([]db.FactCreate, 0, len(inputs))
	for _, in := range inputs {
		if err := s.validateInput(in); err != nil {
			return nil, err
		}
		facts = append(facts, db.FactCreate{
			Field:           in.Field,
			ValueJSON:       in.ValueJSON,
			ValueText:       in.ValueText,
			NormalizedValue: in.NormalizedValue,
			Confidence:      in.Confidence,
			Evidence:        in.Evidence.toEvidence(),
		})
	}
	return s.store.InsertFacts(ctx, companyID, facts)
}

// IngestCompanySnapshot stores a page capture, resolving the company from
// its key and creating it on first sight. Identical content is deduplicated.
func (s *Service) IngestCompanySnapshot(ctx context.Context, in SnapshotInput) (*db.CompanySnapshot, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	company, err := s.store.FindOrCreateCompanyByKey(ctx, in.CompanyKey)
	if err != nil {
		return nil, err
	}

	snap, created, err := s.store.InsertSnapshot(ctx, db.SnapshotCreate{
		CompanyID:        company.ID,
		SourceURL:        in.SourceURL,
		CrawlID:          in.CrawlID,
		CaptureTimestamp: in.CaptureTimestamp,
		FetchedAt:        in.FetchedAt,
		HTTPStatus:       in.HTTPStatus,
		Mime:             in.Mime,
		ContentHash:      in.ContentHash,
		TextSample:       in.TextSample,
		JSONLD:           in.JSONLD,
		Extracted:        in.Extracted,
		Evidence:         in.Evidence.toEvidence(),
	})
	if err != nil {
		return nil, err
	}
	if !created {
		s.logger.Debug("snapshot already stored",
			zap.String("company_key", in.CompanyKey),
			zap.String("content_hash", in.ContentHash))
	}
	return snap, nil
}

// UpsertCompanyATSBoards records ATS board observations for a company.
// Unknown vendors are rejected rather than stored as free text.
func (s *Service) UpsertCompanyATSBoards(ctx context.Context, companyID uuid.UUID, inputs []AtsBoardUpsertInput) ([]db.AtsBoard, error) {
	if len(inputs) == 0 {
		return nil, &ErrValidation{Field: "boards", Message: "must not be empty"}
	}
	if _, err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	observations := make([]db.BoardObservation, 0, len(inputs))
	for _, in := range inputs {
		if err := s.validateInput(in); err != nil {
			return nil, err
		}
		if !ats.IsKnownVendor(in.Vendor) {
			return nil, &ErrValidation{Field: "vendor", Message: "unknown ATS vendor " + in.Vendor}
		}
		observations = append(observations, db.BoardObservation{
			URL:        ats.NormalizeExternalID(in.URL),
			Vendor:     in.Vendor,
			BoardType:  in.BoardType,
			Confidence: in.Confidence,
			IsActive:   in.IsActive,
			ObservedAt: in.ObservedAt,
			Evidence:   in.Evidence.toEvidence(),
		})
	}
	return s.store.UpsertBoards(ctx, companyID, observations)
}
