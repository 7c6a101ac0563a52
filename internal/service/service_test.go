package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/remoteeu/jobboard/internal/db"
	"github.com/remoteeu/jobboard/internal/pipeline"
	"github.com/remoteeu/jobboard/internal/status"
)

type fakeStore struct {
	searchErr    error
	searchCalls  []db.JobFilters
	page         *db.JobsPage
	jobByExtID   *db.Job
	deleteOK     bool
	deleteErr    error
	company      *db.Company
	createdKeys  []string
	facts        []db.CompanyFact
	insertedSnap *db.CompanySnapshot
	snapCreated  bool
	boards       []db.AtsBoard
	observations []db.BoardObservation
}

func (f *fakeStore) SearchJobs(_ context.Context, filters db.JobFilters) (*db.JobsPage, error) {
	f.searchCalls = append(f.searchCalls, filters)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.page != nil {
		return f.page, nil
	}
	return &db.JobsPage{Jobs: []db.Job{}}, nil
}

func (f *fakeStore) GetJobByExternalID(context.Context, string) (*db.Job, error) {
	return f.jobByExtID, nil
}

func (f *fakeStore) GetJobByID(context.Context, int64) (*db.Job, error) { return nil, nil }

func (f *fakeStore) DeleteJob(context.Context, int64) (bool, error) {
	return f.deleteOK, f.deleteErr
}

func (f *fakeStore) GetCompanyByID(context.Context, uuid.UUID) (*db.Company, error) {
	return f.company, nil
}

func (f *fakeStore) FindOrCreateCompanyByKey(_ context.Context, key string) (*db.Company, error) {
	f.createdKeys = append(f.createdKeys, key)
	if f.company != nil {
		return f.company, nil
	}
	return &db.Company{ID: uuid.New(), Key: key}, nil
}

func (f *fakeStore) ListFacts(context.Context, uuid.UUID, string, int, int) ([]db.CompanyFact, error) {
	return f.facts, nil
}

func (f *fakeStore) InsertFacts(_ context.Context, companyID uuid.UUID, facts []db.FactCreate) ([]db.CompanyFact, error) {
	out := make([]db.CompanyFact, len(facts))
	for i, fc := range facts {
		out[i] = db.CompanyFact{ID: uuid.New(), CompanyID: companyID, Field: fc.Field, Confidence: fc.Confidence}
	}
	f.facts = append(f.facts, out...)
	return out, nil
}

func (f *fakeStore) InsertSnapshot(_ context.Context, snap db.SnapshotCreate) (*db.CompanySnapshot, bool, error) {
	f.insertedSnap = &db.CompanySnapshot{
		ID:          uuid.New(),
		CompanyID:   snap.CompanyID,
		SourceURL:   snap.SourceURL,
		ContentHash: snap.ContentHash,
		Evidence:    snap.Evidence,
	}
	return f.insertedSnap, f.snapCreated, nil
}

func (f *fakeStore) ListSnapshots(context.Context, uuid.UUID, int, int) ([]db.CompanySnapshot, error) {
	return nil, nil
}

func (f *fakeStore) UpsertBoards(_ context.Context, _ uuid.UUID, obs []db.BoardObservation) ([]db.AtsBoard, error) {
	f.observations = obs
	return f.boards, nil
}

func (f *fakeStore) ListBoards(context.Context, uuid.UUID) ([]db.AtsBoard, error) {
	return f.boards, nil
}

type fakeRunner struct {
	report   *pipeline.Report
	err      error
	gotLimit int
}

func (f *fakeRunner) Run(_ context.Context, limit int) (*pipeline.Report, error) {
	f.gotLimit = limit
	return f.report, f.err
}

func testEvidence() EvidenceInput {
	return EvidenceInput{
		SourceType: "MANUAL",
		ObservedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Method:     "HEURISTIC",
	}
}

func newService(store *fakeStore, runner BatchRunner) *Service {
	return New(store, runner, nil, zap.NewNop())
}

func TestJobs_SwallowsStoreFailure(t *testing.T) {
	store := &fakeStore{searchErr: errors.New("connection refused")}
	svc := newService(store, nil)

	page := svc.Jobs(context.Background(), db.JobFilters{Search: "go"})

	require.NotNil(t, page)
	assert.Empty(t, page.Jobs)
	assert.Equal(t, 0, page.TotalCount)
}

func TestJobs_PassesFiltersThrough(t *testing.T) {
	store := &fakeStore{page: &db.JobsPage{TotalCount: 3}}
	svc := newService(store, nil)

	f := db.JobFilters{Search: "sre", RemoteEUConfidence: status.ConfidenceMedium, Offset: 20}
	page := svc.Jobs(context.Background(), f)

	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, store.searchCalls, 1)
	assert.Equal(t, f, store.searchCalls[0])
}

func TestJob_NotFound(t *testing.T) {
	svc := newService(&fakeStore{}, nil)

	_, err := svc.Job(context.Background(), "missing-slug")

	var notFound *ErrJobNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing-slug", notFound.ID)
}

func TestJob_EmptyID(t *testing.T) {
	svc := newService(&fakeStore{}, nil)

	_, err := svc.Job(context.Background(), "")

	var verr *ErrValidation
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteJob_RequiresAdmin(t *testing.T) {
	store := &fakeStore{deleteOK: true}
	svc := newService(store, nil)

	_, err := svc.DeleteJob(context.Background(), Actor{ID: "user-1"}, 42)

	var forbidden *ErrForbidden
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "user-1", forbidden.Actor)
}

func TestDeleteJob_AdminSucceeds(t *testing.T) {
	store := &fakeStore{deleteOK: true}
	svc := newService(store, nil)

	result, err := svc.DeleteJob(context.Background(), Actor{ID: "admin-1", Admin: true}, 42)

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestDeleteJob_MissingJob(t *testing.T) {
	store := &fakeStore{deleteOK: false}
	svc := newService(store, nil)

	_, err := svc.DeleteJob(context.Background(), Actor{ID: "admin-1", Admin: true}, 42)

	var notFound *ErrJobNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestProcessAllJobs_Delegates(t *testing.T) {
	report := &pipeline.Report{Processed: 7, Success: true}
	runner := &fakeRunner{report: report}
	svc := newService(&fakeStore{}, runner)

	got, err := svc.ProcessAllJobs(context.Background(), 25)

	require.NoError(t, err)
	assert.Equal(t, report, got)
	assert.Equal(t, 25, runner.gotLimit)
}

func TestProcessAllJobs_NotConfigured(t *testing.T) {
	svc := newService(&fakeStore{}, nil)

	_, err := svc.ProcessAllJobs(context.Background(), 0)
	assert.Error(t, err)
}

func TestAddCompanyFacts_ValidatesInputs(t *testing.T) {
	companyID := uuid.New()
	store := &fakeStore{company: &db.Company{ID: companyID}}
	svc := newService(store, nil)

	tests := []struct {
		name  string
		input CompanyFactInput
	}{
		{"missing field", CompanyFactInput{Confidence: 0.5, Evidence: testEvidence()}},
		{"confidence above one", CompanyFactInput{Field: "hq_city", Confidence: 1.5, Evidence: testEvidence()}},
		{"bad source type", CompanyFactInput{Field: "hq_city", Confidence: 0.5, Evidence: EvidenceInput{
			SourceType: "SCREENSHOT", ObservedAt: time.Now(), Method: "DOM",
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddCompanyFacts(context.Background(), companyID, []CompanyFactInput{tt.input})
			var verr *ErrValidation
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestAddCompanyFacts_UnknownCompany(t *testing.T) {
	svc := newService(&fakeStore{}, nil)

	_, err := svc.AddCompanyFacts(context.Background(), uuid.New(), []CompanyFactInput{
		{Field: "hq_city", Confidence: 0.5, Evidence: testEvidence()},
	})

	var notFound *ErrCompanyNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestIngestCompanySnapshot_ResolvesCompanyByKey(t *testing.T) {
	store := &fakeStore{snapCreated: true}
	svc := newService(store, nil)

	snap, err := svc.IngestCompanySnapshot(context.Background(), SnapshotInput{
		CompanyKey:  "acme",
		SourceURL:   "https://acme.example.com/about",
		ContentHash: "sha256:abc",
		Evidence:    testEvidence(),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, store.createdKeys)
	assert.Equal(t, "sha256:abc", snap.ContentHash)
}

func TestUpsertCompanyATSBoards_RejectsUnknownVendor(t *testing.T) {
	companyID := uuid.New()
	store := &fakeStore{company: &db.Company{ID: companyID}}
	svc := newService(store, nil)

	_, err := svc.UpsertCompanyATSBoards(context.Background(), companyID, []AtsBoardUpsertInput{
		{
			URL:        "https://jobs.example.com/acme",
			Vendor:     "craigslist",
			Confidence: 0.5,
			ObservedAt: time.Now(),
			Evidence:   testEvidence(),
		},
	})

	var verr *ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "vendor", verr.Field)
}

func TestUpsertCompanyATSBoards_NormalizesURL(t *testing.T) {
	companyID := uuid.New()
	store := &fakeStore{company: &db.Company{ID: companyID}}
	svc := newService(store, nil)

	_, err := svc.UpsertCompanyATSBoards(context.Background(), companyID, []AtsBoardUpsertInput{
		{
			URL:        "https://boards.greenhouse.io/acme?gh_src=newsletter",
			Vendor:     "greenhouse",
			Confidence: 0.9,
			ObservedAt: time.Now(),
			Evidence:   testEvidence(),
		},
	})

	require.NoError(t, err)
	require.Len(t, store.observations, 1)
	assert.Equal(t, "https://boards.greenhouse.io/acme", store.observations[0].URL)
}
