package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/remoteeu/jobboard/internal/cache"
	"github.com/remoteeu/jobboard/internal/db"
	"github.com/remoteeu/jobboard/internal/pipeline"
	"github.com/remoteeu/jobboard/internal/status"
)

// Store is the storage surface the service drives. *db.DB satisfies it.
type Store interface {
	SearchJobs(ctx context.Context, f db.JobFilters) (*db.JobsPage, error)
	GetJobByExternalID(ctx context.Context, externalID string) (*db.Job, error)
	GetJobByID(ctx context.Context, id int64) (*db.Job, error)
	DeleteJob(ctx context.Context, id int64) (bool, error)

	GetCompanyByID(ctx context.Context, id uuid.UUID) (*db.Company, error)
	FindOrCreateCompanyByKey(ctx context.Context, key string) (*db.Company, error)
	ListFacts(ctx context.Context, companyID uuid.UUID, field string, limit, offset int) ([]db.CompanyFact, error)
	InsertFacts(ctx context.Context, companyID uuid.UUID, facts []db.FactCreate) ([]db.CompanyFact, error)
	InsertSnapshot(ctx context.Context, snap db.SnapshotCreate) (*db.CompanySnapshot, bool, error)
	ListSnapshots(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]db.CompanySnapshot, error)
	UpsertBoards(ctx context.Context, companyID uuid.UUID, observations []db.BoardObservation) ([]db.AtsBoard, error)
	ListBoards(ctx context.Context, companyID uuid.UUID) ([]db.AtsBoard, error)
}

// BatchRunner runs one processing batch. *pipeline.Processor satisfies it.
type BatchRunner interface {
	Run(ctx context.Context, limit int) (*pipeline.Report, error)
}

// Actor identifies who is performing an operation. The core does not do
// authentication; callers hand in an already-authenticated actor.
type Actor struct {
	ID    string
	Admin bool
}

// Service implements the application operations.
type Service struct {
	store     Store
	runner    BatchRunner
	cache     *cache.Cache
	logger    *zap.Logger
	validator *validator.Validate
}

// New wires a service. cache may be nil to disable listing caching; runner
// may be nil when batch processing is not configured.
func New(store Store, runner BatchRunner, c *cache.Cache, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		runner:    runner,
		cache:     c,
		logger:    logger,
		validator: validator.New(),
	}
}

// defaultFilters reports whether f is the plain front page, the one listing
// worth caching.
func defaultFilters(f db.JobFilters) bool {
	return f.Search == "" &&
		f.SourceKind == "" &&
		f.IsRemoteEU == nil &&
		f.RemoteEUConfidence == status.Confidence("") &&
		len(f.Skills) == 0 &&
		len(f.ExcludedCompanies) == 0 &&
		f.Offset == 0 &&
		(f.Limit == 0 || f.Limit == db.DefaultLimit)
}
