package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/remoteeu/jobboard/internal/db"
	"github.com/remoteeu/jobboard/internal/pipeline"
)

const frontPageCacheKey = "jobs:front-page"

// Jobs lists jobs for the given filters. The listing is a read surface the
// front end polls constantly, so it never fails outward: on a storage error
// the problem is logged and an empty page is returned.
func (s *Service) Jobs(ctx context.Context, f db.JobFilters) *db.JobsPage {
	cacheable := defaultFilters(f)
	if cacheable {
		var page db.JobsPage
		hit, err := s.cache.GetJSON(ctx, frontPageCacheKey, &page)
		if err != nil {
			s.logger.Warn("listing cache read failed", zap.Error(err))
		}
		if hit {
			return &page
		}
	}

	page, err := s.store.SearchJobs(ctx, f)
	if err != nil {
		s.logger.Error("job listing failed, returning empty page",
			zap.String("search", f.Search),
			zap.Int("offset", f.Offset),
			zap.Error(err))
		return &db.JobsPage{Jobs: []db.Job{}, TotalCount: 0}
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, frontPageCacheKey, page); err != nil {
			s.logger.Warn("listing cache write failed", zap.Error(err))
		}
	}
	return page
}

// Job fetches a single job by its public identifier: the exact external id,
// or the trailing slug of a URL-shaped one. Returns *ErrJobNotFound when
// nothing matches.
func (s *Service) Job(ctx context.Context, id string) (*db.Job, error) {
	if id == "" {
		return nil, &ErrValidation{Field: "id", Message: "must not be empty"}
	}
	job, err := s.store.GetJobByExternalID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up job %s: %w", id, err)
	}
	if job == nil {
		return nil, &ErrJobNotFound{ID: id}
	}
	return job, nil
}

// DeleteResult reports the outcome of a delete.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeleteJob removes a job row. Admin only.
func (s *Service) DeleteJob(ctx context.Context, actor Actor, id int64) (*DeleteResult, error) {
	if !actor.Admin {
		return nil, &ErrForbidden{Actor: actor.ID, Operation: "delete jobs"}
	}

	deleted, err := s.store.DeleteJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete job %d: %w", id, err)
	}
	if !deleted {
		return nil, &ErrJobNotFound{ID: strconv.FormatInt(id, 10)}
	}

	if err := s.cache.Delete(ctx, frontPageCacheKey); err != nil {
		s.logger.Warn("failed to invalidate listing cache", zap.Error(err))
	}

	s.logger.Info("job deleted", zap.Int64("job_id", id), zap.String("actor", actor.ID))
	return &DeleteResult{Success: true, Message: fmt.Sprintf("job %d deleted", id)}, nil
}

// ProcessAllJobs runs one batch over the lifecycle pipeline and invalidates
// the listing cache, since the batch changes which jobs are visible. limit
// caps the per-stage batch size for this run; zero or negative uses the
// configured default.
func (s *Service) ProcessAllJobs(ctx context.Context, limit int) (*pipeline.Report, error) {
	if s.runner == nil {
		return nil, fmt.Errorf("batch processing is not configured")
	}
	report, err := s.runner.Run(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, frontPageCacheKey); err != nil {
		s.logger.Warn("failed to invalidate listing cache", zap.Error(err))
	}
	return report, nil
}
