// Package pipeline orchestrates the job lifecycle batch: new jobs are
// enhanced from their ATS source, enhanced jobs are tagged for role
// relevance, and matching jobs are classified for EU-wide remote work.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/remoteeu/jobboard/internal/db"
	"github.com/remoteeu/jobboard/internal/status"
)

// Store is the subset of the database layer the processor drives.
type Store interface {
	ListJobsByStatus(ctx context.Context, st status.Status, limit int) ([]db.Job, error)
	ApplyEnhancement(ctx context.Context, jobID int64, enh db.Enhancement) (bool, error)
	TransitionStatus(ctx context.Context, jobID int64, from, to status.Status) (bool, error)
	ApplyRoleResult(ctx context.Context, jobID int64, to status.Status, score float64, reason string) (bool, error)
	ApplyRemoteEUResult(ctx context.Context, jobID int64, to status.Status, confidence status.Confidence, reason string) (bool, error)
	MarkJobError(ctx context.Context, jobID int64, reason string) (bool, error)
	InsertSkillTags(ctx context.Context, jobID int64, tags []db.SkillTagCreate) (int, error)
}

// Enhancer fetches the full posting from the job's ATS source.
type Enhancer interface {
	Enhance(ctx context.Context, job db.Job) (db.Enhancement, error)
}

// RoleVerdict is the outcome of role-relevance tagging.
type RoleVerdict struct {
	Match     bool
	Score     float64
	Reason    string
	SkillTags []db.SkillTagCreate
}

// RoleTagger decides whether an enhanced job is relevant and extracts its
// skill tags.
type RoleTagger interface {
	TagRole(ctx context.Context, job db.Job) (RoleVerdict, error)
}

// RemoteVerdict is the outcome of remote-EU classification.
type RemoteVerdict struct {
	RemoteEU   bool
	Confidence status.Confidence
	Reason     string
}

// RemoteClassifier decides whether a role-matched job is workable remotely
// from anywhere in the EU.
type RemoteClassifier interface {
	ClassifyRemote(ctx context.Context, job db.Job) (RemoteVerdict, error)
}

// Report summarizes one batch run.
type Report struct {
	Processed     int    `json:"processed"`
	Enhanced      int    `json:"enhanced"`
	EnhanceErrors int    `json:"enhance_errors"`
	RoleMatched   int    `json:"role_matched"`
	EURemote      int    `json:"eu_remote"`
	NonEURemote   int    `json:"non_eu_remote"`
	Errors        int    `json:"errors"`
	Success       bool   `json:"success"`
	Message       string `json:"message"`
}

// Processor runs the three lifecycle stages over pending jobs.
type Processor struct {
	store      Store
	enhancer   Enhancer
	tagger     RoleTagger
	classifier RemoteClassifier
	logger     *zap.Logger
	limit      int
	workers    int
}

// NewProcessor wires a processor. limit caps how many jobs each stage picks
// up per run; workers caps stage-internal concurrency.
func NewProcessor(store Store, enhancer Enhancer, tagger RoleTagger, classifier RemoteClassifier, logger *zap.Logger, limit, workers int) *Processor {
	if limit <= 0 {
		limit = 50
	}
	if workers <= 0 {
		workers = 4
	}
	return &Processor{
		store:      store,
		enhancer:   enhancer,
		tagger:     tagger,
		classifier: classifier,
		logger:     logger,
		limit:      limit,
		workers:    workers,
	}
}

// Run executes the enhancement, role-tagging and remote-classification
// stages in order, so a job ingested before the run can travel the whole
// lifecycle within it. limit caps how many jobs each stage picks up this
// run; zero or negative falls back to the configured default.
func (p *Processor) Run(ctx context.Context, limit int) (*Report, error) {
	if limit <= 0 {
		limit = p.limit
	}

	var report Report
	var mu sync.Mutex

	stages := []struct {
		name string
		from status.Status
		step func(context.Context, db.Job, *Report)
	}{
		{"enhance", status.New, p.enhanceOne},
		{"tag-role", status.Enhanced, p.tagOne},
		{"classify-remote", status.RoleMatch, p.classifyOne},
	}

	for _, stage := range stages {
		jobs, err := p.store.ListJobsByStatus(ctx, stage.from, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s batch: %w", stage.name, err)
		}
		p.logger.Info("stage starting",
			zap.String("stage", stage.name),
			zap.Int("jobs", len(jobs)))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)
		for _, job := range jobs {
			job := job
			g.Go(func() error {
				var local Report
				stage.step(gctx, job, &local)
				mu.Lock()
				report.Processed += local.Processed
				report.Enhanced += local.Enhanced
				report.EnhanceErrors += local.EnhanceErrors
				report.RoleMatched += local.RoleMatched
				report.EURemote += local.EURemote
				report.NonEURemote += local.NonEURemote
				report.Errors += local.Errors
				mu.Unlock()
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("%s stage interrupted: %w", stage.name, err)
		}
	}

	report.Success = report.Errors == 0
	report.Message = fmt.Sprintf(
		"processed %d jobs: %d enhanced (%d source errors), %d role-matched, %d eu-remote, %d non-eu, %d errors",
		report.Processed, report.Enhanced, report.EnhanceErrors,
		report.RoleMatched, report.EURemote, report.NonEURemote, report.Errors,
	)
	p.logger.Info("batch complete", zap.String("summary", report.Message))
	return &report, nil
}

// enhanceOne fetches full posting details. A source error does not strand
// the job: it still advances to enhanced with whatever fields it already
// has, so downstream stages run on the ingested data.
func (p *Processor) enhanceOne(ctx context.Context, job db.Job, r *Report) {
	r.Processed++
	enh, err := p.enhancer.Enhance(ctx, job)
	if err != nil {
		r.EnhanceErrors++
		p.logger.Warn("enhancement source failed, advancing with ingested fields",
			zap.Int64("job_id", job.ID),
			zap.String("external_id", job.ExternalID),
			zap.Error(err))
		enh = db.Enhancement{}
	}
	ok, err := p.store.ApplyEnhancement(ctx, job.ID, enh)
	if err != nil {
		r.Errors++
		p.logger.Error("failed to persist enhancement", zap.Int64("job_id", job.ID), zap.Error(err))
		return
	}
	if ok {
		r.Enhanced++
	}
}

func (p *Processor) tagOne(ctx context.Context, job db.Job, r *Report) {
	r.Processed++
	verdict, err := p.tagger.TagRole(ctx, job)
	if err != nil {
		p.failJob(ctx, job.ID, "role tagging failed: "+err.Error(), r)
		return
	}

	to := status.RoleNomatch
	if verdict.Match {
		to = status.RoleMatch
	}
	ok, err := p.store.ApplyRoleResult(ctx, job.ID, to, verdict.Score, verdict.Reason)
	if err != nil {
		r.Errors++
		p.logger.Error("failed to persist role result", zap.Int64("job_id", job.ID), zap.Error(err))
		return
	}
	if !ok {
		return // lost the conditional update to a concurrent run
	}
	if verdict.Match {
		r.RoleMatched++
		if len(verdict.SkillTags) > 0 {
			if _, err := p.store.InsertSkillTags(ctx, job.ID, verdict.SkillTags); err != nil {
				p.logger.Warn("failed to store skill tags", zap.Int64("job_id", job.ID), zap.Error(err))
			}
		}
	}
}

func (p *Processor) classifyOne(ctx context.Context, job db.Job, r *Report) {
	r.Processed++
	verdict, err := p.classifier.ClassifyRemote(ctx, job)
	if err != nil {
		p.failJob(ctx, job.ID, "remote classification failed: "+err.Error(), r)
		return
	}

	to := status.NonEU
	if verdict.RemoteEU {
		to = status.EURemote
	}
	ok, err := p.store.ApplyRemoteEUResult(ctx, job.ID, to, verdict.Confidence, verdict.Reason)
	if err != nil {
		r.Errors++
		p.logger.Error("failed to persist remote-EU result", zap.Int64("job_id", job.ID), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if verdict.RemoteEU {
		r.EURemote++
	} else {
		r.NonEURemote++
	}
}

func (p *Processor) failJob(ctx context.Context, jobID int64, reason string, r *Report) {
	r.Errors++
	p.logger.Error("job moved to error state", zap.Int64("job_id", jobID), zap.String("reason", reason))
	if _, err := p.store.MarkJobError(ctx, jobID, reason); err != nil {
		p.logger.Error("failed to mark job errored", zap.Int64("job_id", jobID), zap.Error(err))
	}
}
