package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/remoteeu/jobboard/internal/db"
	"github.com/remoteeu/jobboard/internal/status"
)

// fakeStore keeps jobs in memory and honors the conditional-update contract.
type fakeStore struct {
	mu      sync.Mutex
	jobs    map[int64]*db.Job
	tags    map[int64][]db.SkillTagCreate
	listErr error
}

func newFakeStore(jobs ...db.Job) *fakeStore {
	s := &fakeStore{jobs: map[int64]*db.Job{}, tags: map[int64][]db.SkillTagCreate{}}
	for i := range jobs {
		j := jobs[i]
		s.jobs[j.ID] = &j
	}
	return s
}

func (s *fakeStore) ListJobsByStatus(_ context.Context, st status.Status, limit int) ([]db.Job, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Job
	for _, j := range s.jobs {
		if j.Status == st && len(out) < limit {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *fakeStore) transition(id int64, from, to status.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Status != from {
		return false
	}
	j.Status = to
	return true
}

func (s *fakeStore) ApplyEnhancement(_ context.Context, id int64, enh db.Enhancement) (bool, error) {
	if ok := s.transition(id, status.New, status.Enhanced); !ok {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if enh.Description != nil {
		s.jobs[id].Description = enh.Description
	}
	return true, nil
}

func (s *fakeStore) TransitionStatus(_ context.Context, id int64, from, to status.Status) (bool, error) {
	return s.transition(id, from, to), nil
}

func (s *fakeStore) ApplyRoleResult(_ context.Context, id int64, to status.Status, score float64, reason string) (bool, error) {
	if ok := s.transition(id, status.Enhanced, to); !ok {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id].Score = &score
	s.jobs[id].ScoreReason = &reason
	return true, nil
}

func (s *fakeStore) ApplyRemoteEUResult(_ context.Context, id int64, to status.Status, confidence status.Confidence, reason string) (bool, error) {
	if ok := s.transition(id, status.RoleMatch, to); !ok {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id].RemoteEUConfidence = &confidence
	s.jobs[id].RemoteEUReason = &reason
	return true, nil
}

func (s *fakeStore) MarkJobError(_ context.Context, id int64, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Status == status.Error {
		return false, nil
	}
	j.Status = status.Error
	j.ScoreReason = &reason
	return true, nil
}

func (s *fakeStore) InsertSkillTags(_ context.Context, id int64, tags []db.SkillTagCreate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[id] = append(s.tags[id], tags...)
	return len(tags), nil
}

func (s *fakeStore) jobStatus(id int64) status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id].Status
}

type fakeEnhancer struct {
	err error
}

func (f fakeEnhancer) Enhance(context.Context, db.Job) (db.Enhancement, error) {
	if f.err != nil {
		return db.Enhancement{}, f.err
	}
	desc := "full description"
	return db.Enhancement{Description: &desc}, nil
}

type fakeTagger struct {
	match bool
	tags  []db.SkillTagCreate
	err   error
}

func (f fakeTagger) TagRole(context.Context, db.Job) (RoleVerdict, error) {
	if f.err != nil {
		return RoleVerdict{}, f.err
	}
	return RoleVerdict{Match: f.match, Score: 0.8, Reason: "test", SkillTags: f.tags}, nil
}

type fakeClassifier struct {
	remoteEU bool
	err      error
}

func (f fakeClassifier) ClassifyRemote(context.Context, db.Job) (RemoteVerdict, error) {
	if f.err != nil {
		return RemoteVerdict{}, f.err
	}
	return RemoteVerdict{RemoteEU: f.remoteEU, Confidence: status.ConfidenceHigh, Reason: "test"}, nil
}

func newJob(id int64, st status.Status) db.Job {
	return db.Job{ID: id, ExternalID: "ext-" + string(rune('a'+id)), Status: st}
}

func TestRun_FullLifecycleWithinOneBatch(t *testing.T) {
	store := newFakeStore(newJob(1, status.New))
	p := NewProcessor(store, fakeEnhancer{}, fakeTagger{match: true}, fakeClassifier{remoteEU: true}, zap.NewNop(), 10, 2)

	report, err := p.Run(context.Background(), 0)
	require.NoError(t, err)

	// Stages run in order, so a new job travels new → enhanced →
	// role-match → eu-remote in a single run.
	assert.Equal(t, status.EURemote, store.jobStatus(1))
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.Enhanced)
	assert.Equal(t, 1, report.RoleMatched)
	assert.Equal(t, 1, report.EURemote)
	assert.Equal(t, 0, report.Errors)
	assert.True(t, report.Success)
}

func TestRun_EnhanceErrorStillAdvances(t *testing.T) {
	store := newFakeStore(newJob(1, status.New))
	p := NewProcessor(store, fakeEnhancer{err: errors.New("ats returned 500")},
		fakeTagger{match: false}, fakeClassifier{}, zap.NewNop(), 10, 2)

	report, err := p.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, report.EnhanceErrors)
	assert.Equal(t, 1, report.Enhanced)
	assert.Equal(t, 0, report.Errors)
	// Job continued through tagging on its ingested fields.
	assert.Equal(t, status.RoleNomatch, store.jobStatus(1))
}

func TestRun_TaggerErrorMovesJobToError(t *testing.T) {
	store := newFakeStore(newJob(1, status.Enhanced))
	p := NewProcessor(store, fakeEnhancer{}, fakeTagger{err: errors.New("model unavailable")},
		fakeClassifier{}, zap.NewNop(), 10, 2)

	report, err := p.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, status.Error, store.jobStatus(1))
	assert.Equal(t, 1, report.Errors)
	assert.False(t, report.Success)
}

func TestRun_ClassifierErrorMovesJobToError(t *testing.T) {
	store := newFakeStore(newJob(1, status.RoleMatch))
	p := NewProcessor(store, fakeEnhancer{}, fakeTagger{},
		fakeClassifier{err: errors.New("model unavailable")}, zap.NewNop(), 10, 2)

	report, err := p.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, status.Error, store.jobStatus(1))
	assert.Equal(t, 1, report.Errors)
}

func TestRun_NomatchJobsDoNotReachClassifier(t *testing.T) {
	store := newFakeStore(newJob(1, status.Enhanced))
	classifier := fakeClassifier{err: errors.New("must not be called")}
	p := NewProcessor(store, fakeEnhancer{}, fakeTagger{match: false}, classifier, zap.NewNop(), 10, 2)

	report, err := p.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, status.RoleNomatch, store.jobStatus(1))
	assert.Equal(t, 0, report.Errors)
}

func TestRun_SkillTagsStoredOnMatch(t *testing.T) {
	tags := []db.SkillTagCreate{{Tag: "go", Level: db.SkillLevelRequired, Confidence: 0.9}}
	store := newFakeStore(newJob(1, status.Enhanced))
	p := NewProcessor(store, fakeEnhancer{}, fakeTagger{match: true, tags: tags},
		fakeClassifier{remoteEU: false}, zap.NewNop(), 10, 2)

	report, err := p.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Len(t, store.tags[1], 1)
	assert.Equal(t, "go", store.tags[1][0].Tag)
	assert.Equal(t, 1, report.NonEURemote)
	assert.Equal(t, status.NonEU, store.jobStatus(1))
}

func TestRun_PerRunLimitOverridesDefault(t *testing.T) {
	jobs := make([]db.Job, 0, 5)
	for i := int64(1); i <= 5; i++ {
		jobs = append(jobs, newJob(i, status.New))
	}
	store := newFakeStore(jobs...)
	p := NewProcessor(store, fakeEnhancer{}, fakeTagger{match: false}, fakeClassifier{}, zap.NewNop(), 50, 2)

	report, err := p.Run(context.Background(), 2)
	require.NoError(t, err)

	// Only two jobs per stage this run; the rest wait for the next one.
	assert.Equal(t, 2, report.Enhanced)

	remaining := 0
	for i := int64(1); i <= 5; i++ {
		if store.jobStatus(i) == status.New {
			remaining++
		}
	}
	assert.Equal(t, 3, remaining)
}

func TestRun_ConcurrentBatchProcessesAllJobs(t *testing.T) {
	jobs := make([]db.Job, 0, 20)
	for i := int64(1); i <= 20; i++ {
		jobs = append(jobs, newJob(i, status.New))
	}
	store := newFakeStore(jobs...)
	p := NewProcessor(store, fakeEnhancer{}, fakeTagger{match: true}, fakeClassifier{remoteEU: true}, zap.NewNop(), 50, 8)

	report, err := p.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 20, report.Enhanced)
	assert.Equal(t, 20, report.EURemote)
	for i := int64(1); i <= 20; i++ {
		assert.Equal(t, status.EURemote, store.jobStatus(i))
	}
}

func TestRun_ListFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	p := NewProcessor(store, fakeEnhancer{}, fakeTagger{}, fakeClassifier{}, zap.NewNop(), 10, 2)

	_, err := p.Run(context.Background(), 0)
	assert.Error(t, err)
}
