package db

import (
	"context"
	"fmt"

	"github.com/remoteeu/jobboard/internal/status"
)

// Status transitions are optimistic: every UPDATE is conditioned on the
// expected prior status so two concurrent batch runs cannot double-apply a
// transition or overwrite a later one with an earlier one. The bool result
// reports whether this caller won the transition.

// ListJobsByStatus fetches up to limit jobs in the given lifecycle stage,
// newest first, for batch processing.
func (db *DB) ListJobsByStatus(ctx context.Context, st status.Status, limit int) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE status = $1
		 ORDER BY created_at DESC LIMIT $2`, jobColumns),
		string(st), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by status: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// TransitionStatus advances a job from → to with no side writes.
func (db *DB) TransitionStatus(ctx context.Context, jobID int64, from, to status.Status) (bool, error) {
	if !status.CanTransition(from, to) {
		return false, fmt.Errorf("invalid status transition %s -> %s", from, to)
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		string(to), jobID, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition job %d: %w", jobID, err)
	}
	return result.RowsAffected() > 0, nil
}

// Enhancement carries the fields the ATS enhancement stage fills in.
type Enhancement struct {
	Description *string
	Location    *string
	Country     *string
	PostedAt    *string // source-native timestamp, already normalized to RFC 3339
}

// ApplyEnhancement writes the enhanced source fields and advances new →
// enhanced in one statement. Fields left nil keep their ingested values.
func (db *DB) ApplyEnhancement(ctx context.Context, jobID int64, enh Enhancement) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET
			description = COALESCE($1, description),
			location = COALESCE($2, location),
			country = COALESCE($3, country),
			posted_at = COALESCE($4::timestamptz, posted_at),
			status = $5,
			updated_at = NOW()
		 WHERE id = $6 AND status = $7`,
		enh.Description, enh.Location, enh.Country, enh.PostedAt,
		string(status.Enhanced), jobID, string(status.New),
	)
	if err != nil {
		return false, fmt.Errorf("failed to apply enhancement to job %d: %w", jobID, err)
	}
	return result.RowsAffected() > 0, nil
}

// ApplyRoleResult records the role-relevance verdict and advances enhanced →
// role-match or role-nomatch.
func (db *DB) ApplyRoleResult(ctx context.Context, jobID int64, to status.Status, score float64, reason string) (bool, error) {
	if to != status.RoleMatch && to != status.RoleNomatch {
		return false, fmt.Errorf("role result must be role-match or role-nomatch, got %s", to)
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, score = $2, score_reason = $3, updated_at = NOW()
		 WHERE id = $4 AND status = $5`,
		string(to), score, reason, jobID, string(status.Enhanced),
	)
	if err != nil {
		return false, fmt.Errorf("failed to apply role result to job %d: %w", jobID, err)
	}
	return result.RowsAffected() > 0, nil
}

// ApplyRemoteEUResult records the remote-EU verdict with its confidence and
// advances role-match → eu-remote or non-eu.
func (db *DB) ApplyRemoteEUResult(ctx context.Context, jobID int64, to status.Status, confidence status.Confidence, reason string) (bool, error) {
	if to != status.EURemote && to != status.NonEU {
		return false, fmt.Errorf("remote-EU result must be eu-remote or non-eu, got %s", to)
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, remote_eu_confidence = $2, remote_eu_reason = $3, updated_at = NOW()
		 WHERE id = $4 AND status = $5`,
		string(to), string(confidence), reason, jobID, string(status.RoleMatch),
	)
	if err != nil {
		return false, fmt.Errorf("failed to apply remote-EU result to job %d: %w", jobID, err)
	}
	return result.RowsAffected() > 0, nil
}

// MarkJobError moves a job to the error state from whatever non-error state
// it is in.
func (db *DB) MarkJobError(ctx context.Context, jobID int64, reason string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, score_reason = $2, updated_at = NOW()
		 WHERE id = $3 AND status <> $1`,
		string(status.Error), reason, jobID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark job %d errored: %w", jobID, err)
	}
	return result.RowsAffected() > 0, nil
}
