package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const snapshotColumns = `id, company_id, source_url, crawl_id, capture_timestamp,
	fetched_at, http_status, mime, content_hash, text_sample, jsonld, extracted,
	evidence, created_at`

// InsertSnapshot stores a page capture, deduplicating on
// (company_id, content_hash). Re-ingesting identical content is a no-op that
// returns the existing row; the bool result is true when a new row was
// written.
func (db *DB) InsertSnapshot(ctx context.Context, snap SnapshotCreate) (*CompanySnapshot, bool, error) {
	evidence, err := EncodeEvidence(snap.Evidence)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode snapshot evidence: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`INSERT INTO company_snapshots
			(company_id, source_url, crawl_id, capture_timestamp, fetched_at,
			 http_status, mime, content_hash, text_sample, jsonld, extracted, evidence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (company_id, content_hash) DO NOTHING`,
		snap.CompanyID, snap.SourceURL, snap.CrawlID, snap.CaptureTimestamp,
		snap.FetchedAt, snap.HTTPStatus, snap.Mime, snap.ContentHash,
		snap.TextSample, snap.JSONLD, snap.Extracted, evidence,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM company_snapshots
		 WHERE company_id = $1 AND content_hash = $2`, snapshotColumns),
		snap.CompanyID, snap.ContentHash,
	)
	stored, err := scanSnapshot(row)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read back snapshot: %w", err)
	}
	return stored, result.RowsAffected() > 0, nil
}

// ListSnapshots returns a company's snapshots, newest first.
func (db *DB) ListSnapshots(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]CompanySnapshot, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM company_snapshots WHERE company_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, snapshotColumns),
		companyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []CompanySnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *s)
	}
	return snaps, rows.Err()
}

func scanSnapshot(row rowScanner) (*CompanySnapshot, error) {
	var s CompanySnapshot
	var evidence []byte
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.SourceURL, &s.CrawlID, &s.CaptureTimestamp,
		&s.FetchedAt, &s.HTTPStatus, &s.Mime, &s.ContentHash, &s.TextSample,
		&s.JSONLD, &s.Extracted, &evidence, &s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	if s.Evidence, err = DecodeEvidence(evidence); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot evidence: %w", err)
	}
	return &s, nil
}
