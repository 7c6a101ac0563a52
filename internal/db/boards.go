package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const boardColumns = `id, company_id, url, vendor, board_type, confidence, is_active,
	first_seen_at, last_seen_at, evidence, created_at, updated_at`

// UpsertBoards records ATS board observations for a company. On first sight a
// row is created with first_seen_at = last_seen_at = observed_at; on
// re-observation first_seen_at is untouched and last_seen_at only advances
// (GREATEST), so out-of-order replays cannot shrink the observed interval.
func (db *DB) UpsertBoards(ctx context.Context, companyID uuid.UUID, observations []BoardObservation) ([]AtsBoard, error) {
	boards := make([]AtsBoard, 0, len(observations))
	for _, obs := range observations {
		evidence, err := EncodeEvidence(obs.Evidence)
		if err != nil {
			return nil, fmt.Errorf("failed to encode board evidence: %w", err)
		}
		row := db.pool.QueryRow(ctx,
			fmt.Sprintf(`INSERT INTO company_ats_boards
				(company_id, url, vendor, board_type, confidence, is_active,
				 first_seen_at, last_seen_at, evidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8)
			 ON CONFLICT (company_id, vendor, url) DO UPDATE SET
				board_type = EXCLUDED.board_type,
				confidence = EXCLUDED.confidence,
				is_active = EXCLUDED.is_active,
				last_seen_at = GREATEST(company_ats_boards.last_seen_at, EXCLUDED.last_seen_at),
				evidence = EXCLUDED.evidence,
				updated_at = NOW()
			 RETURNING %s`, boardColumns),
			companyID, obs.URL, obs.Vendor, obs.BoardType, obs.Confidence,
			obs.IsActive, obs.ObservedAt, evidence,
		)
		b, err := scanBoard(row)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert board %s: %w", obs.URL, err)
		}
		boards = append(boards, *b)
	}
	return boards, nil
}

// ListBoards returns a company's ATS boards, most recently seen first.
func (db *DB) ListBoards(ctx context.Context, companyID uuid.UUID) ([]AtsBoard, error) {
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM company_ats_boards WHERE company_id = $1
		 ORDER BY last_seen_at DESC`, boardColumns),
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []AtsBoard
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *b)
	}
	return boards, rows.Err()
}

func scanBoard(row rowScanner) (*AtsBoard, error) {
	var b AtsBoard
	var evidence []byte
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.URL, &b.Vendor, &b.BoardType, &b.Confidence,
		&b.IsActive, &b.FirstSeenAt, &b.LastSeenAt, &evidence,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan board: %w", err)
	}
	if b.Evidence, err = DecodeEvidence(evidence); err != nil {
		return nil, fmt.Errorf("failed to decode board evidence: %w", err)
	}
	return &b, nil
}
