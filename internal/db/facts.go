package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// InsertFacts appends fact rows to a company's ledger. The ledger is
// append-only: existing rows are never updated or removed, and conflicting
// values for the same field coexist until read time.
func (db *DB) InsertFacts(ctx context.Context, companyID uuid.UUID, facts []FactCreate) ([]CompanyFact, error) {
	inserted := make([]CompanyFact, 0, len(facts))
	for _, f := range facts {
		evidence, err := EncodeEvidence(f.Evidence)
		if err != nil {
			return nil, fmt.Errorf("failed to encode evidence for field %q: %w", f.Field, err)
		}
		row := db.pool.QueryRow(ctx,
			`INSERT INTO company_facts
				(company_id, field, value_json, value_text, normalized_value, confidence, evidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at`,
			companyID, f.Field, f.ValueJSON, f.ValueText, f.NormalizedValue, f.Confidence, evidence,
		)
		fact := CompanyFact{
			CompanyID:       companyID,
			Field:           f.Field,
			ValueJSON:       f.ValueJSON,
			ValueText:       f.ValueText,
			NormalizedValue: f.NormalizedValue,
			Confidence:      f.Confidence,
			Evidence:        f.Evidence,
		}
		if err := row.Scan(&fact.ID, &fact.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert fact %q: %w", f.Field, err)
		}
		inserted = append(inserted, fact)
	}
	return inserted, nil
}

// ListFacts returns a company's fact rows, newest first, optionally narrowed
// to one field.
func (db *DB) ListFacts(ctx context.Context, companyID uuid.UUID, field string, limit, offset int) ([]CompanyFact, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, company_id, field, value_json, value_text, normalized_value,
			confidence, evidence, created_at
		 FROM company_facts WHERE company_id = $1`
	args := []any{companyID}
	if field != "" {
		args = append(args, field)
		query += fmt.Sprintf(" AND field = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	defer rows.Close()

	var facts []CompanyFact
	for rows.Next() {
		var f CompanyFact
		var evidence []byte
		err := rows.Scan(
			&f.ID, &f.CompanyID, &f.Field, &f.ValueJSON, &f.ValueText,
			&f.NormalizedValue, &f.Confidence, &evidence, &f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		if f.Evidence, err = DecodeEvidence(evidence); err != nil {
			return nil, fmt.Errorf("failed to decode evidence for fact %s: %w", f.ID, err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
