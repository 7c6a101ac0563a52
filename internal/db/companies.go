package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/remoteeu/jobboard/internal/ats"
)

const companyColumns = `id, key, name, category, score, tags, services, industries,
	canonical_domain, created_at, updated_at`

// GetCompanyByID retrieves a company by its ID. Returns nil if not found.
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM companies WHERE id = $1`, companyColumns), id)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// GetCompanyByKey retrieves a company by its unique key. Returns nil if not
// found.
func (db *DB) GetCompanyByKey(ctx context.Context, key string) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM companies WHERE key = $1`, companyColumns), key)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company by key: %w", err)
	}
	return c, nil
}

// FindOrCreateCompanyByKey resolves the company for a board token key,
// creating a stub row with a derived display name on first sight. Concurrent
// creators race on the key uniqueness and both end up with the same row.
func (db *DB) FindOrCreateCompanyByKey(ctx context.Context, key string) (*Company, error) {
	if key == "" {
		return nil, fmt.Errorf("company key must not be empty")
	}

	c, err := db.GetCompanyByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO companies (key, name) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET updated_at = NOW()
		 RETURNING %s`, companyColumns),
		key, ats.NameFromToken(key),
	)
	c, err = scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return c, nil
}

// ListCompanies returns companies ordered by key.
func (db *DB) ListCompanies(ctx context.Context, limit, offset int) ([]Company, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM companies ORDER BY key LIMIT $1 OFFSET $2`, companyColumns),
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func scanCompany(row rowScanner) (*Company, error) {
	var c Company
	err := row.Scan(
		&c.ID, &c.Key, &c.Name, &c.Category, &c.Score,
		&c.Tags, &c.Services, &c.Industries,
		&c.CanonicalDomain, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
