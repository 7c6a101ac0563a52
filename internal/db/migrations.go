package db

import (
	"context"
	"fmt"
)

// migrations are applied in order through the _migrations bookkeeping table.
// Names are immutable once shipped.
var migrations = []struct {
	name string
	sql  string
}{
	{"0001_companies", `
		CREATE TABLE IF NOT EXISTS companies (
			id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			key              TEXT NOT NULL UNIQUE,
			name             TEXT NOT NULL DEFAULT '',
			category         TEXT NOT NULL DEFAULT '',
			score            REAL NOT NULL DEFAULT 0,
			tags             TEXT[] NOT NULL DEFAULT '{}',
			services         TEXT[] NOT NULL DEFAULT '{}',
			industries       TEXT[] NOT NULL DEFAULT '{}',
			canonical_domain TEXT,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"0002_jobs", `
		CREATE TABLE IF NOT EXISTS jobs (
			id                   BIGSERIAL PRIMARY KEY,
			external_id          TEXT NOT NULL UNIQUE,
			source_kind          TEXT NOT NULL,
			company_key          TEXT NOT NULL,
			company_id           UUID REFERENCES companies(id),
			title                TEXT NOT NULL,
			location             TEXT,
			country              TEXT,
			url                  TEXT NOT NULL,
			description          TEXT,
			posted_at            TIMESTAMPTZ,
			status               TEXT NOT NULL DEFAULT 'new',
			score                REAL,
			score_reason         TEXT,
			remote_eu_confidence TEXT,
			remote_eu_reason     TEXT,
			created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
		CREATE INDEX IF NOT EXISTS idx_jobs_posted_at ON jobs(posted_at DESC, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_jobs_company_key ON jobs(company_key)`},
	{"0003_job_skill_tags", `
		CREATE TABLE IF NOT EXISTS job_skill_tags (
			id           BIGSERIAL PRIMARY KEY,
			job_id       BIGINT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			tag          TEXT NOT NULL,
			level        TEXT NOT NULL DEFAULT 'preferred',
			confidence   REAL NOT NULL DEFAULT 0.7,
			evidence     TEXT NOT NULL DEFAULT '',
			extracted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			version      TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_job_skill_tags_tag ON job_skill_tags(tag);
		CREATE INDEX IF NOT EXISTS idx_job_skill_tags_job ON job_skill_tags(job_id)`},
	{"0004_skill_aliases", `
		CREATE TABLE IF NOT EXISTS skill_aliases (
			alias TEXT PRIMARY KEY,
			tag   TEXT NOT NULL
		)`},
	{"0005_company_facts", `
		CREATE TABLE IF NOT EXISTS company_facts (
			id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			company_id       UUID NOT NULL REFERENCES companies(id),
			field            TEXT NOT NULL,
			value_json       JSONB,
			value_text       TEXT,
			normalized_value TEXT,
			confidence       REAL NOT NULL,
			evidence         JSONB NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_company_facts_lookup ON company_facts(company_id, field)`},
	{"0006_company_snapshots", `
		CREATE TABLE IF NOT EXISTS company_snapshots (
			id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			company_id        UUID NOT NULL REFERENCES companies(id),
			source_url        TEXT NOT NULL,
			crawl_id          TEXT,
			capture_timestamp TEXT,
			fetched_at        TIMESTAMPTZ,
			http_status       INTEGER,
			mime              TEXT,
			content_hash      TEXT NOT NULL,
			text_sample       TEXT,
			jsonld            JSONB,
			extracted         JSONB,
			evidence          JSONB NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (company_id, content_hash)
		)`},
	{"0007_company_ats_boards", `
		CREATE TABLE IF NOT EXISTS company_ats_boards (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			company_id    UUID NOT NULL REFERENCES companies(id),
			url           TEXT NOT NULL,
			vendor        TEXT NOT NULL,
			board_type    TEXT NOT NULL DEFAULT '',
			confidence    REAL NOT NULL DEFAULT 0,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			first_seen_at TIMESTAMPTZ NOT NULL,
			last_seen_at  TIMESTAMPTZ NOT NULL,
			evidence      JSONB NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (company_id, vendor, url)
		)`},
}

// Migrate applies every pending migration.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		err := db.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM _migrations WHERE name = $1)`, m.name,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.name, err)
		}
		if applied {
			continue
		}

		if _, err := db.pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}
		if _, err := db.pool.Exec(ctx,
			`INSERT INTO _migrations (name) VALUES ($1) ON CONFLICT DO NOTHING`, m.name,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.name, err)
		}
	}

	return nil
}
