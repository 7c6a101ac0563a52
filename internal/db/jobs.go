package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/remoteeu/jobboard/internal/status"
)

// jobColumns is the SELECT list shared by every job read.
const jobColumns = `id, external_id, source_kind, company_key, company_id, title,
	location, country, url, description, posted_at, status, score, score_reason,
	remote_eu_confidence, remote_eu_reason, created_at, updated_at`

// The listing always excludes locations that cannot be remote-EU regardless
// of client filters. Country codes use ISO 3166-1 alpha-2.
var (
	locationDenyList = []string{"india", "united states", "u.s.", "usa", "canada", "australia"}
	countryDenyCodes = []string{"IN", "US", "CA", "AU"}
)

// buildJobWhere constructs the WHERE clause for the listing query. Filters
// are ANDed together; each filter ORs its own alternatives internally.
func buildJobWhere(f JobFilters, sp *skillPredicate) (string, []any) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE %s OR company_key ILIKE %s OR location ILIKE %s OR description ILIKE %s)",
			p, p, p, p))
	}

	if f.SourceKind != "" {
		conditions = append(conditions, "source_kind = "+arg(f.SourceKind))
	}

	if f.IsRemoteEU != nil {
		// Never a stored boolean: remote-EU is exactly status = 'eu-remote'.
		if *f.IsRemoteEU {
			conditions = append(conditions, "status = "+arg(string(status.EURemote)))
		} else {
			conditions = append(conditions, "status <> "+arg(string(status.EURemote)))
		}
	}

	if f.RemoteEUConfidence != "" {
		tiers := f.RemoteEUConfidence.AtLeast()
		placeholders := make([]string, len(tiers))
		for i, t := range tiers {
			placeholders[i] = arg(string(t))
		}
		conditions = append(conditions,
			"remote_eu_confidence IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(f.ExcludedCompanies) > 0 {
		placeholders := make([]string, len(f.ExcludedCompanies))
		for i, key := range f.ExcludedCompanies {
			placeholders[i] = arg(key)
		}
		conditions = append(conditions,
			"company_key NOT IN ("+strings.Join(placeholders, ", ")+")")
	}

	denied := make([]string, len(locationDenyList))
	for i, s := range locationDenyList {
		denied[i] = "location NOT ILIKE " + arg("%"+s+"%")
	}
	conditions = append(conditions, "(location IS NULL OR ("+strings.Join(denied, " AND ")+"))")

	codes := make([]string, len(countryDenyCodes))
	for i, c := range countryDenyCodes {
		codes[i] = arg(c)
	}
	conditions = append(conditions, "(country IS NULL OR country NOT IN ("+strings.Join(codes, ", ")+"))")

	if sp != nil {
		if len(sp.tags) > 0 {
			placeholders := make([]string, len(sp.tags))
			for i, t := range sp.tags {
				placeholders[i] = arg(t)
			}
			conditions = append(conditions,
				"id IN (SELECT DISTINCT job_id FROM job_skill_tags WHERE tag IN ("+
					strings.Join(placeholders, ", ")+"))")
		} else if len(sp.keywords) > 0 {
			matches := make([]string, 0, len(sp.keywords))
			for _, kw := range sp.keywords {
				p := arg("%" + kw + "%")
				matches = append(matches, fmt.Sprintf("title ILIKE %s OR description ILIKE %s", p, p))
			}
			conditions = append(conditions, "("+strings.Join(matches, " OR ")+")")
		}
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// SearchJobs runs the listing query: predicates per the filter contract,
// fixed ordering, and adaptive counting. It fetches limit+1 rows to detect
// whether more pages exist; an exact COUNT(*) is only computed when the
// caller paginates past the first page or applies a non-default filter. On
// the plain front page a lower-bound estimate is good enough and the
// aggregate is skipped.
func (db *DB) SearchJobs(ctx context.Context, f JobFilters) (*JobsPage, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var sp *skillPredicate
	if len(f.Skills) > 0 {
		var err error
		sp, err = db.resolveSkillPredicate(ctx, f.Skills)
		if err != nil {
			return nil, err
		}
	}

	where, args := buildJobWhere(f, sp)
	countArgs := make([]any, len(args))
	copy(countArgs, args)

	query := fmt.Sprintf(
		`SELECT %s FROM jobs %s
		 ORDER BY posted_at DESC NULLS LAST, created_at DESC
		 LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, f.Limit+1, f.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job rows: %w", err)
	}

	hasMore := len(jobs) > f.Limit
	if hasMore {
		jobs = jobs[:f.Limit]
	}

	total := f.Offset + len(jobs)
	if hasMore {
		total = f.Offset + f.Limit + 1 // "at least this many"
	}

	if f.Offset > 0 || f.active() {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM jobs %s`, where)
		if err := db.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return nil, fmt.Errorf("failed to count jobs: %w", err)
		}
	}

	return &JobsPage{Jobs: jobs, TotalCount: total}, nil
}

// escapeLike neutralizes LIKE metacharacters in caller-supplied text so ids
// containing % or _ match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetJobByExternalID looks a job up first by exact external_id, then by
// suffix match on the trailing path segment. The suffix covers URL-shaped
// external ids whose last segment is the slug the front end links with.
func (db *DB) GetJobByExternalID(ctx context.Context, externalID string) (*Job, error) {
	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE external_id = $1`, jobColumns),
		externalID,
	)
	j, err := scanJob(row)
	if err == nil {
		return j, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	row = db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE external_id LIKE $1
		 ORDER BY created_at DESC LIMIT 1`, jobColumns),
		"%/"+escapeLike(externalID),
	)
	j, err = scanJob(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// GetJobByID retrieves a job by its surrogate key.
func (db *DB) GetJobByID(ctx context.Context, id int64) (*Job, error) {
	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns), id)
	j, err := scanJob(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// CreateJob inserts a freshly ingested job in status new. Re-ingesting the
// same external_id refreshes the mutable source fields without touching
// status or classification results.
func (db *DB) CreateJob(ctx context.Context, input JobCreate) (*Job, error) {
	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO jobs (external_id, source_kind, company_key, company_id,
			title, location, country, url, description, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			country = EXCLUDED.country,
			url = EXCLUDED.url,
			description = COALESCE(EXCLUDED.description, jobs.description),
			posted_at = COALESCE(EXCLUDED.posted_at, jobs.posted_at),
			updated_at = NOW()
		 RETURNING %s`, jobColumns),
		input.ExternalID, input.SourceKind, input.CompanyKey, input.CompanyID,
		input.Title, input.Location, input.Country, input.URL, input.Description,
		input.PostedAt,
	)
	j, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return j, nil
}

// DeleteJob removes a job row. Authorization is the service layer's concern.
func (db *DB) DeleteJob(ctx context.Context, id int64) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	var rawStatus string
	var rawConfidence *string

	err := row.Scan(&j.ID, &j.ExternalID, &j.SourceKind, &j.CompanyKey, &j.CompanyID,
		&j.Title, &j.Location, &j.Country, &j.URL, &j.Description, &j.PostedAt,
		&rawStatus, &j.Score, &j.ScoreReason, &rawConfidence, &j.RemoteEUReason,
		&j.CreatedAt, &j.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	st, err := status.Parse(rawStatus)
	if err != nil {
		// Unknown persisted value: keep the raw string visible rather than
		// inventing a status.
		st = status.Status(rawStatus)
	}
	j.Status = st

	if rawConfidence != nil {
		c, err := status.ParseConfidence(*rawConfidence)
		if err != nil {
			c = status.Confidence(*rawConfidence)
		}
		j.RemoteEUConfidence = &c
	}

	return &j, nil
}
