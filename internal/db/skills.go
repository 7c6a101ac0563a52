package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/remoteeu/jobboard/internal/skills"
)

// skillPredicate is the resolved form of a skills filter: either a precise
// job-id subquery over extracted tags, or a keyword fallback for corpora the
// extraction pipeline has not reached yet.
type skillPredicate struct {
	tags     []string // canonical tags for the subquery path
	keywords []string // LIKE substrings for the fallback path
}

// resolveSkillPredicate turns free-text skill terms into a predicate. Terms
// are normalized, resolved through the alias table (unresolved terms pass
// through unchanged), and unioned with their canonical forms so both alias
// and canonical input work. The precise tag predicate is only used when the
// job_skill_tags table has at least one row for the resolved set.
func (db *DB) resolveSkillPredicate(ctx context.Context, terms []string) (*skillPredicate, error) {
	normalized := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		n := skills.Normalize(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	aliases, err := db.lookupSkillAliases(ctx, normalized)
	if err != nil {
		return nil, err
	}

	canonical := make([]string, len(normalized))
	copy(canonical, normalized)
	for _, tag := range aliases {
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			canonical = append(canonical, tag)
		}
	}
	sort.Strings(canonical)

	hasTags, err := db.hasAnySkillTags(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if hasTags {
		return &skillPredicate{tags: canonical}, nil
	}

	// Cold start: no extracted tags for this set yet, fall back to keywords.
	var keywords []string
	kwSeen := make(map[string]struct{})
	for _, term := range canonical {
		for _, kw := range skills.FallbackKeywords(term) {
			if _, ok := kwSeen[kw]; ok {
				continue
			}
			kwSeen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}
	return &skillPredicate{keywords: keywords}, nil
}

// lookupSkillAliases maps normalized terms to canonical tags via the alias
// table. Terms without an alias row are simply absent from the result.
func (db *DB) lookupSkillAliases(ctx context.Context, terms []string) (map[string]string, error) {
	placeholders := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, t := range terms {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = t
	}

	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT alias, tag FROM skill_aliases WHERE alias IN (%s)`,
			strings.Join(placeholders, ", ")),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up skill aliases: %w", err)
	}
	defer rows.Close()

	resolved := make(map[string]string)
	for rows.Next() {
		var alias, tag string
		if err := rows.Scan(&alias, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan skill alias: %w", err)
		}
		resolved[alias] = tag
	}
	return resolved, rows.Err()
}

// hasAnySkillTags probes whether extraction has produced any row for the tag
// set, which decides between the precise subquery and the keyword fallback.
func (db *DB) hasAnySkillTags(ctx context.Context, tags []string) (bool, error) {
	placeholders := make([]string, len(tags))
	args := make([]any, len(tags))
	for i, t := range tags {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = t
	}

	var exists bool
	err := db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM job_skill_tags WHERE tag IN (%s))`,
			strings.Join(placeholders, ", ")),
		args...,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to probe skill tags: %w", err)
	}
	return exists, nil
}

// SkillTagCreate holds one extracted skill for insert.
type SkillTagCreate struct {
	Tag        string
	Level      string
	Confidence float64
	Evidence   string
	Version    *string
}

// InsertSkillTags stores extracted skills for a job, dropping tags outside
// the canonical taxonomy so the extraction worker cannot invent vocabulary.
// Returns the number of rows written.
func (db *DB) InsertSkillTags(ctx context.Context, jobID int64, tags []SkillTagCreate) (int, error) {
	inserted := 0
	for _, t := range tags {
		tag := skills.Normalize(t.Tag)
		if !skills.IsCanonical(tag) {
			continue
		}
		_, err := db.pool.Exec(ctx,
			`INSERT INTO job_skill_tags (job_id, tag, level, confidence, evidence, version)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			jobID, tag, t.Level, t.Confidence, t.Evidence, t.Version,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert skill tag %s: %w", tag, err)
		}
		inserted++
	}
	return inserted, nil
}

// UpsertSkillAlias maps a free-text alias to its canonical tag.
func (db *DB) UpsertSkillAlias(ctx context.Context, alias, tag string) error {
	alias = skills.Normalize(alias)
	tag = skills.Normalize(tag)
	if alias == "" || tag == "" {
		return fmt.Errorf("alias and tag must not be empty")
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO skill_aliases (alias, tag) VALUES ($1, $2)
		 ON CONFLICT (alias) DO UPDATE SET tag = $2`,
		alias, tag,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert skill alias %s: %w", alias, err)
	}
	return nil
}
