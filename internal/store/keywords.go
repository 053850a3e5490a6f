package store

import (
	"context"
	"fmt"
)

// KeywordRules returns every learned keyword joined with its section slug,
// ordered lexically by keyword. The classifier relies on this ordering as the
// deterministic tie-break between equal-length keywords.
func (s *Store) KeywordRules(ctx context.Context) ([]KeywordRule, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT k.id, k.keyword, k.section_id, sec.slug
         FROM section_keywords k JOIN sections sec ON sec.id = k.section_id
         ORDER BY k.keyword`,
	)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	var rules []KeywordRule
	for rows.Next() {
		var rule KeywordRule
		if err := rows.Scan(&rule.ID, &rule.Keyword, &rule.SectionID, &rule.SectionSlug); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// UpsertKeyword records a learned keyword for a section. The write is an
// idempotent get-or-create keyed by the keyword text, so concurrent learns of
// the same phrase cannot create duplicates or reassign an existing keyword.
func (s *Store) UpsertKeyword(ctx context.Context, keyword string, sectionID int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO section_keywords (keyword, section_id) VALUES (?, ?)
         ON CONFLICT(keyword) DO NOTHING`,
		keyword,
		sectionID,
	)
	if err != nil {
		return fmt.Errorf("upsert keyword: %w", err)
	}
	return nil
}

// CountKeywords returns the keyword table size.
func (s *Store) CountKeywords(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM section_keywords`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count keywords: %w", err)
	}
	return count, nil
}
