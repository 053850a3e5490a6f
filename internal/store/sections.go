package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DefaultSectionSlug is the catch-all section items fall back to when the
// classifier has no answer.
const DefaultSectionSlug = "autre"

// Sections returns the full section catalog ordered by display position.
func (s *Store) Sections(ctx context.Context) ([]Section, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, slug, label, position FROM sections ORDER BY position, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var section Section
		if err := rows.Scan(&section.ID, &section.Slug, &section.Label, &section.Position); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

// SectionBySlug fetches one section by slug. Returns nil when absent.
func (s *Store) SectionBySlug(ctx context.Context, slug string) (*Section, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, slug, label, position FROM sections WHERE slug = ?`,
		slug,
	)
	return scanSection(row)
}

// SectionByID fetches one section by identifier. Returns nil when absent.
func (s *Store) SectionByID(ctx context.Context, id int64) (*Section, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, slug, label, position FROM sections WHERE id = ?`,
		id,
	)
	return scanSection(row)
}

// FirstSection returns the lowest-position section, the last-resort fallback
// when even the default section is missing.
func (s *Store) FirstSection(ctx context.Context) (*Section, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, slug, label, position FROM sections ORDER BY position, id LIMIT 1`,
	)
	return scanSection(row)
}

// SetSectionPosition updates one section's display position. Unknown ids are
// a no-op.
func (s *Store) SetSectionPosition(ctx context.Context, id int64, position int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sections SET position = ? WHERE id = ?`, position, id)
	if err != nil {
		return fmt.Errorf("set section position: %w", err)
	}
	return nil
}

// DeleteSection removes a section. The schema blocks deletion while items
// still reference it, which surfaces here as an error.
func (s *Store) DeleteSection(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

func scanSection(row *sql.Row) (*Section, error) {
	var section Section
	err := row.Scan(&section.ID, &section.Slug, &section.Label, &section.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan section: %w", err)
	}
	return &section, nil
}
