package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateList inserts a new list with a fresh identifier.
func (s *Store) CreateList(ctx context.Context, name string) (*List, error) {
	list := &List{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO lists (id, name, archived, position, created_at) VALUES (?, ?, 0, 0, ?)`,
		list.ID.String(),
		list.Name,
		list.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	return list, nil
}

// GetList fetches a list by identifier. Returns nil when absent.
func (s *Store) GetList(ctx context.Context, id uuid.UUID) (*List, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, archived, position, created_at FROM lists WHERE id = ?`,
		id.String(),
	)
	list, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return list, nil
}

// ListExists reports whether a list with the given identifier exists.
func (s *Store) ListExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lists WHERE id = ?`, id.String())
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("list exists: %w", err)
	}
	return count > 0, nil
}

// ListSummaries returns all lists with item counts, active lists first, then
// by position and recency.
func (s *Store) ListSummaries(ctx context.Context) ([]ListSummary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT l.id, l.name, l.archived, l.position, l.created_at,
            COUNT(i.id), COALESCE(SUM(i.checked), 0)
         FROM lists l LEFT JOIN items i ON i.list_id = l.id
         GROUP BY l.id
         ORDER BY l.archived, l.position, l.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	var summaries []ListSummary
	for rows.Next() {
		var (
			idRaw      string
			name       string
			archived   int
			position   int
			createdRaw string
			count      int
			checked    int
		)
		if err := rows.Scan(&idRaw, &name, &archived, &position, &createdRaw, &count, &checked); err != nil {
			return nil, fmt.Errorf("scan list summary: %w", err)
		}
		id, err := uuid.Parse(idRaw)
		if err != nil {
			return nil, fmt.Errorf("parse list id %q: %w", idRaw, err)
		}
		summary := ListSummary{
			List: List{
				ID:       id,
				Name:     name,
				Archived: archived != 0,
				Position: position,
			},
			ItemsCount:   count,
			ItemsChecked: checked,
		}
		if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
			summary.CreatedAt = created
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// UpdateList persists name, archived flag, and position changes.
func (s *Store) UpdateList(ctx context.Context, list *List) error {
	if list == nil {
		return errors.New("list is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE lists SET name = ?, archived = ?, position = ? WHERE id = ?`,
		list.Name,
		boolToInt(list.Archived),
		list.Position,
		list.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

// DeleteList removes a list; its items cascade away with it.
func (s *Store) DeleteList(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanList(scanner interface{ Scan(dest ...any) error }) (*List, error) {
	var (
		idRaw      string
		name       string
		archived   int
		position   int
		createdRaw string
	)
	if err := scanner.Scan(&idRaw, &name, &archived, &position, &createdRaw); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, fmt.Errorf("parse list id %q: %w", idRaw, err)
	}
	list := &List{
		ID:       id,
		Name:     name,
		Archived: archived != 0,
		Position: position,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		list.CreatedAt = created
	}
	return list, nil
}
