package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const itemColumns = "id, list_id, name, section_id, quantity, notes, checked, position"

// CreateItem inserts a new item with a fresh identifier. Callers are expected
// to have chosen section and position already.
func (s *Store) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	inserted := *item
	inserted.ID = uuid.New()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inserted.ID.String(),
		inserted.ListID.String(),
		inserted.Name,
		inserted.SectionID,
		inserted.Quantity,
		inserted.Notes,
		boolToInt(inserted.Checked),
		inserted.Position,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &inserted, nil
}

// GetItem fetches one item scoped to a list. Returns nil when absent.
func (s *Store) GetItem(ctx context.Context, listID, itemID uuid.UUID) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND list_id = ?`,
		itemID.String(),
		listID.String(),
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// UpdateItem persists every mutable field of an item.
func (s *Store) UpdateItem(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE items
         SET name = ?, section_id = ?, quantity = ?, notes = ?, checked = ?, position = ?
         WHERE id = ? AND list_id = ?`,
		item.Name,
		item.SectionID,
		item.Quantity,
		item.Notes,
		boolToInt(item.Checked),
		item.Position,
		item.ID.String(),
		item.ListID.String(),
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// DeleteItem removes one item scoped to a list. Reports whether a row went
// away.
func (s *Store) DeleteItem(ctx context.Context, listID, itemID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM items WHERE id = ? AND list_id = ?`,
		itemID.String(),
		listID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListItems returns every item of a list ordered by section display position
// then item position. This is the canonical scan order for serialization and
// deduplication.
func (s *Store) ListItems(ctx context.Context, listID uuid.UUID) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT i.id, i.list_id, i.name, i.section_id, i.quantity, i.notes, i.checked, i.position
         FROM items i JOIN sections sec ON sec.id = i.section_id
         WHERE i.list_id = ?
         ORDER BY sec.position, sec.id, i.position, i.id`,
		listID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextPosition returns max(position)+1 within a section of a list.
func (s *Store) NextPosition(ctx context.Context, listID uuid.UUID, sectionID int64) (int, error) {
	var maxPos sql.NullInt64
	row := s.db.QueryRowContext(
		ctx,
		`SELECT MAX(position) FROM items WHERE list_id = ? AND section_id = ?`,
		listID.String(),
		sectionID,
	)
	if err := row.Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	if !maxPos.Valid {
		return 1, nil
	}
	return int(maxPos.Int64) + 1, nil
}

// SetItemPosition updates one item's position, scoped to a list. Unknown ids
// are a no-op.
func (s *Store) SetItemPosition(ctx context.Context, listID, itemID uuid.UUID, position int) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE items SET position = ? WHERE id = ? AND list_id = ?`,
		position,
		itemID.String(),
		listID.String(),
	)
	if err != nil {
		return fmt.Errorf("set item position: %w", err)
	}
	return nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		idRaw     string
		listIDRaw string
		item      Item
		checked   int
	)
	if err := scanner.Scan(
		&idRaw,
		&listIDRaw,
		&item.Name,
		&item.SectionID,
		&item.Quantity,
		&item.Notes,
		&checked,
		&item.Position,
	); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, fmt.Errorf("parse item id %q: %w", idRaw, err)
	}
	listID, err := uuid.Parse(listIDRaw)
	if err != nil {
		return nil, fmt.Errorf("parse item list id %q: %w", listIDRaw, err)
	}
	item.ID = id
	item.ListID = listID
	item.Checked = checked != 0
	return &item, nil
}
