package testsupport

import (
	"context"
	"testing"

	"courses/internal/config"
	"courses/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewList creates a list for tests.
func NewList(t testing.TB, st *store.Store, name string) *store.List {
	t.Helper()

	list, err := st.CreateList(context.Background(), name)
	if err != nil {
		t.Fatalf("store.CreateList: %v", err)
	}
	return list
}

// SectionID resolves a seeded section slug to its identifier.
func SectionID(t testing.TB, st *store.Store, slug string) int64 {
	t.Helper()

	section, err := st.SectionBySlug(context.Background(), slug)
	if err != nil {
		t.Fatalf("store.SectionBySlug(%q): %v", slug, err)
	}
	if section == nil {
		t.Fatalf("seeded section %q missing", slug)
	}
	return section.ID
}

// NewItem inserts an item with the given name, quantity, and section slug at
// the next free position of that section.
func NewItem(t testing.TB, st *store.Store, list *store.List, name, quantity, slug string) *store.Item {
	t.Helper()

	ctx := context.Background()
	sectionID := SectionID(t, st, slug)
	pos, err := st.NextPosition(ctx, list.ID, sectionID)
	if err != nil {
		t.Fatalf("store.NextPosition: %v", err)
	}
	item, err := st.CreateItem(ctx, &store.Item{
		ListID:    list.ID,
		Name:      name,
		SectionID: sectionID,
		Quantity:  quantity,
		Position:  pos,
	})
	if err != nil {
		t.Fatalf("store.CreateItem: %v", err)
	}
	return item
}
