package merge_test

import (
	"context"
	"testing"

	"courses/internal/merge"
	"courses/internal/testsupport"
)

func TestDeduplicate(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	list := testsupport.NewList(t, st, "Courses")
	ctx := context.Background()

	first := testsupport.NewItem(t, st, list, "Pomme", "1", "fruits_legumes")
	dup := testsupport.NewItem(t, st, list, "pommes", "1", "fruits_legumes")
	other := testsupport.NewItem(t, st, list, "Lait", "1 l", "produits_laitiers_oeufs")

	dup.Checked = true
	dup.Notes = "golden"
	if err := st.UpdateItem(ctx, dup); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	removed, err := merge.Deduplicate(ctx, st, list.ID)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 item removed, got %d", removed)
	}

	survivor, err := st.GetItem(ctx, list.ID, first.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if survivor == nil {
		t.Fatal("first occurrence should survive")
	}
	if survivor.Quantity != "2" {
		t.Errorf("quantities not summed: %q", survivor.Quantity)
	}
	if survivor.Notes != "golden" {
		t.Errorf("notes not merged: %q", survivor.Notes)
	}
	if !survivor.Checked {
		t.Error("survivor should inherit checked state")
	}

	gone, err := st.GetItem(ctx, list.ID, dup.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if gone != nil {
		t.Fatal("duplicate should be deleted")
	}

	kept, err := st.GetItem(ctx, list.ID, other.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if kept == nil {
		t.Fatal("non-duplicate should be untouched")
	}
}

func TestDeduplicateThreeWayGroup(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	list := testsupport.NewList(t, st, "Courses")
	ctx := context.Background()

	first := testsupport.NewItem(t, st, list, "pomme", "1", "fruits_legumes")
	testsupport.NewItem(t, st, list, "pommes", "2", "fruits_legumes")
	testsupport.NewItem(t, st, list, "Pomme", "3 kg", "fruits_legumes")

	removed, err := merge.Deduplicate(ctx, st, list.ID)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 items removed, got %d", removed)
	}

	survivor, err := st.GetItem(ctx, list.ID, first.ID)
	if err != nil || survivor == nil {
		t.Fatalf("survivor missing: %v", err)
	}
	// "3 kg" disqualifies the whole group from summing, so no partial
	// total sneaks in.
	if survivor.Quantity != "1 + 2 + 3 kg" {
		t.Errorf("group quantities = %q, want %q", survivor.Quantity, "1 + 2 + 3 kg")
	}
}

func TestDeduplicateAcrossSections(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	list := testsupport.NewList(t, st, "Courses")
	ctx := context.Background()

	first := testsupport.NewItem(t, st, list, "Eau", "1 l", "boissons")
	testsupport.NewItem(t, st, list, "eaux", "2 l", "autre")

	removed, err := merge.Deduplicate(ctx, st, list.ID)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected cross-section duplicate removed, got %d", removed)
	}

	survivor, err := st.GetItem(ctx, list.ID, first.ID)
	if err != nil || survivor == nil {
		t.Fatalf("survivor missing: %v", err)
	}
	if survivor.Quantity != "3 l" {
		t.Errorf("quantities not summed: %q", survivor.Quantity)
	}
}

func TestDeduplicateNoDuplicates(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	list := testsupport.NewList(t, st, "Courses")

	testsupport.NewItem(t, st, list, "Pain", "", "boulangerie")
	testsupport.NewItem(t, st, list, "Beurre", "", "produits_laitiers_oeufs")

	removed, err := merge.Deduplicate(context.Background(), st, list.ID)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}
}
