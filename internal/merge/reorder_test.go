package merge_test

import (
	"context"
	"testing"

	"courses/internal/merge"
	"courses/internal/testsupport"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestApplyReorderSingleMoves(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	list := testsupport.NewList(t, st, "Courses")
	ctx := context.Background()

	a := testsupport.NewItem(t, st, list, "Pomme", "", "fruits_legumes")
	b := testsupport.NewItem(t, st, list, "Poire", "", "fruits_legumes")

	applied, err := merge.ApplyReorder(ctx, st, list.ID, []merge.Op{
		{ItemID: b.ID.String(), Position: intPtr(1)},
		{ItemID: a.ID.String(), Position: intPtr(2)},
		{ItemID: "pas-un-uuid", Position: intPtr(3)},
	})
	if err != nil {
		t.Fatalf("ApplyReorder: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 moves applied, got %d", applied)
	}

	items, err := st.ListItems(ctx, list.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if items[0].ID != b.ID || items[1].ID != a.ID {
		t.Fatalf("order not applied: got %q then %q", items[0].Name, items[1].Name)
	}
}

func TestApplyReorderSectionForm(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	list := testsupport.NewList(t, st, "Courses")
	ctx := context.Background()

	a := testsupport.NewItem(t, st, list, "Pomme", "", "fruits_legumes")
	b := testsupport.NewItem(t, st, list, "Poire", "", "fruits_legumes")
	c := testsupport.NewItem(t, st, list, "Banane", "", "fruits_legumes")
	other := testsupport.NewItem(t, st, list, "Lait", "", "produits_laitiers_oeufs")

	sectionID := testsupport.SectionID(t, st, "fruits_legumes")
	applied, err := merge.ApplyReorder(ctx, st, list.ID, []merge.Op{
		{
			SectionID: int64Ptr(sectionID),
			ItemIDs: []string{
				c.ID.String(),
				other.ID.String(),
				a.ID.String(),
				b.ID.String(),
			},
		},
	})
	if err != nil {
		t.Fatalf("ApplyReorder: %v", err)
	}
	// Every entry's position becomes its index, the out-of-section item
	// included; the form only sets positions.
	if applied != 4 {
		t.Fatalf("expected 4 positions applied, got %d", applied)
	}

	items, err := st.ListItems(ctx, list.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	var order []string
	for _, item := range items {
		if item.SectionID == sectionID {
			order = append(order, item.Name)
		}
	}
	want := []string{"Banane", "Pomme", "Poire"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("section order = %v, want %v", order, want)
		}
	}

	moved, err := st.GetItem(ctx, list.ID, other.ID)
	if err != nil || moved == nil {
		t.Fatalf("GetItem: %v", err)
	}
	if moved.Position != 1 {
		t.Fatalf("out-of-section entry position = %d, want 1", moved.Position)
	}
}

func TestReorderSections(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	boissons := testsupport.SectionID(t, st, "boissons")
	autre := testsupport.SectionID(t, st, "autre")

	applied, err := merge.ReorderSections(ctx, st, []int64{autre, boissons, 999999})
	if err != nil {
		t.Fatalf("ReorderSections: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 sections applied, got %d", applied)
	}

	sections, err := st.Sections(ctx)
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	indexOf := func(slug string) int {
		for i, section := range sections {
			if section.Slug == slug {
				return i
			}
		}
		t.Fatalf("section %q missing", slug)
		return -1
	}
	if indexOf("autre") > indexOf("boissons") {
		t.Fatalf("autre should now sort before boissons")
	}
}

func TestApplyReorderSkipsUnknownItems(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	list := testsupport.NewList(t, st, "Courses")
	ctx := context.Background()
	item := testsupport.NewItem(t, st, list, "Pomme", "", "fruits_legumes")

	// The section id selects the wire form but is not checked against the
	// catalog; unknown item ids are what gets skipped.
	applied, err := merge.ApplyReorder(ctx, st, list.ID, []merge.Op{
		{SectionID: int64Ptr(999999), ItemIDs: []string{
			"00000000-0000-0000-0000-000000000000",
			item.ID.String(),
		}},
	})
	if err != nil {
		t.Fatalf("ApplyReorder: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected 1 position applied, got %d", applied)
	}

	moved, err := st.GetItem(ctx, list.ID, item.ID)
	if err != nil || moved == nil {
		t.Fatalf("GetItem: %v", err)
	}
	if moved.Position != 1 {
		t.Fatalf("position = %d, want the entry index 1", moved.Position)
	}
}
