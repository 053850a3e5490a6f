package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"courses/internal/store"
	"courses/internal/testsupport"
)

func TestOpenSeedsSectionCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	sections, err := st.Sections(ctx)
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}
	if len(sections) != 11 {
		t.Fatalf("expected 11 seeded sections, got %d", len(sections))
	}
	if sections[0].Slug != "fruits_legumes" {
		t.Fatalf("expected fruits_legumes first, got %q", sections[0].Slug)
	}
	if sections[len(sections)-1].Slug != store.DefaultSectionSlug {
		t.Fatalf("expected %q last, got %q", store.DefaultSectionSlug, sections[len(sections)-1].Slug)
	}

	count, err := st.CountKeywords(ctx)
	if err != nil {
		t.Fatalf("CountKeywords failed: %v", err)
	}
	if count < 100 {
		t.Fatalf("expected seeded keyword table, got %d keywords", count)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	st.Close()

	st2, err := store.OpenPath(st.Path())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st2.Close()

	sections, err := st2.Sections(context.Background())
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}
	if len(sections) != 11 {
		t.Fatalf("reopen duplicated seeds: %d sections", len(sections))
	}
}

func TestListLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	list, err := st.CreateList(ctx, "Courses du samedi")
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	if list.ID == uuid.Nil {
		t.Fatal("expected list ID to be assigned")
	}

	fetched, err := st.GetList(ctx, list.ID)
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Courses du samedi" {
		t.Fatalf("unexpected fetched list: %#v", fetched)
	}

	fetched.Archived = true
	if err := st.UpdateList(ctx, fetched); err != nil {
		t.Fatalf("UpdateList failed: %v", err)
	}

	summaries, err := st.ListSummaries(ctx)
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(summaries) != 1 || !summaries[0].Archived {
		t.Fatalf("unexpected summaries: %#v", summaries)
	}

	deleted, err := st.DeleteList(ctx, list.ID)
	if err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected list to be deleted")
	}
	if missing, err := st.GetList(ctx, list.ID); err != nil || missing != nil {
		t.Fatalf("expected nil for deleted list, got %#v (err %v)", missing, err)
	}
}

func TestDeleteListCascadesItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	list := testsupport.NewList(t, st, "Cascade")
	item := testsupport.NewItem(t, st, list, "Lait", "1", "produits_laitiers_oeufs")

	if _, err := st.DeleteList(ctx, list.ID); err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}
	orphan, err := st.GetItem(ctx, list.ID, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if orphan != nil {
		t.Fatal("expected items to cascade with their list")
	}
}

func TestDeleteSectionBlockedWhileReferenced(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	list := testsupport.NewList(t, st, "Protect")
	testsupport.NewItem(t, st, list, "Pain", "", "boulangerie")

	sectionID := testsupport.SectionID(t, st, "boulangerie")
	if err := st.DeleteSection(ctx, sectionID); err == nil {
		t.Fatal("expected section delete to be blocked while items reference it")
	}
}

func TestItemOrderingBySectionThenPosition(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	list := testsupport.NewList(t, st, "Ordering")
	// Insert out of section order; the scan must come back aisle by aisle.
	testsupport.NewItem(t, st, list, "Savon", "", "hygiene_maison")
	testsupport.NewItem(t, st, list, "Pomme", "", "fruits_legumes")
	testsupport.NewItem(t, st, list, "Poire", "", "fruits_legumes")

	items, err := st.ListItems(ctx, list.ID)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Name != "Pomme" || items[1].Name != "Poire" || items[2].Name != "Savon" {
		t.Fatalf("unexpected scan order: %s, %s, %s", items[0].Name, items[1].Name, items[2].Name)
	}
	if items[0].Position >= items[1].Position {
		t.Fatalf("positions within a section should ascend: %d then %d", items[0].Position, items[1].Position)
	}
}

func TestNextPositionStartsAtOneAndIncrements(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	list := testsupport.NewList(t, st, "Positions")
	sectionID := testsupport.SectionID(t, st, "boissons")

	pos, err := st.NextPosition(ctx, list.ID, sectionID)
	if err != nil {
		t.Fatalf("NextPosition failed: %v", err)
	}
	if pos != 1 {
		t.Fatalf("expected first position 1, got %d", pos)
	}

	testsupport.NewItem(t, st, list, "Eau", "", "boissons")
	pos, err = st.NextPosition(ctx, list.ID, sectionID)
	if err != nil {
		t.Fatalf("NextPosition failed: %v", err)
	}
	if pos != 2 {
		t.Fatalf("expected next position 2, got %d", pos)
	}
}

func TestUpsertKeywordIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	before, err := st.CountKeywords(ctx)
	if err != nil {
		t.Fatalf("CountKeywords failed: %v", err)
	}

	dairy := testsupport.SectionID(t, st, "produits_laitiers_oeufs")
	other := testsupport.SectionID(t, st, "autre")

	if err := st.UpsertKeyword(ctx, "kefir", dairy); err != nil {
		t.Fatalf("UpsertKeyword failed: %v", err)
	}
	// A concurrent duplicate learn must neither error nor reassign.
	if err := st.UpsertKeyword(ctx, "kefir", other); err != nil {
		t.Fatalf("duplicate UpsertKeyword failed: %v", err)
	}

	after, err := st.CountKeywords(ctx)
	if err != nil {
		t.Fatalf("CountKeywords failed: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected exactly one new keyword, got %d -> %d", before, after)
	}

	rules, err := st.KeywordRules(ctx)
	if err != nil {
		t.Fatalf("KeywordRules failed: %v", err)
	}
	for _, rule := range rules {
		if rule.Keyword == "kefir" && rule.SectionID != dairy {
			t.Fatalf("duplicate learn reassigned keyword to section %d", rule.SectionID)
		}
	}
}

func TestKeywordRulesOrderedLexically(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	rules, err := st.KeywordRules(context.Background())
	if err != nil {
		t.Fatalf("KeywordRules failed: %v", err)
	}
	for i := 1; i < len(rules); i++ {
		if rules[i-1].Keyword > rules[i].Keyword {
			t.Fatalf("keywords out of lexical order: %q before %q", rules[i-1].Keyword, rules[i].Keyword)
		}
	}
}

func TestAccessTokenLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	token, err := st.CreateAccessToken(ctx, "famille")
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}
	if len(token.Token) < 32 {
		t.Fatalf("token secret too short: %q", token.Token)
	}

	fetched, err := st.AccessTokenBySecret(ctx, token.Token)
	if err != nil {
		t.Fatalf("AccessTokenBySecret failed: %v", err)
	}
	if fetched == nil || fetched.Revoked {
		t.Fatalf("unexpected token state: %#v", fetched)
	}

	revoked, err := st.RevokeAccessToken(ctx, token.ID)
	if err != nil {
		t.Fatalf("RevokeAccessToken failed: %v", err)
	}
	if !revoked {
		t.Fatal("expected revocation to change a row")
	}

	fetched, err = st.AccessTokenBySecret(ctx, token.Token)
	if err != nil {
		t.Fatalf("AccessTokenBySecret failed: %v", err)
	}
	if fetched == nil || !fetched.Revoked {
		t.Fatalf("expected revoked token, got %#v", fetched)
	}
}
