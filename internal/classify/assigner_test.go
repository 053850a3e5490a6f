package classify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"courses/internal/classify"
	"courses/internal/testsupport"
)

type stubModel struct {
	available bool
	answer    string
	err       error
	calls     int
	prompts   []string
}

func (s *stubModel) Available() bool { return s.available }

func (s *stubModel) Complete(_ context.Context, prompt string, _ int, _ time.Duration) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.err
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Lait  ":          "lait",
		"Pommes\tde  terre": "pommes de terre",
		"":                  "",
		"   ":               "",
		"ŒUFS  frais":       "œufs frais",
	}
	for input, want := range cases {
		if got := classify.Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
	normalized := classify.Normalize("  Un   Deux ")
	if classify.Normalize(normalized) != normalized {
		t.Errorf("Normalize is not idempotent for %q", normalized)
	}
}

func TestAssignSectionKeywordMatch(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	model := &stubModel{available: true, answer: "boissons"}
	assigner := classify.NewAssigner(st, model, nil, time.Second)

	section, err := assigner.AssignSection(context.Background(), "  LAIT  demi-écrémé ")
	if err != nil {
		t.Fatalf("AssignSection: %v", err)
	}
	if section.Slug != "produits_laitiers_oeufs" {
		t.Fatalf("expected dairy section, got %q", section.Slug)
	}
	if model.calls != 0 {
		t.Fatalf("keyword match must not consult the model, got %d calls", model.calls)
	}
}

func TestAssignSectionLongestKeywordWins(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	assigner := classify.NewAssigner(st, nil, nil, time.Second)

	// "pomme de terre" contains "pomme" (fruits) but the longer keyword wins.
	section, err := assigner.AssignSection(context.Background(), "Pommes de terre nouvelles")
	if err != nil {
		t.Fatalf("AssignSection: %v", err)
	}
	if section.Slug != "fruits_legumes" {
		t.Fatalf("expected fruits_legumes, got %q", section.Slug)
	}
}

func TestAssignSectionModelFallbackLearns(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	model := &stubModel{available: true, answer: "épicerie invalide"}
	assigner := classify.NewAssigner(st, model, nil, time.Second)
	ctx := context.Background()

	model.answer = "epicerie"
	section, err := assigner.AssignSection(ctx, "Harissa du marché")
	if err != nil {
		t.Fatalf("AssignSection: %v", err)
	}
	if section.Slug != "epicerie" {
		t.Fatalf("expected model answer to be used, got %q", section.Slug)
	}
	if model.calls != 1 {
		t.Fatalf("expected one model call, got %d", model.calls)
	}

	// The answer is learned: the same name now resolves without the model.
	again, err := assigner.AssignSection(ctx, "harissa du marché")
	if err != nil {
		t.Fatalf("AssignSection: %v", err)
	}
	if again.Slug != "epicerie" {
		t.Fatalf("expected learned keyword to match, got %q", again.Slug)
	}
	if model.calls != 1 {
		t.Fatalf("learned keyword still consulted the model (%d calls)", model.calls)
	}
}

func TestAssignSectionUnknownSlugFallsBack(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	model := &stubModel{available: true, answer: "rayon_inconnu"}
	assigner := classify.NewAssigner(st, model, nil, time.Second)

	section, err := assigner.AssignSection(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("AssignSection: %v", err)
	}
	if section.Slug != "autre" {
		t.Fatalf("expected default section, got %q", section.Slug)
	}
}

func TestAssignSectionModelErrorFallsBack(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	model := &stubModel{available: true, err: errors.New("boom")}
	assigner := classify.NewAssigner(st, model, nil, time.Second)

	section, err := assigner.AssignSection(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("AssignSection: %v", err)
	}
	if section.Slug != "autre" {
		t.Fatalf("expected default section on model error, got %q", section.Slug)
	}
}

func TestAssignSectionWithoutModel(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	assigner := classify.NewAssigner(st, nil, nil, time.Second)

	section, err := assigner.AssignSection(context.Background(), "article jamais vu")
	if err != nil {
		t.Fatalf("AssignSection: %v", err)
	}
	if section.Slug != "autre" {
		t.Fatalf("expected default section, got %q", section.Slug)
	}
}
