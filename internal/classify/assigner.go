package classify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"courses/internal/store"
)

const (
	assignMaxInputLen  = 200
	assignMaxTokens    = 20
	assignPromptHeader = "Tu es un assistant qui range des articles de courses dans les rayons d'un supermarché français."
)

// Completer is the language-model surface the classifier needs.
type Completer interface {
	Available() bool
	Complete(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error)
}

// Normalize canonicalizes an item name for keyword matching: trimmed,
// lowercased, inner whitespace collapsed to single spaces.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Assigner resolves item names to sections.
type Assigner struct {
	store         *store.Store
	client        Completer
	logger        *slog.Logger
	assignTimeout time.Duration
}

// NewAssigner wires an Assigner over the store and an optional model client.
// A nil client disables the fallback; unmatched items land in the default
// section.
func NewAssigner(st *store.Store, client Completer, logger *slog.Logger, assignTimeout time.Duration) *Assigner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assigner{
		store:         st,
		client:        client,
		logger:        logger,
		assignTimeout: assignTimeout,
	}
}

// AssignSection picks the section for an item name. Keyword rules win; the
// longest matching keyword is used, with the lexically smallest keyword
// breaking length ties. When no rule matches the model is consulted and its
// answer, if it names a known section, is learned as a new keyword rule.
func (a *Assigner) AssignSection(ctx context.Context, name string) (*store.Section, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return a.defaultSection(ctx)
	}

	if section, err := a.matchKeyword(ctx, normalized); err != nil {
		return nil, err
	} else if section != nil {
		return section, nil
	}

	if a.client != nil && a.client.Available() {
		section, err := a.askModel(ctx, normalized)
		if err != nil {
			a.logger.Warn("classifier model unavailable, using default section",
				slog.String("item", normalized),
				slog.Any("error", err))
		} else if section != nil {
			if err := a.store.UpsertKeyword(ctx, normalized, section.ID); err != nil {
				a.logger.Warn("failed to learn keyword",
					slog.String("keyword", normalized),
					slog.Any("error", err))
			}
			return section, nil
		}
	}

	return a.defaultSection(ctx)
}

func (a *Assigner) matchKeyword(ctx context.Context, normalized string) (*store.Section, error) {
	rules, err := a.store.KeywordRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load keyword rules: %w", err)
	}
	// Rules arrive in lexical order; a stable sort by descending length keeps
	// that order among equal-length keywords.
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].Keyword) > len(rules[j].Keyword)
	})
	for _, rule := range rules {
		if strings.Contains(normalized, rule.Keyword) {
			section, err := a.store.SectionByID(ctx, rule.SectionID)
			if err != nil {
				return nil, err
			}
			if section != nil {
				return section, nil
			}
		}
	}
	return nil, nil
}

func (a *Assigner) askModel(ctx context.Context, normalized string) (*store.Section, error) {
	sections, err := a.store.Sections(ctx)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, nil
	}

	input := normalized
	if len(input) > assignMaxInputLen {
		input = input[:assignMaxInputLen]
	}

	content, err := a.client.Complete(ctx, assignPrompt(sections, input), assignMaxTokens, a.assignTimeout)
	if err != nil {
		return nil, err
	}
	slug := strings.Trim(strings.TrimSpace(strings.ToLower(content)), "\"'`.")
	for i := range sections {
		if sections[i].Slug == slug {
			return &sections[i], nil
		}
	}
	a.logger.Warn("classifier model returned unknown section",
		slog.String("item", input),
		slog.String("answer", content))
	return nil, nil
}

func assignPrompt(sections []store.Section, item string) string {
	var b strings.Builder
	b.WriteString(assignPromptHeader)
	b.WriteString("\nRayons disponibles (slug = nom) :\n")
	for _, section := range sections {
		fmt.Fprintf(&b, "- %s = %s\n", section.Slug, section.Label)
	}
	b.WriteString("Réponds uniquement avec le slug du rayon le plus adapté, sans explication.\n")
	fmt.Fprintf(&b, "Article : %s", item)
	return b.String()
}

func (a *Assigner) defaultSection(ctx context.Context) (*store.Section, error) {
	section, err := a.store.SectionBySlug(ctx, store.DefaultSectionSlug)
	if err != nil {
		return nil, err
	}
	if section != nil {
		return section, nil
	}
	section, err = a.store.FirstSection(ctx)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, fmt.Errorf("no sections configured")
	}
	return section, nil
}
