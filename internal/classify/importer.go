package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courses/internal/services/llm"
	"courses/internal/store"
)

const (
	importMaxInputLen = 4000
	importMaxTokens   = 2000
)

// ErrUnavailable reports that the language model is not configured or not
// reachable, so free-text import cannot run.
var ErrUnavailable = errors.New("classifier model unavailable")

// ImportedItem is one structured entry extracted from free text. SectionSlug
// is empty when the model returned a slug outside the known catalog; callers
// should classify such items themselves.
type ImportedItem struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	SectionSlug string `json:"section_slug"`
}

// Importer turns pasted free text into structured items via the model.
type Importer struct {
	store         *store.Store
	client        Completer
	logger        *slog.Logger
	importTimeout time.Duration
}

// NewImporter wires an Importer over the store and model client.
func NewImporter(st *store.Store, client Completer, logger *slog.Logger, importTimeout time.Duration) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		store:         st,
		client:        client,
		logger:        logger,
		importTimeout: importTimeout,
	}
}

// ParseText extracts grocery items from raw free text. Input is capped at
// importMaxInputLen runes. It fails closed: any model or decode problem
// yields no items rather than guessed ones.
func (im *Importer) ParseText(ctx context.Context, raw string) ([]ImportedItem, error) {
	if im.client == nil || !im.client.Available() {
		return nil, ErrUnavailable
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, nil
	}
	if runes := []rune(text); len(runes) > importMaxInputLen {
		text = string(runes[:importMaxInputLen])
	}

	sections, err := im.store.Sections(ctx)
	if err != nil {
		return nil, err
	}

	content, err := im.client.Complete(ctx, importPrompt(sections, text), importMaxTokens, im.importTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var parsed []ImportedItem
	if err := llm.DecodeJSON(content, &parsed); err != nil {
		im.logger.Warn("import response was not valid JSON", slog.Any("error", err))
		return nil, nil
	}

	known := make(map[string]struct{}, len(sections))
	for _, section := range sections {
		known[section.Slug] = struct{}{}
	}

	items := make([]ImportedItem, 0, len(parsed))
	for _, entry := range parsed {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		slug := strings.TrimSpace(strings.ToLower(entry.SectionSlug))
		if _, ok := known[slug]; !ok {
			slug = ""
		}
		items = append(items, ImportedItem{
			Name:        name,
			Quantity:    strings.TrimSpace(entry.Quantity),
			SectionSlug: slug,
		})
	}
	return items, nil
}

func importPrompt(sections []store.Section, text string) string {
	var b strings.Builder
	b.WriteString("Tu transformes une liste de courses en texte libre en données structurées.\n")
	b.WriteString("Rayons disponibles (slug = nom) :\n")
	for _, section := range sections {
		fmt.Fprintf(&b, "- %s = %s\n", section.Slug, section.Label)
	}
	b.WriteString("Réponds uniquement avec un tableau JSON d'objets ")
	b.WriteString(`{"name": "...", "quantity": "...", "section_slug": "..."}`)
	b.WriteString(" sans texte autour. Laisse quantity vide si elle n'est pas précisée.\n")
	b.WriteString("Texte :\n")
	b.WriteString(text)
	return b.String()
}
