package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"courses/internal/api"
	"courses/internal/auth"
	"courses/internal/classify"
	"courses/internal/items"
	"courses/internal/room"
	"courses/internal/store"
	"courses/internal/testsupport"
)

type stubModel struct {
	available bool
	answer    string
	err       error
}

func (s *stubModel) Available() bool { return s.available }

func (s *stubModel) Complete(context.Context, string, int, time.Duration) (string, error) {
	return s.answer, s.err
}

type harness struct {
	server   *httptest.Server
	store    *store.Store
	registry *room.Registry
}

type harnessOptions struct {
	authRequired bool
	model        classify.Completer
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	assigner := classify.NewAssigner(st, opts.model, nil, time.Second)
	importer := classify.NewImporter(st, opts.model, nil, time.Second)
	svc := items.NewService(st, assigner, nil)
	registry := room.NewRegistry(svc, nil)
	authorizer := auth.NewAuthorizer(st, opts.authRequired)

	mux := http.NewServeMux()
	api.NewServer(registry, svc, importer, authorizer, st, nil).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &harness{server: server, store: st, registry: registry}
}

func (h *harness) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("bad JSON body %s: %v", data, err)
		}
	}
	return resp, decoded
}

func TestHealth(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	resp, body := h.do(t, http.MethodGet, "/api/health", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", resp.StatusCode, body)
	}
}

func TestAuthGate(t *testing.T) {
	h := newHarness(t, harnessOptions{authRequired: true})

	resp, body := h.do(t, http.MethodGet, "/api/lists", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d %v", resp.StatusCode, body)
	}

	token, err := h.store.CreateAccessToken(context.Background(), "cuisine")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	resp, _ = h.do(t, http.MethodGet, "/api/lists?token="+token.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestSections(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	resp, body := h.do(t, http.MethodGet, "/api/sections", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sections = %d", resp.StatusCode)
	}
	sections := body["sections"].([]any)
	if len(sections) != 11 {
		t.Fatalf("expected 11 sections, got %d", len(sections))
	}
	first := sections[0].(map[string]any)
	if first["slug"] != "fruits_legumes" {
		t.Fatalf("sections not in aisle order: %v", first)
	}
}

func TestListLifecycle(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	resp, created := h.do(t, http.MethodPost, "/api/lists", map[string]any{"name": ""})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create list = %d %v", resp.StatusCode, created)
	}
	listID := created["id"].(string)
	if created["name"].(string) == "" {
		t.Fatal("default name missing")
	}

	resp, detail := h.do(t, http.MethodGet, "/api/lists/"+listID, nil)
	if resp.StatusCode != http.StatusOK || detail["id"] != listID {
		t.Fatalf("detail = %d %v", resp.StatusCode, detail)
	}

	resp, updated := h.do(t, http.MethodPatch, "/api/lists/"+listID, map[string]any{"name": "Week-end", "archived": true})
	if resp.StatusCode != http.StatusOK || updated["name"] != "Week-end" || updated["archived"] != true {
		t.Fatalf("update = %d %v", resp.StatusCode, updated)
	}

	resp, index := h.do(t, http.MethodGet, "/api/lists", nil)
	if resp.StatusCode != http.StatusOK || len(index["lists"].([]any)) != 1 {
		t.Fatalf("index = %d %v", resp.StatusCode, index)
	}

	resp, _ = h.do(t, http.MethodDelete, "/api/lists/"+listID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete = %d", resp.StatusCode)
	}
	resp, body := h.do(t, http.MethodGet, "/api/lists/"+listID, nil)
	if resp.StatusCode != http.StatusNotFound || body["error"] != items.MsgListNotFound {
		t.Fatalf("deleted detail = %d %v", resp.StatusCode, body)
	}

	resp, body = h.do(t, http.MethodGet, "/api/lists/pas-un-uuid", nil)
	if resp.StatusCode != http.StatusNotFound || body["error"] != items.MsgListNotFound {
		t.Fatalf("bad id = %d %v", resp.StatusCode, body)
	}
}

func TestItemEndpoints(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	list := testsupport.NewList(t, h.store, "Courses")
	base := "/api/lists/" + list.ID.String()

	// A room subscriber sees the HTTP mutation.
	sub := h.registry.Subscribe(list.ID)
	t.Cleanup(func() { h.registry.Unsubscribe(sub) })

	resp, created := h.do(t, http.MethodPost, base+"/items", map[string]any{"name": "Lait", "quantity": "1 l"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item = %d %v", resp.StatusCode, created)
	}
	if created["section_slug"] != "produits_laitiers_oeufs" {
		t.Fatalf("item not classified: %v", created)
	}
	itemID := created["id"].(string)

	select {
	case frame := <-sub.Frames():
		var event map[string]any
		if err := json.Unmarshal(frame, &event); err != nil {
			t.Fatalf("bad event: %v", err)
		}
		if event["action"] != "item_added" {
			t.Fatalf("expected item_added broadcast, got %v", event)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("HTTP mutation was not broadcast to the room")
	}

	resp, body := h.do(t, http.MethodPost, base+"/items", map[string]any{"name": "  "})
	if resp.StatusCode != http.StatusBadRequest || body["error"] != items.MsgNameRequired {
		t.Fatalf("blank item = %d %v", resp.StatusCode, body)
	}

	resp, updated := h.do(t, http.MethodPatch, base+"/items/"+itemID, map[string]any{"checked": true})
	if resp.StatusCode != http.StatusOK || updated["checked"] != true {
		t.Fatalf("update item = %d %v", resp.StatusCode, updated)
	}

	resp, body = h.do(t, http.MethodPatch, base+"/items/"+uuid.NewString(), map[string]any{"checked": true})
	if resp.StatusCode != http.StatusNotFound || body["error"] != items.MsgItemNotFound {
		t.Fatalf("missing item = %d %v", resp.StatusCode, body)
	}

	resp, _ = h.do(t, http.MethodDelete, base+"/items/"+itemID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete item = %d", resp.StatusCode)
	}
}

func TestReorderEndpoint(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	list := testsupport.NewList(t, h.store, "Courses")
	a := testsupport.NewItem(t, h.store, list, "Abricot", "", "fruits_legumes")
	b := testsupport.NewItem(t, h.store, list, "Banane", "", "fruits_legumes")
	sectionID := testsupport.SectionID(t, h.store, "fruits_legumes")

	resp, body := h.do(t, http.MethodPost, "/api/lists/"+list.ID.String()+"/reorder", map[string]any{
		"item_orders": []map[string]any{
			{"section_id": sectionID, "item_ids": []string{b.ID.String(), a.ID.String()}},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reorder = %d %v", resp.StatusCode, body)
	}
	if body["applied"].(float64) != 2 {
		t.Fatalf("expected 2 applied, got %v", body["applied"])
	}
	sections := body["list"].(map[string]any)["sections"].([]any)
	firstItems := sections[0].(map[string]any)["items"].([]any)
	if firstItems[0].(map[string]any)["name"] != "Banane" {
		t.Fatalf("order not applied: %v", firstItems)
	}
}

func TestDeduplicateEndpoint(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	list := testsupport.NewList(t, h.store, "Courses")
	testsupport.NewItem(t, h.store, list, "Pomme", "1", "fruits_legumes")
	testsupport.NewItem(t, h.store, list, "Pommes", "2", "fruits_legumes")

	resp, body := h.do(t, http.MethodPost, "/api/lists/"+list.ID.String()+"/deduplicate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deduplicate = %d %v", resp.StatusCode, body)
	}
	if body["removed"].(float64) != 1 {
		t.Fatalf("expected 1 removed, got %v", body["removed"])
	}
}

func TestImportEndpoint(t *testing.T) {
	model := &stubModel{
		available: true,
		answer:    `[{"name": "Lait", "quantity": "1 l", "section_slug": "produits_laitiers_oeufs"}, {"name": "Pain", "quantity": "", "section_slug": "boulangerie"}]`,
	}
	h := newHarness(t, harnessOptions{model: model})
	list := testsupport.NewList(t, h.store, "Courses")

	resp, body := h.do(t, http.MethodPost, "/api/lists/"+list.ID.String()+"/import", map[string]any{"text": "lait et du pain"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("import = %d %v", resp.StatusCode, body)
	}
	if body["created"].(float64) != 2 {
		t.Fatalf("expected 2 created, got %v", body["created"])
	}

	listItems, err := h.store.ListItems(context.Background(), list.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(listItems) != 2 {
		t.Fatalf("expected 2 items in store, got %d", len(listItems))
	}
}

func TestImportUnavailable(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	list := testsupport.NewList(t, h.store, "Courses")

	resp, body := h.do(t, http.MethodPost, "/api/lists/"+list.ID.String()+"/import", map[string]any{"text": "lait"})
	if resp.StatusCode != http.StatusServiceUnavailable || body["error"] != "llm_unavailable" {
		t.Fatalf("import without model = %d %v", resp.StatusCode, body)
	}
}
