package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"courses/internal/items"
	"courses/internal/merge"
)

// apiClient is a thin wrapper over the daemon's REST surface.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(base, token string) *apiClient {
	return &apiClient{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 60 * time.Second},
	}
}

type dedupeResult struct {
	Removed int               `json:"removed"`
	List    items.ListPayload `json:"list"`
}

type importResult struct {
	Created int               `json:"created"`
	List    items.ListPayload `json:"list"`
}

func (c *apiClient) lists() ([]items.SummaryPayload, error) {
	var out struct {
		Lists []items.SummaryPayload `json:"lists"`
	}
	if err := c.do(http.MethodGet, "/api/lists", nil, &out); err != nil {
		return nil, err
	}
	return out.Lists, nil
}

func (c *apiClient) createList(name string) (*items.ListPayload, error) {
	var out items.ListPayload
	if err := c.do(http.MethodPost, "/api/lists", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) listDetail(listID string) (*items.ListPayload, error) {
	var out items.ListPayload
	if err := c.do(http.MethodGet, "/api/lists/"+listID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) deleteList(listID string) error {
	return c.do(http.MethodDelete, "/api/lists/"+listID, nil, nil)
}

func (c *apiClient) createItem(listID string, input items.ItemInput) (*items.ItemPayload, error) {
	body := map[string]string{
		"name":         input.Name,
		"quantity":     input.Quantity,
		"notes":        input.Notes,
		"section_slug": input.SectionSlug,
	}
	var out items.ItemPayload
	if err := c.do(http.MethodPost, "/api/lists/"+listID+"/items", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) deduplicate(listID string) (*dedupeResult, error) {
	var out dedupeResult
	if err := c.do(http.MethodPost, "/api/lists/"+listID+"/deduplicate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) importText(listID, text string) (*importResult, error) {
	var out importResult
	if err := c.do(http.MethodPost, "/api/lists/"+listID+"/import", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) reorder(listID string, ops []merge.Op) error {
	return c.do(http.MethodPost, "/api/lists/"+listID+"/reorder", map[string]any{"item_orders": ops}, nil)
}

func (c *apiClient) do(method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("serveur injoignable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			return fmt.Errorf("%s", failure.Error)
		}
		return fmt.Errorf("reponse %d du serveur", resp.StatusCode)
	}
	if target == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
