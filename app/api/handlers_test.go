package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/foliokit/foliocache/app/cfg"
	"github.com/foliokit/foliocache/app/content"
	"github.com/foliokit/foliocache/app/store"
)

type memStore struct {
	doc *content.CacheDocument
}

func (m *memStore) Get(context.Context) (*content.CacheDocument, error) {
	if m.doc == nil {
		return nil, store.ErrNotFound
	}
	return m.doc, nil
}

func (m *memStore) Put(_ context.Context, doc *content.CacheDocument) error {
	m.doc = doc
	return nil
}

func (m *memStore) Close() error { return nil }

func publishedDocument() *content.CacheDocument {
	items := []content.Item{
		{ID: "devops", Title: "Devops", ContentType: content.TypePortfolio, Category: content.CategoryTechnology},
		{ID: "strategy", Title: "Strategy", ContentType: content.TypePortfolio, Category: content.CategoryStrategy},
	}
	return &content.CacheDocument{
		Portfolio: items,
		Blog:      []content.Item{},
		Projects:  []content.Item{},
		All:       items,
		Metadata: content.Metadata{
			PortfolioCount: 2,
			LastUpdated:    "2025-06-01T12:00:00Z",
			Version:        content.CacheVersion,
		},
	}
}

func setupTestConfig() {
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	cfg.Load()
}

func newTestServer(ms *memStore, apiKey string) *httptest.Server {
	setupTestConfig()
	return httptest.NewServer(NewServer(NewHandler(ms), apiKey))
}

func TestGetCache(t *testing.T) {
	ms := &memStore{doc: publishedDocument()}
	server := newTestServer(ms, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/cache")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache-Version"); got != content.CacheVersion {
		t.Errorf("Expected version header %q, got %q", content.CacheVersion, got)
	}

	var doc content.CacheDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(doc.All) != 2 {
		t.Errorf("Expected 2 items, got %d", len(doc.All))
	}
}

func TestGetCache_NotPublished(t *testing.T) {
	server := newTestServer(&memStore{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/cache")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 before first publish, got %d", resp.StatusCode)
	}
}

func TestGetCacheByType(t *testing.T) {
	server := newTestServer(&memStore{doc: publishedDocument()}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/cache/portfolio")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Items []content.Item `json:"items"`
		Total int            `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("Expected total 2, got %d", body.Total)
	}

	resp, err = http.Get(server.URL + "/cache/pages")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown type, got %d", resp.StatusCode)
	}
}

func TestGetCacheItem(t *testing.T) {
	server := newTestServer(&memStore{doc: publishedDocument()}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/cache/portfolio/devops")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var item content.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if item.Category != content.CategoryTechnology {
		t.Errorf("Unexpected category: %q", item.Category)
	}

	resp, err = http.Get(server.URL + "/cache/blog/devops")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Lookups must be type-scoped, got %d", resp.StatusCode)
	}
}

func postRebuild(t *testing.T, url string, doc *content.CacheDocument, apiKey string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal document: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url+"/api/cache/rebuild", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestRebuildCache(t *testing.T) {
	ms := &memStore{}
	server := newTestServer(ms, "secret")
	defer server.Close()

	resp := postRebuild(t, server.URL, publishedDocument(), "secret")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var result RebuildResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.TotalItems != 2 {
		t.Errorf("Expected totalItems 2, got %d", result.TotalItems)
	}
	if ms.doc == nil || ms.doc.TotalItems() != 2 {
		t.Error("Expected document stored")
	}
}

func TestRebuildCache_RequiresAPIKey(t *testing.T) {
	ms := &memStore{}
	server := newTestServer(ms, "secret")
	defer server.Close()

	resp := postRebuild(t, server.URL, publishedDocument(), "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", resp.StatusCode)
	}

	resp = postRebuild(t, server.URL, publishedDocument(), "wrong")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", resp.StatusCode)
	}

	if ms.doc != nil {
		t.Error("Store must not be touched on auth failure")
	}
}

func TestRebuildCache_RejectsEmptyDocument(t *testing.T) {
	ms := &memStore{doc: publishedDocument()}
	server := newTestServer(ms, "")
	defer server.Close()

	empty := &content.CacheDocument{All: []content.Item{}}
	resp := postRebuild(t, server.URL, empty, "")
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty document, got %d", resp.StatusCode)
	}
	if ms.doc.TotalItems() != 2 {
		t.Error("Published document must survive a rejected rebuild")
	}
}

func TestGetHealth(t *testing.T) {
	server := newTestServer(&memStore{doc: publishedDocument()}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var health map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health["published"] != true {
		t.Errorf("Expected published true, got %v", health["published"])
	}
	if health["version"] == "" || health["version"] == nil {
		t.Errorf("Expected a version, got %v", health["version"])
	}
}
