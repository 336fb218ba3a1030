package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/foliokit/foliocache/app/content"
)

const defaultFetchTimeout = 10 * time.Second

// FetchFunc retrieves the serialized CacheDocument from its source.
// Injectable so tests and alternate transports can replace the HTTP fetch.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Service holds the cache document for the lifetime of a session. Init
// fetches once; accessors never fail, returning empty results before Init
// completes and fallback data when the remote cache is unavailable.
type Service struct {
	fetch        FetchFunc
	fallbackPath string

	mu    sync.RWMutex
	doc   *content.CacheDocument
	ready bool
}

// NewService builds a reader over an HTTP cache endpoint with a local
// fallback snapshot file.
func NewService(cacheURL, fallbackPath string) *Service {
	return &Service{
		fetch:        httpFetch(cacheURL),
		fallbackPath: fallbackPath,
	}
}

// NewServiceWithFetch builds a reader with a custom fetch function.
func NewServiceWithFetch(fetch FetchFunc, fallbackPath string) *Service {
	return &Service{
		fetch:        fetch,
		fallbackPath: fallbackPath,
	}
}

func httpFetch(cacheURL string) FetchFunc {
	httpClient := &http.Client{Timeout: defaultFetchTimeout}

	return func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cacheURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("cache fetch failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cache fetch returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	}
}

// Init fetches the published cache, substituting the bundled fallback on any
// failure. The service becomes ready once either succeeds; end users never
// see an error from this path.
func (s *Service) Init(ctx context.Context) error {
	doc, err := s.fetchRemote(ctx)
	if err != nil {
		slog.Warn("Remote cache unavailable, using local fallback", "error", err)
		doc, err = s.loadFallback()
		if err != nil {
			return fmt.Errorf("fallback snapshot unavailable: %w", err)
		}
	}

	s.mu.Lock()
	s.doc = doc
	s.ready = true
	s.mu.Unlock()

	slog.Info("Content service ready",
		"total", doc.TotalItems(),
		"version", doc.Metadata.Version,
		"lastUpdated", doc.Metadata.LastUpdated)

	return nil
}

func (s *Service) fetchRemote(ctx context.Context) (*content.CacheDocument, error) {
	data, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return decodeDocument(data)
}

func (s *Service) loadFallback() (*content.CacheDocument, error) {
	data, err := os.ReadFile(s.fallbackPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback snapshot: %w", err)
	}
	return decodeDocument(data)
}

// decodeDocument validates the minimum document shape: a present all list.
func decodeDocument(data []byte) (*content.CacheDocument, error) {
	var doc content.CacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed cache document: %w", err)
	}
	if doc.All == nil {
		return nil, errors.New("cache document is missing the all list")
	}
	return &doc, nil
}

// IsReady reports whether Init has completed.
func (s *Service) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// GetAllContent returns every item across content types. The returned slice
// is the caller's to mutate; the held document is never exposed directly.
func (s *Service) GetAllContent() []content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return []content.Item{}
	}
	return copyItems(s.doc.All)
}

// GetByType returns the sorted bucket for one content type. The returned
// slice is the caller's to mutate; the held document is never exposed
// directly.
func (s *Service) GetByType(contentType content.ContentType) []content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return []content.Item{}
	}
	return copyItems(s.doc.Bucket(contentType))
}

func copyItems(items []content.Item) []content.Item {
	out := make([]content.Item, len(items))
	copy(out, items)
	return out
}

// GetByID returns one item by type-scoped id, or nil when absent.
func (s *Service) GetByID(contentType content.ContentType, id string) *content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil
	}
	for _, item := range s.doc.Bucket(contentType) {
		if item.ID == id {
			return &item
		}
	}
	return nil
}

// Metadata returns the published document metadata.
func (s *Service) Metadata() content.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return content.Metadata{}
	}
	return s.doc.Metadata
}
