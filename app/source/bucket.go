package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/foliokit/foliocache/app/content"
)

var _ Source = (*BucketSource)(nil)

const defaultBucketTimeout = 30 * time.Second

// listLimit bounds one discovery request; content sets are far smaller.
const listLimit = 1000

type listResponse struct {
	Objects []struct {
		Key string `json:"key"`
	} `json:"objects"`
}

// BucketSource discovers and fetches content files from an object store
// exposed over HTTP: a _list endpoint for discovery, plain GETs for bodies.
type BucketSource struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func NewBucketSource(baseURL string, timeout time.Duration, userAgent string) *BucketSource {
	if timeout <= 0 {
		timeout = defaultBucketTimeout
	}
	return &BucketSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

func (s *BucketSource) Name() string {
	return "bucket"
}

// Load lists the {contentType}/ prefix and fetches every .md object. A
// failed list yields an empty set for the type; a failed fetch skips the
// one object.
func (s *BucketSource) Load(ctx context.Context, contentType content.ContentType) ([]RawItem, error) {
	keys, err := s.listKeys(ctx, contentType)
	if err != nil {
		slog.Warn("Object listing failed, treating type as empty",
			"source", s.Name(),
			"type", contentType,
			"error", err)
		return []RawItem{}, nil
	}

	items := make([]RawItem, 0, len(keys))
	for _, key := range keys {
		data, err := s.fetchObject(ctx, key)
		if err != nil {
			slog.Warn("Skipping unfetchable object",
				"source", s.Name(),
				"key", key,
				"error", err)
			continue
		}
		items = append(items, RawItem{Filename: path.Base(key), Data: data})
	}

	return items, nil
}

func (s *BucketSource) listKeys(ctx context.Context, contentType content.ContentType) ([]string, error) {
	listURL := fmt.Sprintf("%s/_list?prefix=%s&limit=%d",
		s.baseURL, url.QueryEscape(string(contentType)+"/"), listLimit)

	body, err := s.get(ctx, listURL)
	if err != nil {
		return nil, err
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}

	keys := make([]string, 0, len(list.Objects))
	for _, obj := range list.Objects {
		if strings.HasSuffix(obj.Key, ".md") {
			keys = append(keys, obj.Key)
		}
	}

	return keys, nil
}

func (s *BucketSource) fetchObject(ctx context.Context, key string) ([]byte, error) {
	return s.get(ctx, s.baseURL+"/"+key)
}

func (s *BucketSource) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
