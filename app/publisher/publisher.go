package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/foliokit/foliocache/app/content"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of a failure response is kept for logging.
const maxErrorBody = 4096

// Result reports a successful publish.
type Result struct {
	OK         bool `json:"ok"`
	TotalItems int  `json:"totalItems"`
}

// PublishError covers both non-2xx responses and transport failures.
// Status is zero when the request never reached the endpoint.
type PublishError struct {
	Status int
	Body   string
	Err    error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("publish request failed: %v", e.Err)
	}
	return fmt.Sprintf("publish rejected with status %d: %s", e.Status, e.Body)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publisher POSTs a built CacheDocument to the rebuild endpoint.
type Publisher struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewPublisher(endpoint, apiKey string, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Publisher{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Run serializes the document and POSTs it wholesale. Any failure is
// returned as *PublishError; callers decide whether it is fatal.
func (p *Publisher) Run(ctx context.Context, doc *content.CacheDocument) (*Result, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize cache document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &PublishError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("Cache publish rejected",
			"endpoint", p.endpoint,
			"status", resp.StatusCode,
			"body", string(body))
		return nil, &PublishError{Status: resp.StatusCode, Body: string(body)}
	}

	result := &Result{OK: true, TotalItems: doc.TotalItems()}
	if err := json.Unmarshal(body, result); err != nil {
		// A 2xx with an unparseable body still counts as published.
		slog.Debug("Publish response body not parseable", "error", err)
	}
	result.OK = true

	slog.Info("Cache published",
		"endpoint", p.endpoint,
		"total", result.TotalItems)

	return result, nil
}
