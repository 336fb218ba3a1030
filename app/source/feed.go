package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/foliokit/foliocache/app/content"
)

var _ Source = (*FeedSource)(nil)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// FeedSource ingests blog items from an upstream RSS/Atom feed. Each entry
// is rewritten as a frontmatter-bearing markdown file so the rest of the
// pipeline sees the exact same shape as file-backed content. Content types
// other than blog yield empty sets.
type FeedSource struct {
	feedURL    string
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
}

func NewFeedSource(feedURL string, timeout time.Duration, userAgent string) *FeedSource {
	if timeout <= 0 {
		timeout = defaultBucketTimeout
	}
	return &FeedSource{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: timeout},
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
	}
}

func (s *FeedSource) Name() string {
	return "feed"
}

func (s *FeedSource) Load(ctx context.Context, contentType content.ContentType) ([]RawItem, error) {
	if contentType != content.TypeBlog {
		return []RawItem{}, nil
	}

	data, err := s.fetchFeed(ctx)
	if err != nil {
		slog.Warn("Feed fetch failed, treating type as empty",
			"source", s.Name(),
			"url", s.feedURL,
			"error", err)
		return []RawItem{}, nil
	}

	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Feed parse failed, treating type as empty",
			"source", s.Name(),
			"url", s.feedURL,
			"error", err)
		return []RawItem{}, nil
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item, err := s.renderEntry(entry)
		if err != nil {
			slog.Warn("Skipping feed entry",
				"source", s.Name(),
				"title", entry.Title,
				"error", err)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *FeedSource) fetchFeed(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
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

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return buf.Bytes(), nil
}

// renderEntry rewrites one feed entry as frontmatter + markdown body. The
// slug doubles as the filename stem so downstream id derivation matches
// file-backed content.
func (s *FeedSource) renderEntry(entry *gofeed.Item) (RawItem, error) {
	slug := Slugify(entry.Title)
	if slug == "" {
		return RawItem{}, fmt.Errorf("entry title %q produced an empty slug", entry.Title)
	}

	fields := frontmatterFields{
		Title:       entry.Title,
		Description: entry.Description,
		Tags:        entry.Categories,
	}
	if entry.PublishedParsed != nil {
		fields.Date = entry.PublishedParsed.UTC().Format("2006-01-02")
	}

	header, err := yaml.Marshal(&fields)
	if err != nil {
		return RawItem{}, fmt.Errorf("failed to render frontmatter: %w", err)
	}

	body := entry.Content
	if body == "" {
		body = entry.Description
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	buf.WriteString("\n")

	return RawItem{Filename: slug + ".md", Data: buf.Bytes()}, nil
}

// Slugify lowercases a title and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
