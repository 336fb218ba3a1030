package content

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CacheVersion is bumped manually between releases of the cache shape.
const CacheVersion = "1.1.0"

const descriptionLimit = 200

// ErrEmptyBuild is returned when every content type produced zero items.
// An empty cache is never a valid publish artifact.
var ErrEmptyBuild = errors.New("cache build produced no content items")

type Builder struct {
	titleCaser cases.Caser

	// Now is the timestamp source for metadata stamping, overridable in tests.
	Now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{
		titleCaser: cases.Title(language.English),
		Now:        time.Now,
	}
}

// Build aggregates raw content into a fresh CacheDocument: maps each raw
// record into an Item, applies the per-bucket and combined sort rules, and
// stamps metadata. Full rebuild only, no incremental updates.
func (b *Builder) Build(rawByType map[ContentType][]RawContent) (*CacheDocument, error) {
	doc := &CacheDocument{
		Portfolio: b.buildBucket(TypePortfolio, rawByType[TypePortfolio]),
		Blog:      b.buildBucket(TypeBlog, rawByType[TypeBlog]),
		Projects:  b.buildBucket(TypeProject, rawByType[TypeProject]),
	}

	sortByTitle(doc.Portfolio)
	sortByTitle(doc.Projects)
	sortByDateDesc(doc.Blog)

	doc.All = make([]Item, 0, len(doc.Portfolio)+len(doc.Blog)+len(doc.Projects))
	doc.All = append(doc.All, doc.Portfolio...)
	doc.All = append(doc.All, doc.Blog...)
	doc.All = append(doc.All, doc.Projects...)
	sortByTitle(doc.All)

	if len(doc.All) == 0 {
		return nil, ErrEmptyBuild
	}

	doc.Metadata = Metadata{
		PortfolioCount: len(doc.Portfolio),
		BlogCount:      len(doc.Blog),
		ProjectCount:   len(doc.Projects),
		LastUpdated:    b.Now().UTC().Format(time.RFC3339),
		Version:        CacheVersion,
	}

	return doc, nil
}

func (b *Builder) buildBucket(contentType ContentType, raw []RawContent) []Item {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, b.buildItem(contentType, r))
	}
	return items
}

func (b *Builder) buildItem(contentType ContentType, raw RawContent) Item {
	id := strings.TrimSuffix(raw.Filename, path.Ext(raw.Filename))

	title := raw.Title
	if title == "" {
		title = b.humanize(id)
	}

	description := raw.Description
	if description == "" {
		description = truncate(raw.Body, descriptionLimit)
	}

	return Item{
		ID:          id,
		Title:       title,
		Description: description,
		ContentType: contentType,
		Category:    Classify(raw.Tags, raw.Filename),
		Tags:        orEmpty(raw.Tags),
		Keywords:    orEmpty(raw.Keywords),
		Content:     raw.Body,
		Date:        raw.Date,
		URL:         fmt.Sprintf("/%s/%s", contentType, id),
	}
}

// humanize turns a hyphenated id into a display title, e.g.
// "cloud-migration" -> "Cloud Migration".
func (b *Builder) humanize(id string) string {
	return b.titleCaser.String(strings.ReplaceAll(id, "-", " "))
}

func truncate(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func sortByTitle(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Title < items[j].Title
	})
}

// sortByDateDesc orders blog items reverse-chronologically. A missing date
// compares as the empty string and therefore sorts after all dated items.
func sortByDateDesc(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
}
