package source

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/foliokit/foliocache/app/content"
)

// importLine matches JSX-style import statements left over from the
// rendering pipeline; they are stripped from the stored markdown body.
var importLine = regexp.MustCompile(`^import\s+.*$`)

type frontmatterFields struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Keywords    []string `yaml:"keywords"`
	Date        string   `yaml:"date"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses one raw markdown file into a normalized RawContent record.
// Malformed frontmatter is an error; callers skip the item and continue.
func (p *Parser) Run(item RawItem) (content.RawContent, error) {
	var fields frontmatterFields

	body, err := frontmatter.Parse(bytes.NewReader(item.Data), &fields)
	if err != nil {
		return content.RawContent{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	return content.RawContent{
		Filename:    item.Filename,
		Title:       fields.Title,
		Description: fields.Description,
		Tags:        fields.Tags,
		Keywords:    fields.Keywords,
		Date:        fields.Date,
		Body:        stripImportLines(string(body)),
	}, nil
}

// RunAll parses a batch, skipping malformed items with a warning.
func (p *Parser) RunAll(sourceName string, items []RawItem) []content.RawContent {
	parsed := make([]content.RawContent, 0, len(items))
	for _, item := range items {
		record, err := p.Run(item)
		if err != nil {
			slog.Warn("Skipping malformed content item",
				"source", sourceName,
				"file", item.Filename,
				"error", err)
			continue
		}
		parsed = append(parsed, record)
	}
	return parsed
}

func stripImportLines(body string) string {
	lines := strings.Split(body, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if importLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
