package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foliokit/foliocache/app/content"
	"github.com/foliokit/foliocache/app/source"
)

// Pipeline runs one full cache rebuild: load every content type from the
// configured source, parse, and build a fresh CacheDocument. Publishing
// and storage are left to the caller.
type Pipeline struct {
	source  source.Source
	parser  *source.Parser
	builder *content.Builder
}

func New(src source.Source) *Pipeline {
	return &Pipeline{
		source:  src,
		parser:  source.NewParser(),
		builder: content.NewBuilder(),
	}
}

// Run rebuilds the cache document. A failed load for one type is logged and
// treated as zero items for that type; only an all-empty result is fatal.
func (p *Pipeline) Run(ctx context.Context) (*content.CacheDocument, error) {
	rawByType := make(map[content.ContentType][]content.RawContent, len(content.Types))

	for _, contentType := range content.Types {
		items, err := p.source.Load(ctx, contentType)
		if err != nil {
			slog.Warn("Content load failed, treating type as empty",
				"source", p.source.Name(),
				"type", contentType,
				"error", err)
			continue
		}

		parsed := p.parser.RunAll(p.source.Name(), items)
		rawByType[contentType] = parsed

		slog.Info("Content type loaded",
			"source", p.source.Name(),
			"type", contentType,
			"discovered", len(items),
			"parsed", len(parsed))
	}

	doc, err := p.builder.Build(rawByType)
	if err != nil {
		return nil, fmt.Errorf("cache build failed: %w", err)
	}

	slog.Info("Cache document built",
		"portfolio", doc.Metadata.PortfolioCount,
		"blog", doc.Metadata.BlogCount,
		"projects", doc.Metadata.ProjectCount,
		"version", doc.Metadata.Version)

	return doc, nil
}
