package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/foliokit/foliocache/app/content"
)

var _ Source = (*LocalSource)(nil)

// Manifest is the explicit per-type filename list read by the local source.
// Content directories are not listed dynamically; the manifest is the source
// of truth for which files belong to the site.
type Manifest map[content.ContentType][]string

// DefaultManifest mirrors the file set bundled with the site.
var DefaultManifest = Manifest{
	content.TypePortfolio: {
		"strategy.md",
		"talent.md",
		"devops.md",
		"analytics.md",
		"governance-pmo.md",
	},
	content.TypeBlog: {
		"digital-transformation.md",
		"platform-thinking.md",
		"ai-adoption.md",
	},
	content.TypeProject: {
		"portfolio-site.md",
		"content-pipeline.md",
	},
}

// LoadManifest reads a YAML manifest file mapping content types to filename
// lists. Unknown content types are rejected.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	for contentType := range manifest {
		if !contentType.IsValid() {
			return nil, fmt.Errorf("unknown content type in manifest: %s", contentType)
		}
	}

	return manifest, nil
}

// LocalSource reads content files from a local directory tree laid out as
// {dir}/{contentType}/{filename}.
type LocalSource struct {
	dir      string
	manifest Manifest
}

func NewLocalSource(dir string, manifest Manifest) *LocalSource {
	if manifest == nil {
		manifest = DefaultManifest
	}
	return &LocalSource{dir: dir, manifest: manifest}
}

func (s *LocalSource) Name() string {
	return "local"
}

// Load reads each manifest file for the type. A missing or unreadable file
// is skipped with a warning, not an error.
func (s *LocalSource) Load(_ context.Context, contentType content.ContentType) ([]RawItem, error) {
	items := make([]RawItem, 0, len(s.manifest[contentType]))

	for _, filename := range s.manifest[contentType] {
		path := filepath.Join(s.dir, string(contentType), filename)

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable content file",
				"source", s.Name(),
				"type", contentType,
				"file", filename,
				"error", err)
			continue
		}

		items = append(items, RawItem{Filename: filename, Data: data})
	}

	return items, nil
}
