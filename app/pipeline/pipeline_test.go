package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/foliokit/foliocache/app/content"
	"github.com/foliokit/foliocache/app/source"
)

func writeContentFile(t *testing.T, dir, contentType, filename, data string) {
	t.Helper()
	typeDir := filepath.Join(dir, contentType)
	if err := os.MkdirAll(typeDir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", typeDir, err)
	}
	if err := os.WriteFile(filepath.Join(typeDir, filename), []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", filename, err)
	}
}

func TestPipeline_Run(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "portfolio", "strategy.md",
		"---\ntitle: Strategy Advisory\ntags:\n  - strategy\n---\nAdvisory work.")
	writeContentFile(t, dir, "blog", "platform-thinking.md",
		"---\ntitle: Platform Thinking\ndate: \"2024-04-02\"\n---\nPlatforms compound.")
	writeContentFile(t, dir, "project", "content-pipeline.md",
		"---\ntitle: Content Pipeline\ntags:\n  - devops\n---\nThe rebuild job.")

	src := source.NewLocalSource(dir, source.Manifest{
		content.TypePortfolio: {"strategy.md"},
		content.TypeBlog:      {"platform-thinking.md"},
		content.TypeProject:   {"content-pipeline.md"},
	})

	doc, err := New(src).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if doc.Metadata.PortfolioCount != 1 || doc.Metadata.BlogCount != 1 || doc.Metadata.ProjectCount != 1 {
		t.Errorf("Unexpected counts: %+v", doc.Metadata)
	}
	if doc.Portfolio[0].Category != content.CategoryStrategy {
		t.Errorf("Expected strategy category, got %q", doc.Portfolio[0].Category)
	}
	if doc.Projects[0].Category != content.CategoryTechnology {
		t.Errorf("Expected technology category, got %q", doc.Projects[0].Category)
	}
	if len(doc.All) != 3 {
		t.Errorf("Expected 3 items in all, got %d", len(doc.All))
	}
}

func TestPipeline_Run_EmptySourceIsFatal(t *testing.T) {
	src := source.NewLocalSource(t.TempDir(), source.Manifest{})

	_, err := New(src).Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for empty build")
	}
	if !errors.Is(err, content.ErrEmptyBuild) {
		t.Errorf("Expected ErrEmptyBuild, got %v", err)
	}
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Load(context.Context, content.ContentType) ([]source.RawItem, error) {
	return nil, errors.New("store unavailable")
}

func TestPipeline_Run_LoadFailureIsEmptyType(t *testing.T) {
	_, err := New(failingSource{}).Run(context.Background())

	// Every type failing leaves nothing to build.
	if !errors.Is(err, content.ErrEmptyBuild) {
		t.Errorf("Expected ErrEmptyBuild when all loads fail, got %v", err)
	}
}
