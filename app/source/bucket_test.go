package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foliokit/foliocache/app/content"
)

func TestBucketSource_Load(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_list":
			if got := r.URL.Query().Get("prefix"); got != "portfolio/" {
				t.Errorf("Expected prefix 'portfolio/', got %q", got)
			}
			fmt.Fprint(w, `{"objects":[{"key":"portfolio/strategy.md"},{"key":"portfolio/notes.txt"},{"key":"portfolio/talent.md"}]}`)
		case "/portfolio/strategy.md":
			fmt.Fprint(w, "---\ntitle: Strategy\n---\nbody")
		case "/portfolio/talent.md":
			fmt.Fprint(w, "---\ntitle: Talent\n---\nbody")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	src := NewBucketSource(server.URL, 5*time.Second, "foliocache-test")

	items, err := src.Load(context.Background(), content.TypePortfolio)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 markdown items (non-.md filtered), got %d", len(items))
	}
	if items[0].Filename != "strategy.md" || items[1].Filename != "talent.md" {
		t.Errorf("Unexpected filenames: %q, %q", items[0].Filename, items[1].Filename)
	}
}

func TestBucketSource_Load_ListFailureIsEmptyNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewBucketSource(server.URL, 5*time.Second, "")

	items, err := src.Load(context.Background(), content.TypeBlog)
	if err != nil {
		t.Fatalf("Expected list failure to be non-fatal, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty set on list failure, got %d items", len(items))
	}
}

func TestBucketSource_Load_FetchFailureSkipsItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_list":
			fmt.Fprint(w, `{"objects":[{"key":"blog/good.md"},{"key":"blog/broken.md"}]}`)
		case "/blog/good.md":
			fmt.Fprint(w, "---\ntitle: Good\n---\nbody")
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	src := NewBucketSource(server.URL, 5*time.Second, "")

	items, err := src.Load(context.Background(), content.TypeBlog)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected broken item to be skipped, got %d items", len(items))
	}
	if items[0].Filename != "good.md" {
		t.Errorf("Unexpected item: %q", items[0].Filename)
	}
}

func TestBucketSource_Load_UnreachableHostIsEmptyNotFatal(t *testing.T) {
	src := NewBucketSource("http://127.0.0.1:1", 500*time.Millisecond, "")

	items, err := src.Load(context.Background(), content.TypePortfolio)
	if err != nil {
		t.Fatalf("Expected network failure to be non-fatal, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty set, got %d items", len(items))
	}
}
