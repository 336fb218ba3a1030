package content

// Content model types

type ContentType string

const (
	TypePortfolio ContentType = "portfolio"
	TypeBlog      ContentType = "blog"
	TypeProject   ContentType = "project"
)

// Types lists all content types in bucket order.
var Types = []ContentType{TypePortfolio, TypeBlog, TypeProject}

func (t ContentType) IsValid() bool {
	switch t {
	case TypePortfolio, TypeBlog, TypeProject:
		return true
	}
	return false
}

// Item is one markdown-derived unit of content. ID is unique within its
// content type bucket; cross-type collisions are allowed.
type Item struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ContentType ContentType `json:"contentType"`
	Category    string      `json:"category"`
	Tags        []string    `json:"tags"`
	Keywords    []string    `json:"keywords"`
	Content     string      `json:"content"`
	Date        string      `json:"date,omitempty"` // ISO date, required for blog sort
	URL         string      `json:"url"`
}

// RawContent is the normalized output of the source adapters: frontmatter
// fields plus the markdown body, before classification and sorting.
type RawContent struct {
	Filename    string
	Title       string
	Description string
	Tags        []string
	Keywords    []string
	Date        string
	Body        string
}

type Metadata struct {
	PortfolioCount int    `json:"portfolioCount"`
	BlogCount      int    `json:"blogCount"`
	ProjectCount   int    `json:"projectCount"`
	LastUpdated    string `json:"lastUpdated"`
	Version        string `json:"version"`
}

// CacheDocument is the full published artifact. Per-type buckets carry their
// own sort order; All is re-sorted alphabetically across types.
type CacheDocument struct {
	Portfolio []Item   `json:"portfolio"`
	Blog      []Item   `json:"blog"`
	Projects  []Item   `json:"projects"`
	All       []Item   `json:"all"`
	Metadata  Metadata `json:"metadata"`
}

// Bucket returns the per-type bucket of the document.
func (d *CacheDocument) Bucket(t ContentType) []Item {
	switch t {
	case TypePortfolio:
		return d.Portfolio
	case TypeBlog:
		return d.Blog
	case TypeProject:
		return d.Projects
	}
	return nil
}

// TotalItems returns the number of items across all buckets.
func (d *CacheDocument) TotalItems() int {
	return len(d.All)
}
