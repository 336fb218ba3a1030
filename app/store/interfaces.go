package store

import (
	"context"
	"errors"

	"github.com/foliokit/foliocache/app/content"
)

// CacheKey is the single fixed key the whole document lives under.
const CacheKey = "content:cache"

// ErrNotFound is returned when no document has been published yet.
var ErrNotFound = errors.New("no cache document published")

// Store is a durable key-value backend for the published cache. Put replaces
// the whole document in one write; readers never observe a partial update.
type Store interface {
	Get(ctx context.Context) (*content.CacheDocument, error)
	Put(ctx context.Context, doc *content.CacheDocument) error
	Close() error
}
