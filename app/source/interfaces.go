package source

import (
	"context"

	"github.com/foliokit/foliocache/app/content"
)

// RawItem is one undecoded content file as delivered by a backing store.
type RawItem struct {
	Filename string
	Data     []byte
}

// Source reads raw content items for one content type from a backing store.
// Implementations must treat per-item failures as skips, not errors; Load
// returns an error only when the store itself is unusable for that type.
type Source interface {
	Name() string
	Load(ctx context.Context, contentType content.ContentType) ([]RawItem, error)
}
