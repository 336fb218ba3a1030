package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foliokit/foliocache/app/cfg"
	"github.com/foliokit/foliocache/app/content"
	"github.com/foliokit/foliocache/app/store"
)

// GetCache serves the full published cache document.
func (h *Handler) GetCache(c *gin.Context) {
	doc, err := h.store.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No cache document published yet"})
			return
		}
		slog.Error("Cache read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache read failed"})
		return
	}

	c.Header("X-Cache-Version", doc.Metadata.Version)
	c.Header("X-Last-Updated", doc.Metadata.LastUpdated)
	c.JSON(http.StatusOK, doc)
}

// GetCacheByType serves one sorted content-type bucket.
func (h *Handler) GetCacheByType(c *gin.Context) {
	contentType := content.ContentType(c.Param("type"))
	if !contentType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown content type"})
		return
	}

	doc, err := h.store.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No cache document published yet"})
			return
		}
		slog.Error("Cache read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache read failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": doc.Bucket(contentType),
		"total": len(doc.Bucket(contentType)),
	})
}

// GetCacheItem serves one item by type-scoped id.
func (h *Handler) GetCacheItem(c *gin.Context) {
	contentType := content.ContentType(c.Param("type"))
	if !contentType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown content type"})
		return
	}

	doc, err := h.store.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No cache document published yet"})
			return
		}
		slog.Error("Cache read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache read failed"})
		return
	}

	id := c.Param("id")
	for _, item := range doc.Bucket(contentType) {
		if item.ID == id {
			c.JSON(http.StatusOK, item)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
}

// RebuildCache accepts a freshly built cache document and replaces the
// stored one wholesale.
func (h *Handler) RebuildCache(c *gin.Context) {
	var doc content.CacheDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed cache document", "message": err.Error()})
		return
	}

	// An empty document never replaces a published cache.
	if len(doc.All) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cache document has no content items"})
		return
	}

	if err := h.store.Put(c.Request.Context(), &doc); err != nil {
		slog.Error("Cache write failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache write failed"})
		return
	}

	slog.Info("Cache document replaced",
		"total", doc.TotalItems(),
		"portfolio", doc.Metadata.PortfolioCount,
		"blog", doc.Metadata.BlogCount,
		"projects", doc.Metadata.ProjectCount,
		"version", doc.Metadata.Version)

	c.JSON(http.StatusOK, RebuildResponse{TotalItems: doc.TotalItems()})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   cfg.Get().Version,
		"published": false,
	}

	if doc, err := h.store.Get(c.Request.Context()); err == nil {
		health["published"] = true
		health["total_items"] = doc.TotalItems()
		health["last_updated"] = doc.Metadata.LastUpdated
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	doc, err := h.store.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"published": false})
			return
		}
		slog.Error("Cache read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache read failed"})
		return
	}

	categories := make(map[string]int)
	for _, item := range doc.All {
		categories[item.Category]++
	}

	c.JSON(http.StatusOK, gin.H{
		"published":   true,
		"metadata":    doc.Metadata,
		"categories":  categories,
		"total_items": doc.TotalItems(),
	})
}
