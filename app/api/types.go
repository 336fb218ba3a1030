package api

import (
	"github.com/foliokit/foliocache/app/store"
)

type Handler struct {
	store store.Store
}

func NewHandler(cacheStore store.Store) *Handler {
	return &Handler{store: cacheStore}
}

// RebuildResponse is returned by the rebuild endpoint on success.
type RebuildResponse struct {
	TotalItems int `json:"totalItems"`
}
