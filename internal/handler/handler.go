// Package handler is the reference HTTP surface over the routing core
// (§6): thin adapters from chi routes onto internal/raptor, internal/search
// and internal/repository. It is a collaborator, not part of the engine's
// tested core — the teacher app's TransportHandler is its model, widened
// from a single pgx-backed repository to the in-memory Store/Pool pair
// this engine builds from a GTFS feed.
package handler

import (
	"net/http"

	"github.com/antigravity/raptor-engine/internal/allocator"
	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/repository"
)

// Handler bundles every dependency the routing/search/gtfs endpoints need.
type Handler struct {
	Store        *repository.Store
	Pool         *allocator.Pool
	WalkDistance quantities.Distance
	FeedPath     string
}

func New(store *repository.Store, pool *allocator.Pool, walkDistance quantities.Distance, feedPath string) *Handler {
	return &Handler{Store: store, Pool: pool, WalkDistance: walkDistance, FeedPath: feedPath}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}
