package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/search"
)

// AreaResult is the wire shape for a /search hit: an area id/name plus a
// representative coordinate (the centroid of its member stops), matching
// the reference engine's AreaDto.
type AreaResult struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Coordinate quantities.Coordinate `json:"coordinate"`
}

// Search serves GET /search: ranks areas by normalized-name match against
// q and returns up to count hits (default 5).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	repo := h.Store.Snapshot()
	if repo == nil {
		writeJSONError(w, http.StatusInternalServerError, "repository not loaded")
		return
	}

	query := r.URL.Query()
	q := query.Get("q")
	if q == "" {
		writeJSONError(w, http.StatusBadRequest, "q is required")
		return
	}

	count := 5
	if countParam := query.Get("count"); countParam != "" {
		parsed, err := strconv.Atoi(countParam)
		if err != nil || parsed < 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid count")
			return
		}
		count = parsed
	}

	matches := search.SearchAreas(repo, q, count)
	results := make([]AreaResult, 0, len(matches))
	for _, m := range matches {
		area := repo.Areas[m.Index]
		stopIdxs := repo.StopsByArea(m.Index)
		coords := make([]quantities.Coordinate, len(stopIdxs))
		for i, stopIdx := range stopIdxs {
			coords[i] = repo.Stops[stopIdx].Coordinate
		}
		results = append(results, AreaResult{
			ID:         area.ID,
			Name:       area.Name,
			Coordinate: quantities.Centroid(coords),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
