package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/raptor"
	"github.com/antigravity/raptor-engine/internal/repository"
)

// Routing serves GET /routing: resolves from/to, runs the solver, and
// renders the resulting Itinerary as JSON (§6).
func (h *Handler) Routing(w http.ResponseWriter, r *http.Request) {
	repo := h.Store.Snapshot()
	if repo == nil {
		writeJSONError(w, http.StatusInternalServerError, "repository not loaded")
		return
	}

	query := r.URL.Query()

	fromParam := query.Get("from")
	toParam := query.Get("to")
	if fromParam == "" || toParam == "" {
		writeJSONError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	from, err := LocationFromString(repo, fromParam)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := LocationFromString(repo, toParam)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if query.Get("arrive_at") != "" {
		writeJSONError(w, http.StatusBadRequest, "arrive_at is not supported: this engine is departure-based only")
		return
	}

	departure := quantities.Time(0)
	if departAt := query.Get("departure_at"); departAt != "" {
		departure, err = quantities.ParseTime(departAt)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid departure_at: "+err.Error())
			return
		}
	}

	includeShapes := false
	if shapes := query.Get("shapes"); shapes != "" {
		includeShapes, err = strconv.ParseBool(shapes)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid shapes: "+err.Error())
			return
		}
	}

	solver := raptor.New(repo, h.Pool, from, to, departure)
	if h.WalkDistance > 0 {
		solver = solver.WithWalkDistance(h.WalkDistance)
	}

	itinerary, err := solver.Solve(r.Context())
	if err != nil {
		writeItineraryError(w, err)
		return
	}

	if !includeShapes {
		for i := range itinerary.Legs {
			itinerary.Legs[i].Stops = nil
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itinerary)
}

func writeItineraryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, raptor.ErrInvalidArea), errors.Is(err, raptor.ErrInvalidStop):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// LocationFromString parses a from/to query parameter the way the
// original engine does: a comma means "lat,lon", otherwise the string is
// tried first as an area id then as a stop id.
func LocationFromString(repo *repository.Repository, s string) (raptor.Location, error) {
	if strings.Contains(s, ",") {
		coord, err := parseCoordinate(s)
		if err != nil {
			return raptor.Location{}, err
		}
		return raptor.CoordinateLocation(coord), nil
	}
	if _, ok := repo.AreaByID(s); ok {
		return raptor.AreaLocation(s), nil
	}
	if _, ok := repo.StopByID(s); ok {
		return raptor.StopLocation(s), nil
	}
	return raptor.Location{}, raptor.ErrInvalidStop
}

func parseCoordinate(s string) (quantities.Coordinate, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return quantities.Coordinate{}, raptor.ErrInvalidStop
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return quantities.Coordinate{}, raptor.ErrInvalidStop
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return quantities.Coordinate{}, raptor.ErrInvalidStop
	}
	return quantities.Coordinate{Latitude: lat, Longitude: lon}, nil
}
