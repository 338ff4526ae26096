package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/raptor-engine/internal/allocator"
	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/raptor"
	"github.com/antigravity/raptor-engine/internal/repository"
)

type fakeFeed struct {
	stops     []repository.StopRow
	areas     []repository.AreaRow
	stopAreas []repository.StopAreaRow
	routes    []repository.RouteRow
	trips     []repository.TripRow
	stopTimes []repository.StopTimeRow
}

func (f *fakeFeed) StreamAgencies(fn func(repository.AgencyRow) error) error  { return nil }
func (f *fakeFeed) StreamTransfers(fn func(repository.TransferRow) error) error { return nil }
func (f *fakeFeed) StreamShapes(fn func(repository.ShapeRow) error) error     { return nil }

func (f *fakeFeed) StreamStops(fn func(repository.StopRow) error) error {
	for _, r := range f.stops {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeFeed) StreamAreas(fn func(repository.AreaRow) error) error {
	for _, r := range f.areas {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeFeed) StreamStopAreas(fn func(repository.StopAreaRow) error) error {
	for _, r := range f.stopAreas {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeFeed) StreamRoutes(fn func(repository.RouteRow) error) error {
	for _, r := range f.routes {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeFeed) StreamTrips(fn func(repository.TripRow) error) error {
	for _, r := range f.trips {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeFeed) StreamStopTimes(fn func(repository.StopTimeRow) error) error {
	for _, r := range f.stopTimes {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func buildTestHandler(t *testing.T) *Handler {
	t.Helper()
	feed := &fakeFeed{
		stops: []repository.StopRow{
			{ID: "alpha", Name: "Alpha", Latitude: 48.8000, Longitude: 2.3000},
			{ID: "bravo", Name: "Bravo", Latitude: 48.8010, Longitude: 2.3010},
		},
		areas: []repository.AreaRow{{ID: "centre", Name: "Centre"}},
		stopAreas: []repository.StopAreaRow{
			{StopID: "alpha", AreaID: "centre"},
		},
		routes: []repository.RouteRow{{ID: "line1", RouteType: 1}},
		trips:  []repository.TripRow{{ID: "trip1", RouteID: "line1"}},
		stopTimes: []repository.StopTimeRow{
			{TripID: "trip1", StopID: "alpha", Sequence: 1, ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "trip1", StopID: "bravo", Sequence: 2, ArrivalTime: "08:10:00", DepartureTime: "08:10:00"},
		},
	}
	repo, err := repository.Build(feed)
	require.NoError(t, err)

	return New(repository.NewStore(repo), allocator.NewPool(), quantities.AverageStopDistance, "feed.zip")
}

func router(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/routing", h.Routing)
	r.Get("/search", h.Search)
	return r
}

func TestRoutingReturnsItineraryForKnownStops(t *testing.T) {
	h := buildTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/routing?from=alpha&to=bravo&departure_at=07:55:00", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var itinerary raptor.Itinerary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &itinerary))
	assert.NotEmpty(t, itinerary.Legs)
}

func TestRoutingRejectsMissingFrom(t *testing.T) {
	h := buildTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/routing?to=bravo", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutingRejectsArriveAt(t *testing.T) {
	h := buildTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/routing?from=alpha&to=bravo&arrive_at=09:00:00", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutingRejectsUnknownStop(t *testing.T) {
	h := buildTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/routing?from=nope&to=bravo", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutingAcceptsCoordinateEndpoints(t *testing.T) {
	h := buildTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/routing?from=48.8000,2.3000&to=bravo", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchFindsAreaByName(t *testing.T) {
	h := buildTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/search?q=cent", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var results []AreaResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "centre", results[0].ID)
}

func TestSearchRejectsMissingQuery(t *testing.T) {
	h := buildTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
