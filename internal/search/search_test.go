package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func (f *fakeFeed) StreamAgencies(fn func(repository.AgencyRow) error) error    { return nil }
func (f *fakeFeed) StreamTransfers(fn func(repository.TransferRow) error) error { return nil }
func (f *fakeFeed) StreamShapes(fn func(repository.ShapeRow) error) error      { return nil }

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

func buildFixture(t *testing.T) *repository.Repository {
	t.Helper()
	feed := &fakeFeed{
		stops: []repository.StopRow{
			{ID: "PLAT1", Name: "Platform 1", Latitude: 48.85, Longitude: 2.35, LocationType: int(repository.LocationPlatform), ParentStationID: "STA1"},
			{ID: "PLAT2", Name: "Platform 2", Latitude: 48.85, Longitude: 2.351, LocationType: int(repository.LocationPlatform), ParentStationID: "STA1"},
			{ID: "STA1", Name: "Gare Centrale", Latitude: 48.85, Longitude: 2.3505, LocationType: int(repository.LocationStation)},
			{ID: "LONE", Name: "Lonely Stop", Latitude: 48.90, Longitude: 2.40},
		},
		areas: []repository.AreaRow{{ID: "A1", Name: "Centre Ville"}, {ID: "A2", Name: "Quai Sud"}},
		stopAreas: []repository.StopAreaRow{
			{StopID: "PLAT1", AreaID: "A1"},
			{StopID: "PLAT2", AreaID: "A2"},
		},
		routes: []repository.RouteRow{{ID: "R1", RouteType: 1}},
		trips:  []repository.TripRow{{ID: "T1", RouteID: "R1"}},
		stopTimes: []repository.StopTimeRow{
			{TripID: "T1", StopID: "PLAT1", Sequence: 1, ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "T1", StopID: "LONE", Sequence: 2, ArrivalTime: "08:10:00", DepartureTime: "08:10:00"},
		},
	}
	repo, err := repository.Build(feed)
	require.NoError(t, err)
	return repo
}

func TestResolveStopWithParentReturnsSiblings(t *testing.T) {
	repo := buildFixture(t)
	candidates, err := Resolve(repo, StopLocation("PLAT1"))
	require.NoError(t, err)

	var stopIDs []string
	for _, c := range candidates {
		stopIDs = append(stopIDs, repo.Stops[c.StopIndex].ID)
		assert.Zero(t, c.Walk)
	}
	assert.ElementsMatch(t, []string{"PLAT1", "PLAT2"}, stopIDs)
}

func TestResolveStopWithoutParentOrChildrenReturnsItself(t *testing.T) {
	repo := buildFixture(t)
	candidates, err := Resolve(repo, StopLocation("LONE"))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "LONE", repo.Stops[candidates[0].StopIndex].ID)
}

func TestResolveAreaFallsBackToCentroidWhenNoMemberIsServed(t *testing.T) {
	repo := buildFixture(t)
	// A2's only member, PLAT2, is served by no trip (T1 calls at PLAT1
	// and LONE), so resolution falls back to A2's centroid and finds the
	// served PLAT1 less than 100 m away.
	candidates, err := Resolve(repo, AreaLocation("A2"))
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
}

func TestResolveUnknownStopErrors(t *testing.T) {
	repo := buildFixture(t)
	_, err := Resolve(repo, StopLocation("nope"))
	assert.ErrorIs(t, err, ErrInvalidStop)
}

func TestSearchStopsFindsNormalizedMatch(t *testing.T) {
	repo := buildFixture(t)
	matches := SearchStops(repo, "gare", 5)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Gare Centrale", matches[0].Name)
}
