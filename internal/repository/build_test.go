package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFeed is an in-memory FeedSource built directly from row literals,
// used to exercise the Builder without going through internal/gtfszip.
type fakeFeed struct {
	agencies   []AgencyRow
	stops      []StopRow
	areas      []AreaRow
	stopAreas  []StopAreaRow
	routes     []RouteRow
	trips      []TripRow
	transfers  []TransferRow
	stopTimes  []StopTimeRow
	shapes     []ShapeRow
}

func (f *fakeFeed) StreamAgencies(fn func(AgencyRow) error) error {
	for _, r := range f.agencies {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFeed) StreamStops(fn func(StopRow) error) error {
	for _, r := range f.stops {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFeed) StreamAreas(fn func(AreaRow) error) error {
	for _, r := range f.areas {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFeed) StreamStopAreas(fn func(StopAreaRow) error) error {
	for _, r := range f.stopAreas {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFeed) StreamRoutes(fn func(RouteRow) error) error {
	for _, r := range f.routes {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFeed) StreamTrips(fn func(TripRow) error) error {
	for _, r := range f.trips {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFeed) StreamTransfers(fn func(TransferRow) error) error {
	for _, r := range f.transfers {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFeed) StreamStopTimes(fn func(StopTimeRow) error) error {
	for _, r := range f.stopTimes {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFeed) StreamShapes(fn func(ShapeRow) error) error {
	for _, r := range f.shapes {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func twoStopTwoTripFeed() *fakeFeed {
	return &fakeFeed{
		agencies: []AgencyRow{{ID: "AG1", Name: "Transit Authority", Timezone: "Europe/Paris"}},
		stops: []StopRow{
			{ID: "S1", Name: "Gare du Nord", Latitude: 48.880, Longitude: 2.355},
			{ID: "S2", Name: "Chatelet", Latitude: 48.858, Longitude: 2.347},
		},
		routes: []RouteRow{{ID: "R1", AgencyID: "AG1", ShortName: "4", RouteType: 1}},
		trips: []TripRow{
			{ID: "T1", RouteID: "R1"},
			{ID: "T2", RouteID: "R1"},
		},
		stopTimes: []StopTimeRow{
			{TripID: "T1", StopID: "S1", Sequence: 1, ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "T1", StopID: "S2", Sequence: 2, ArrivalTime: "08:10:00", DepartureTime: "08:10:00"},
			{TripID: "T2", StopID: "S1", Sequence: 1, ArrivalTime: "08:05:00", DepartureTime: "08:05:00"},
			{TripID: "T2", StopID: "S2", Sequence: 2, ArrivalTime: "08:15:00", DepartureTime: "08:15:00"},
		},
	}
}

func TestBuildResolvesStopsAndTrips(t *testing.T) {
	repo, err := Build(twoStopTwoTripFeed())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.NumStops())
	assert.Equal(t, 1, repo.NumRoutes())
	assert.Equal(t, 2, repo.NumTrips())

	s1, ok := repo.StopByID("S1")
	require.True(t, ok)
	assert.Equal(t, "gare du nord", repo.Stops[s1].NormalizedName)
}

func TestBuildGroupsTripsIntoOneRaptorRouteWhenSequencesMatch(t *testing.T) {
	repo, err := Build(twoStopTwoTripFeed())
	require.NoError(t, err)

	require.Len(t, repo.RaptorRoutes, 1)
	rr := repo.RaptorRoutes[0]
	assert.Len(t, rr.Stops, 2)
	assert.Len(t, rr.Trips, 2)
	assert.Empty(t, repo.Warnings)
}

func TestBuildSplitsRaptorRoutesOnDifferentStopSequences(t *testing.T) {
	feed := twoStopTwoTripFeed()
	feed.stops = append(feed.stops, StopRow{ID: "S3", Name: "Les Halles", Latitude: 48.862, Longitude: 2.345})
	feed.trips = append(feed.trips, TripRow{ID: "T3", RouteID: "R1"})
	feed.stopTimes = append(feed.stopTimes,
		StopTimeRow{TripID: "T3", StopID: "S1", Sequence: 1, ArrivalTime: "09:00:00", DepartureTime: "09:00:00"},
		StopTimeRow{TripID: "T3", StopID: "S3", Sequence: 2, ArrivalTime: "09:08:00", DepartureTime: "09:08:00"},
	)

	repo, err := Build(feed)
	require.NoError(t, err)
	assert.Len(t, repo.RaptorRoutes, 2)
}

func TestBuildFlagsOvertakingTrips(t *testing.T) {
	feed := twoStopTwoTripFeed()
	// T2 departs after T1 but arrives at S2 before it: overtakes.
	feed.stopTimes[3].ArrivalTime = "08:08:00"
	feed.stopTimes[3].DepartureTime = "08:08:00"

	repo, err := Build(feed)
	require.NoError(t, err)
	require.Len(t, repo.Warnings, 1)
	assert.Equal(t, WarningOvertakingTripsInRoute, repo.Warnings[0].Kind)
}

func TestBuildRejectsUnknownReferences(t *testing.T) {
	feed := twoStopTwoTripFeed()
	feed.stopTimes = append(feed.stopTimes, StopTimeRow{TripID: "T1", StopID: "NOPE", Sequence: 3, ArrivalTime: "08:20:00", DepartureTime: "08:20:00"})

	_, err := Build(feed)
	require.Error(t, err)
}

func TestBuildResolvesParentStationRegardlessOfFileOrder(t *testing.T) {
	feed := &fakeFeed{
		stops: []StopRow{
			{ID: "PLAT1", Name: "Platform 1", LocationType: int(LocationPlatform), ParentStationID: "STA1"},
			{ID: "STA1", Name: "Central Station", LocationType: int(LocationStation)},
		},
	}
	repo, err := Build(feed)
	require.NoError(t, err)

	platIdx, _ := repo.StopByID("PLAT1")
	staIdx, _ := repo.StopByID("STA1")
	require.NotNil(t, repo.Stops[platIdx].ParentStationIdx)
	assert.Equal(t, staIdx, *repo.Stops[platIdx].ParentStationIdx)
}

func TestStopsWithinDistanceUsesGrid(t *testing.T) {
	repo, err := Build(twoStopTwoTripFeed())
	require.NoError(t, err)

	s1, _ := repo.StopByID("S1")
	near := repo.StopsWithinDistance(repo.Stops[s1].Coordinate, 10)
	assert.Contains(t, near, s1)
}
