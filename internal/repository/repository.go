package repository

import "github.com/antigravity/raptor-engine/internal/geogrid"

// stopTimeRange is the contiguous, sorted-by-sequence slice of global
// StopTime indices belonging to one trip: StopTimes[Start:End].
type stopTimeRange struct {
	Start, End uint32
}

// Repository owns every entity array derived from a GTFS feed plus the
// lookup tables built on top of them. It is constructed once by a
// Builder and is read-only for the rest of its lifetime (§3 Lifecycle);
// all its query methods take a receiver of *Repository, never mutate.
type Repository struct {
	Stops        []Stop
	Areas        []Area
	Agencies     []Agency
	Routes       []Route
	Trips        []Trip
	StopTimes    []StopTime
	Transfers    []Transfer
	RaptorRoutes []RaptorRoute
	Shapes       []Shape
	Warnings     []Warning

	stopByID   map[string]uint32
	areaByID   map[string]uint32
	agencyByID map[string]uint32
	routeByID  map[string]uint32
	tripByID   map[string]uint32
	shapeByID  map[string]uint32

	areaToStops        map[uint32][]uint32
	stopToArea         map[uint32]uint32
	stopToTransfers    map[uint32][]uint32
	stopToRaptorRoutes map[uint32][]uint32
	routeToRaptor      map[uint32][]uint32
	tripToStopTimes    map[uint32]stopTimeRange

	grid *geogrid.Grid
}
