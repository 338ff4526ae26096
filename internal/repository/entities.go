// Package repository owns the dense, index-addressed arrays derived
// from a GTFS feed and the lookup tables built on top of them. A
// Repository is built once (see Builder in build.go) and is read-only
// afterwards; all hot-path code addresses it by uint32 index rather
// than by string id.
package repository

import "github.com/antigravity/raptor-engine/internal/quantities"

// LocationType classifies a Stop the way GTFS's location_type column
// does, with its own numbering and an extra Platform kind that GTFS's
// column lacks. The parent reference and platform code on Stop
// are filled from the feed row whatever the kind.
type LocationType int

const (
	LocationStop LocationType = iota
	LocationPlatform
	LocationStation
	LocationEntrance
	LocationNode
	LocationBoarding
)

// Stop is a single boarding point, platform, station, entrance or
// generic pathway node. Invariant: repository.Stops[s.Index] == s.
type Stop struct {
	Index            uint32
	ID               string
	Name             string
	NormalizedName   string
	Coordinate       quantities.Coordinate
	LocationType     LocationType
	ParentStationIdx *uint32 // set when the row names a parent_station
	PlatformCode     string  // as given in the feed row
}

// Area is a named grouping of stops (e.g. a station complex or a
// fare zone), used by Location resolution (§4.3).
type Area struct {
	Index          uint32
	ID             string
	Name           string
	NormalizedName string
}

// Agency supplements the distilled spec: Route.AgencyIdx resolves
// into this array, filled from GTFS's agency.txt.
type Agency struct {
	Index    uint32
	ID       string
	Name     string
	Timezone string
}

// Route is the GTFS display-level route (e.g. "Blue Line"). It is
// distinct from RaptorRoute, which is the equivalence class of trips
// that the solver actually sweeps.
type Route struct {
	Index      uint32
	ID         string
	AgencyIdx  uint32
	ShortName  string
	LongName   string
	RouteType  int
	Desc       string
}

// Trip is one scheduled traversal of a Route by a vehicle.
type Trip struct {
	Index            uint32
	ID               string
	RouteIndex       uint32
	RaptorRouteIndex uint32
	Headsign         string
	ShortName        string
	ShapeIndex       *uint32
}

// PickupDropOffType mirrors GTFS's pickup_type/drop_off_type columns.
type PickupDropOffType int

const (
	PickupDropOffRegular PickupDropOffType = iota
	PickupDropOffNone
	PickupDropOffPhoneAgency
	PickupDropOffCoordinateWithDriver
)

// StopTime is one scheduled arrival/departure event of a trip at a
// stop. The global StopTime array is grouped by trip and sorted within
// each trip by Sequence (§3); Repository.StopTimesOfTrip yields the
// contiguous slice for a given trip.
type StopTime struct {
	Index         uint32
	TripIndex     uint32
	StopIndex     uint32
	Sequence      uint32
	ArrivalTime   quantities.Time
	DepartureTime quantities.Time
	Headsign      string
	DistTraveled  *float64
	PickupType    PickupDropOffType
	DropOffType   PickupDropOffType
	Timepoint     bool
}

// Transfer is a permitted stop-to-stop connection with an optional
// minimum transfer time, and optionally scoped to specific trips.
type Transfer struct {
	Index             uint32
	FromStopIndex     uint32
	ToStopIndex       uint32
	FromTripIndex     *uint32
	ToTripIndex       *uint32
	MinTransferTime   *quantities.Duration
}

// RaptorRoute is an equivalence class of trips that all call at an
// identical, ordered sequence of stops — the unit the solver sweeps.
// Invariant: every trip in Trips calls at exactly Stops, in that
// order. Invariant: Trips is sorted by departure time at Stops[0].
type RaptorRoute struct {
	Index      uint32
	RouteIndex uint32
	Stops      []uint32
	Trips      []uint32
}

// Shape is a polyline traced by one or more trips, kept only for
// itinerary geometry rendering by a caller — routing never consults it.
type Shape struct {
	Index  uint32
	ID     string
	Points []quantities.Coordinate
}

// Warning is a non-fatal build-time observation, e.g. a RAPTOR route
// whose trips overtake one another (see OvertakingTripsInRoute).
type Warning struct {
	Kind    string
	Message string
}

const WarningOvertakingTripsInRoute = "OvertakingTripsInRoute"
