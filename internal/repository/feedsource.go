package repository

// The row types below are the narrow, unresolved shape of each GTFS
// table as the Builder consumes it: plain strings, not yet resolved to
// indices. FeedSource implementations (e.g. internal/gtfszip) decode
// whatever on-disk format they like and hand rows to the Builder one at
// a time through these callbacks — the Builder itself never imports a
// zip or CSV package, keeping that layer an external collaborator per
// the engine's scope (spec.md §1).
type AgencyRow struct {
	ID       string
	Name     string
	Timezone string
}

type StopRow struct {
	ID               string
	Name             string
	Latitude         float64
	Longitude        float64
	LocationType     int
	ParentStationID  string
	PlatformCode     string
}

type AreaRow struct {
	ID   string
	Name string
}

type StopAreaRow struct {
	StopID string
	AreaID string
}

type RouteRow struct {
	ID        string
	AgencyID  string
	ShortName string
	LongName  string
	RouteType int
	Desc      string
}

type TripRow struct {
	ID        string
	RouteID   string
	ShapeID   string
	Headsign  string
	ShortName string
}

type TransferRow struct {
	FromStopID      string
	ToStopID        string
	FromTripID      string
	ToTripID        string
	MinTransferTime *uint32
}

type StopTimeRow struct {
	TripID        string
	StopID        string
	Sequence      uint32
	ArrivalTime   string
	DepartureTime string
	Headsign      string
	DistTraveled  *float64
	PickupType    int
	DropOffType   int
	Timepoint     bool
}

type ShapeRow struct {
	ID        string
	Sequence  uint32
	Latitude  float64
	Longitude float64
}

// FeedSource streams the nine recognized GTFS tables (§6) in whatever
// order the Builder requests them. Each Stream* call invokes fn once
// per decoded row, in file order, and returns once the table has been
// fully consumed (or on first decode error).
type FeedSource interface {
	StreamAgencies(fn func(AgencyRow) error) error
	StreamStops(fn func(StopRow) error) error
	StreamAreas(fn func(AreaRow) error) error
	StreamStopAreas(fn func(StopAreaRow) error) error
	StreamRoutes(fn func(RouteRow) error) error
	StreamTrips(fn func(TripRow) error) error
	StreamTransfers(fn func(TransferRow) error) error
	StreamStopTimes(fn func(StopTimeRow) error) error
	StreamShapes(fn func(ShapeRow) error) error
}
