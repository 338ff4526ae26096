package repository

import "github.com/antigravity/raptor-engine/internal/quantities"

// StopByID resolves a GTFS stop id to its dense index.
func (r *Repository) StopByID(id string) (uint32, bool) {
	idx, ok := r.stopByID[id]
	return idx, ok
}

// AreaByID resolves a GTFS area id to its dense index.
func (r *Repository) AreaByID(id string) (uint32, bool) {
	idx, ok := r.areaByID[id]
	return idx, ok
}

// RouteByID resolves a GTFS route id to its dense index.
func (r *Repository) RouteByID(id string) (uint32, bool) {
	idx, ok := r.routeByID[id]
	return idx, ok
}

// TripByID resolves a GTFS trip id to its dense index.
func (r *Repository) TripByID(id string) (uint32, bool) {
	idx, ok := r.tripByID[id]
	return idx, ok
}

// StopsByArea returns the stops belonging to an area, in no particular
// order.
func (r *Repository) StopsByArea(areaIdx uint32) []uint32 {
	return r.areaToStops[areaIdx]
}

// AreaOfStop returns the area a stop belongs to, if any.
func (r *Repository) AreaOfStop(stopIdx uint32) (uint32, bool) {
	idx, ok := r.stopToArea[stopIdx]
	return idx, ok
}

// TransfersFromStop returns the indices of Transfers originating at a
// stop.
func (r *Repository) TransfersFromStop(stopIdx uint32) []uint32 {
	return r.stopToTransfers[stopIdx]
}

// RaptorRoutesAtStop returns every RaptorRoute that calls at a stop.
func (r *Repository) RaptorRoutesAtStop(stopIdx uint32) []uint32 {
	return r.stopToRaptorRoutes[stopIdx]
}

// RaptorRoutesOfRoute returns the RaptorRoute indices a GTFS route was
// split into.
func (r *Repository) RaptorRoutesOfRoute(routeIdx uint32) []uint32 {
	return r.routeToRaptor[routeIdx]
}

// StopTimesOfTrip returns the contiguous, sequence-sorted StopTime
// slice belonging to a trip.
func (r *Repository) StopTimesOfTrip(tripIdx uint32) []StopTime {
	rng, ok := r.tripToStopTimes[tripIdx]
	if !ok {
		return nil
	}
	return r.StopTimes[rng.Start:rng.End]
}

// StopOffsetInRoute returns the position of a stop within a RaptorRoute's
// Stops slice, or false if the route never calls there.
func (r *RaptorRoute) StopOffsetInRoute(stopIdx uint32) (int, bool) {
	for i, s := range r.Stops {
		if s == stopIdx {
			return i, true
		}
	}
	return 0, false
}

// StopsWithinDistance returns every stop within distance of coordinate,
// using the geospatial grid (§4.4) rather than scanning every stop.
func (r *Repository) StopsWithinDistance(coordinate quantities.Coordinate, distance quantities.Distance) []uint32 {
	return r.grid.Query(coordinate, distance, func(stopIdx uint32) bool {
		return r.Stops[stopIdx].Coordinate.NetworkDistance(coordinate) <= distance
	})
}

// NumStops, NumRoutes and NumTrips report the size of the loaded feed,
// used by health/status reporting.
func (r *Repository) NumStops() int  { return len(r.Stops) }
func (r *Repository) NumRoutes() int { return len(r.Routes) }
func (r *Repository) NumTrips() int  { return len(r.Trips) }
