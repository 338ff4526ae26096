package repository

import (
	"sort"
	"strconv"
	"strings"
)

// buildRaptorRoutes partitions every GTFS route's trips into equivalence
// classes by their ordered stop sequence (§4.2): two trips belong to the
// same RaptorRoute iff they call at exactly the same stops in the same
// order. Within a class, trips are sorted by departure time at the
// first stop. A class whose trips are not mutually non-overtaking (a
// later-departing trip arrives earlier at some downstream stop) is kept
// but recorded as a WarningOvertakingTripsInRoute rather than rejected,
// per the resolved Open Question on overtaking trips.
func (b *Builder) buildRaptorRoutes() error {
	type signatureGroup struct {
		stops []uint32
		trips []uint32
	}

	// group trips per GTFS route first, so raptor route indices stay
	// locally ordered within the route they originate from.
	tripsByRoute := make(map[uint32][]uint32)
	for _, trip := range b.repo.Trips {
		tripsByRoute[trip.RouteIndex] = append(tripsByRoute[trip.RouteIndex], trip.Index)
	}

	routeIndices := make([]uint32, 0, len(tripsByRoute))
	for routeIdx := range tripsByRoute {
		routeIndices = append(routeIndices, routeIdx)
	}
	sort.Slice(routeIndices, func(i, j int) bool { return routeIndices[i] < routeIndices[j] })

	for _, routeIdx := range routeIndices {
		tripIdxs := tripsByRoute[routeIdx]

		groups := make(map[string]*signatureGroup)
		var order []string

		for _, tripIdx := range tripIdxs {
			stops, err := b.stopSequenceOf(tripIdx)
			if err != nil {
				return err
			}
			sig := signatureOf(stops)
			g, ok := groups[sig]
			if !ok {
				g = &signatureGroup{stops: stops}
				groups[sig] = g
				order = append(order, sig)
			}
			g.trips = append(g.trips, tripIdx)
		}

		for _, sig := range order {
			g := groups[sig]
			b.sortTripsByFirstDeparture(g.trips)

			raptorIdx := uint32(len(b.repo.RaptorRoutes))
			b.repo.RaptorRoutes = append(b.repo.RaptorRoutes, RaptorRoute{
				Index:      raptorIdx,
				RouteIndex: routeIdx,
				Stops:      g.stops,
				Trips:      g.trips,
			})
			b.repo.routeToRaptor[routeIdx] = append(b.repo.routeToRaptor[routeIdx], raptorIdx)
			for _, stopIdx := range g.stops {
				b.repo.stopToRaptorRoutes[stopIdx] = appendUnique(b.repo.stopToRaptorRoutes[stopIdx], raptorIdx)
			}
			for _, tripIdx := range g.trips {
				b.repo.Trips[tripIdx].RaptorRouteIndex = raptorIdx
			}

			if b.tripsOvertake(g.trips) {
				b.repo.Warnings = append(b.repo.Warnings, Warning{
					Kind:    WarningOvertakingTripsInRoute,
					Message: "raptor route " + b.repo.Routes[routeIdx].ID + " has overtaking trips",
				})
			}
		}
	}

	return nil
}

func (b *Builder) stopSequenceOf(tripIdx uint32) ([]uint32, error) {
	r, ok := b.repo.tripToStopTimes[tripIdx]
	if !ok {
		return nil, &UnknownReferenceError{Kind: "trip", ID: b.repo.Trips[tripIdx].ID}
	}
	stops := make([]uint32, 0, r.End-r.Start)
	for _, st := range b.repo.StopTimes[r.Start:r.End] {
		stops = append(stops, st.StopIndex)
	}
	return stops, nil
}

func signatureOf(stops []uint32) string {
	var b strings.Builder
	for _, s := range stops {
		b.WriteString(strconv.FormatUint(uint64(s), 10))
		b.WriteByte(',')
	}
	return b.String()
}

func (b *Builder) sortTripsByFirstDeparture(trips []uint32) {
	sort.Slice(trips, func(i, j int) bool {
		ri := b.repo.tripToStopTimes[trips[i]]
		rj := b.repo.tripToStopTimes[trips[j]]
		return b.repo.StopTimes[ri.Start].DepartureTime < b.repo.StopTimes[rj.Start].DepartureTime
	})
}

// tripsOvertake reports whether any later trip in a sequence-sorted
// trip list arrives at some stop before an earlier trip does, which
// breaks the FIFO assumption RAPTOR's route scan relies on.
func (b *Builder) tripsOvertake(trips []uint32) bool {
	for i := 1; i < len(trips); i++ {
		prev := b.repo.tripToStopTimes[trips[i-1]]
		curr := b.repo.tripToStopTimes[trips[i]]
		n := prev.End - prev.Start
		for offset := uint32(0); offset < n; offset++ {
			prevArrival := b.repo.StopTimes[prev.Start+offset].ArrivalTime
			currArrival := b.repo.StopTimes[curr.Start+offset].ArrivalTime
			if currArrival < prevArrival {
				return true
			}
		}
	}
	return false
}

func appendUnique(s []uint32, v uint32) []uint32 {
	for _, existing := range s {
		if existing == v {
			return s
		}
	}
	return append(s, v)
}
