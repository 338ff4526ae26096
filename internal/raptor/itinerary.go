package raptor

import (
	"encoding/json"

	"github.com/antigravity/raptor-engine/internal/allocator"
	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/repository"
)

// LegType mirrors allocator.ParentKind at the itinerary level: how a leg
// was traversed.
type LegType int

const (
	LegTransit LegType = iota
	LegTransfer
	LegWalk
)

func (t LegType) String() string {
	switch t {
	case LegTransit:
		return "transit"
	case LegTransfer:
		return "transfer"
	default:
		return "walk"
	}
}

func (t LegType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func legTypeOf(kind allocator.ParentKind) LegType {
	switch kind {
	case allocator.ParentTransit:
		return LegTransit
	case allocator.ParentTransfer:
		return LegTransfer
	default:
		return LegWalk
	}
}

// LegStop is one scheduled call at a stop within a transit leg, used to
// render intermediate stops of a ride.
type LegStop struct {
	Location      Location        `json:"location"`
	DepartureTime quantities.Time `json:"departureTime"`
	ArrivalTime   quantities.Time `json:"arrivalTime"`
}

// Leg is one edge of an itinerary: a transit ride, a scheduled transfer,
// or a walk, between two Locations.
type Leg struct {
	From          Location        `json:"from"`
	To            Location        `json:"to"`
	DepartureTime quantities.Time `json:"departureTime"`
	ArrivalTime   quantities.Time `json:"arrivalTime"`
	Stops         []LegStop       `json:"stops,omitempty"`
	Type          LegType         `json:"type"`
	TripIndex     *uint32         `json:"tripIndex,omitempty"` // set when Type == LegTransit
}

// Itinerary is the full resolved trip: an ordered sequence of legs from
// the query's origin to its destination.
type Itinerary struct {
	From Location `json:"from"`
	To   Location `json:"to"`
	Legs []Leg    `json:"legs"`
}

func pointToLocation(p allocator.Point, repo *repository.Repository) Location {
	if !p.IsStop {
		return CoordinateLocation(p.Coordinate)
	}
	return StopLocation(repo.Stops[p.StopIndex].ID)
}

func legStopsOf(parent allocator.Parent, repo *repository.Repository) []LegStop {
	if parent.Kind != allocator.ParentTransit || !parent.From.IsStop || !parent.To.IsStop {
		return nil
	}

	stopTimes := repo.StopTimesOfTrip(parent.TripIndex)
	stops := make([]LegStop, 0, len(stopTimes))
	inTrip := false
	for _, st := range stopTimes {
		if st.StopIndex == parent.From.StopIndex {
			inTrip = true
		}
		if !inTrip {
			continue
		}
		stops = append(stops, LegStop{
			Location:      StopLocation(repo.Stops[st.StopIndex].ID),
			DepartureTime: st.DepartureTime,
			ArrivalTime:   st.ArrivalTime,
		})
		if st.StopIndex == parent.To.StopIndex {
			break
		}
	}
	return stops
}

// newItinerary converts a backtracked path of allocator.Parent edges
// into the public Itinerary shape.
func newItinerary(from, to Location, path []allocator.Parent, repo *repository.Repository) *Itinerary {
	legs := make([]Leg, 0, len(path))
	for _, parent := range path {
		leg := Leg{
			From:          pointToLocation(parent.From, repo),
			To:            pointToLocation(parent.To, repo),
			DepartureTime: parent.DepartureTime,
			ArrivalTime:   parent.ArrivalTime,
			Stops:         legStopsOf(parent, repo),
			Type:          legTypeOf(parent.Kind),
		}
		if parent.Kind == allocator.ParentTransit {
			trip := parent.TripIndex
			leg.TripIndex = &trip
		}
		legs = append(legs, leg)
	}
	return &Itinerary{From: from, To: to, Legs: legs}
}
