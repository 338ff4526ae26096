// Package search resolves a query endpoint (an area, a stop, or a bare
// coordinate) into the set of boarding/alighting stops RAPTOR should
// actually seed from or target (§4.3), and offers simple normalized-name
// lookup over stops and areas. Full fuzzy ranking is an external
// collaborator concern — SearchAreas/SearchStops here exist to satisfy
// the interface, not to be the final-word ranking algorithm.
package search

import (
	"encoding/json"

	"github.com/antigravity/raptor-engine/internal/quantities"
)

// LocationKind tags which variant of Location is populated — the Go
// stand-in for the tagged union the original engine models as a sum
// type over area id / stop id / bare coordinate.
type LocationKind int

const (
	LocationKindArea LocationKind = iota
	LocationKindStop
	LocationKindCoordinate
)

// Location is a query endpoint: an area (e.g. a station complex), a
// single stop, or an arbitrary point resolved from, say, a geocoder.
type Location struct {
	Kind       LocationKind          `json:"kind"`
	ID         string                `json:"id,omitempty"` // set for Area and Stop
	Coordinate quantities.Coordinate `json:"coordinate"`
}

func (k LocationKind) String() string {
	switch k {
	case LocationKindArea:
		return "area"
	case LocationKindStop:
		return "stop"
	default:
		return "coordinate"
	}
}

// MarshalJSON renders the kind's name rather than its ordinal.
func (k LocationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func AreaLocation(id string) Location { return Location{Kind: LocationKindArea, ID: id} }
func StopLocation(id string) Location { return Location{Kind: LocationKindStop, ID: id} }
func CoordinateLocation(c quantities.Coordinate) Location {
	return Location{Kind: LocationKindCoordinate, Coordinate: c}
}
