package search

import (
	"github.com/pkg/errors"

	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/repository"
)

var (
	// ErrInvalidArea is returned when a Location names an area id the
	// repository has no record of.
	ErrInvalidArea = errors.New("area id does not match any entry")
	// ErrInvalidStop is returned when a Location names a stop id the
	// repository has no record of.
	ErrInvalidStop = errors.New("stop id does not match any entry")
)

// Candidate is one boarding or alighting stop a Location resolved to,
// paired with how long it takes to walk there from the location's own
// reference point. Stop and Area resolution yield zero-walk candidates
// (the query already names that stop); Coordinate resolution, and an
// Area's fallback to its centroid, walk.
type Candidate struct {
	StopIndex uint32
	Walk      quantities.Duration
}

// walkDistance is the radius used for Coordinate resolution and for the
// Area-with-no-served-stops fallback (§4.3).
const walkDistance = quantities.AverageStopDistance

// Resolve expands a Location into its candidate stops. The same
// resolution rules apply whether the Location is an origin or a
// destination — only how the caller subsequently uses Candidate.Walk
// differs (added to departure vs. added to arrival).
func Resolve(repo *repository.Repository, loc Location) ([]Candidate, error) {
	switch loc.Kind {
	case LocationKindCoordinate:
		return resolveCoordinate(repo, loc.Coordinate), nil
	case LocationKindStop:
		return resolveStop(repo, loc.ID)
	case LocationKindArea:
		return resolveArea(repo, loc.ID)
	default:
		return nil, ErrInvalidStop
	}
}

func resolveCoordinate(repo *repository.Repository, c quantities.Coordinate) []Candidate {
	stopIdxs := repo.StopsWithinDistance(c, walkDistance)
	candidates := make([]Candidate, 0, len(stopIdxs))
	for _, stopIdx := range stopIdxs {
		if len(repo.RaptorRoutesAtStop(stopIdx)) == 0 {
			continue
		}
		stop := repo.Stops[stopIdx]
		walk := quantities.TimeToWalk(stop.Coordinate.NetworkDistance(c))
		candidates = append(candidates, Candidate{StopIndex: stopIdx, Walk: walk})
	}
	return candidates
}

func resolveStop(repo *repository.Repository, id string) ([]Candidate, error) {
	stopIdx, ok := repo.StopByID(id)
	if !ok {
		return nil, ErrInvalidStop
	}
	stop := repo.Stops[stopIdx]

	if stop.ParentStationIdx != nil {
		siblings := childrenOf(repo, *stop.ParentStationIdx)
		return zeroWalk(siblings), nil
	}

	children := childrenOf(repo, stopIdx)
	if len(children) > 0 {
		return zeroWalk(children), nil
	}

	return zeroWalk([]uint32{stopIdx}), nil
}

func childrenOf(repo *repository.Repository, parentIdx uint32) []uint32 {
	var out []uint32
	for _, stop := range repo.Stops {
		if stop.ParentStationIdx != nil && *stop.ParentStationIdx == parentIdx {
			out = append(out, stop.Index)
		}
	}
	return out
}

func resolveArea(repo *repository.Repository, id string) ([]Candidate, error) {
	areaIdx, ok := repo.AreaByID(id)
	if !ok {
		return nil, ErrInvalidArea
	}

	stopIdxs := repo.StopsByArea(areaIdx)
	var served []uint32
	for _, stopIdx := range stopIdxs {
		if len(repo.RaptorRoutesAtStop(stopIdx)) > 0 {
			served = append(served, stopIdx)
		}
	}
	if len(served) > 0 {
		return zeroWalk(served), nil
	}

	// No member stop is served by any trip: fall back to the area's
	// centroid and resolve it like a bare coordinate.
	coords := make([]quantities.Coordinate, len(stopIdxs))
	for i, stopIdx := range stopIdxs {
		coords[i] = repo.Stops[stopIdx].Coordinate
	}
	return resolveCoordinate(repo, quantities.Centroid(coords)), nil
}

func zeroWalk(stopIdxs []uint32) []Candidate {
	candidates := make([]Candidate, len(stopIdxs))
	for i, stopIdx := range stopIdxs {
		candidates[i] = Candidate{StopIndex: stopIdx, Walk: 0}
	}
	return candidates
}

// Coordinate resolves a Location down to a single representative point,
// used only to compute the final walk leg to an exact destination once
// a target stop has already been chosen by the solver.
func Coordinate(repo *repository.Repository, loc Location) (quantities.Coordinate, error) {
	switch loc.Kind {
	case LocationKindCoordinate:
		return loc.Coordinate, nil
	case LocationKindStop:
		idx, ok := repo.StopByID(loc.ID)
		if !ok {
			return quantities.Coordinate{}, ErrInvalidStop
		}
		return repo.Stops[idx].Coordinate, nil
	case LocationKindArea:
		idx, ok := repo.AreaByID(loc.ID)
		if !ok {
			return quantities.Coordinate{}, ErrInvalidArea
		}
		stopIdxs := repo.StopsByArea(idx)
		coords := make([]quantities.Coordinate, len(stopIdxs))
		for i, stopIdx := range stopIdxs {
			coords[i] = repo.Stops[stopIdx].Coordinate
		}
		return quantities.Centroid(coords), nil
	default:
		return quantities.Coordinate{}, ErrInvalidStop
	}
}
