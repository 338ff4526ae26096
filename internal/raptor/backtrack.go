package raptor

import (
	"github.com/antigravity/raptor-engine/internal/allocator"
	"github.com/antigravity/raptor-engine/internal/quantities"
)

// backtrack walks the parent matrix from the best stop/round found
// toward the destination back to the query's origin, then appends a
// final walk leg from the best stop to the exact destination coordinate
// (merging it into the last leg if that leg was already a walk).
func (s *Solver) backtrack(a *allocator.Allocator, toCoord quantities.Coordinate, targetStop uint32, targetRound int) ([]allocator.Parent, error) {
	var path []allocator.Parent

	currentPoint := allocator.StopPoint(targetStop)
	currentRound := targetRound

	for currentPoint.IsStop {
		parent, ok := a.Parent(currentRound, currentPoint.StopIndex)
		if !ok {
			return nil, ErrFailedToBuildRoute
		}
		path = append(path, parent)
		currentPoint = parent.From

		// A transit leg consumed one round; transfers and walks are
		// free within the same round, so only transit decrements.
		if parent.Kind == allocator.ParentTransit {
			if currentRound == 0 {
				break
			}
			currentRound--
		} else if currentRound == 0 {
			break
		}
	}

	reverse(path)

	if len(path) == 0 {
		return path, nil
	}

	last := path[len(path)-1]
	finalStop := s.repo.Stops[targetStop]
	walkToTarget := quantities.TimeToWalk(finalStop.Coordinate.NetworkDistance(toCoord))

	if walkToTarget == 0 {
		return path, nil
	}

	if last.Kind == allocator.ParentWalk {
		// Merge: extend the final walk straight through to the
		// destination instead of adding a second, back-to-back leg.
		path[len(path)-1] = allocator.Parent{
			From:          last.From,
			To:            allocator.CoordinatePoint(toCoord),
			Kind:          allocator.ParentWalk,
			DepartureTime: last.ArrivalTime,
			ArrivalTime:   last.ArrivalTime.Add(walkToTarget),
		}
		return path, nil
	}

	path = append(path, allocator.Parent{
		From:          allocator.StopPoint(targetStop),
		To:            allocator.CoordinatePoint(toCoord),
		Kind:          allocator.ParentWalk,
		DepartureTime: last.ArrivalTime,
		ArrivalTime:   last.ArrivalTime.Add(walkToTarget),
	})
	return path, nil
}

func reverse(path []allocator.Parent) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
