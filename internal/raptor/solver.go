// Package raptor implements the round-based public transit routing
// algorithm over a loaded repository.Repository: given an origin and a
// destination Location and a departure time, it finds the itinerary
// that arrives earliest, optimizing implicitly for fewest transfers by
// stopping as soon as a round marks no improved stop (or the round cap
// allocator.MaxRounds is reached).
package raptor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/antigravity/raptor-engine/internal/allocator"
	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/repository"
	"github.com/antigravity/raptor-engine/internal/search"
)

// Location re-exports search.Location so callers only need to import
// one package to build a query.
type Location = search.Location

func AreaLocation(id string) Location       { return search.AreaLocation(id) }
func StopLocation(id string) Location       { return search.StopLocation(id) }
func CoordinateLocation(c quantities.Coordinate) Location { return search.CoordinateLocation(c) }

// defaultWalkDistance bounds how far a query is willing to walk for a
// direct foot transfer between two stops not connected by a scheduled
// transfer. Initial/final access stops are found by search.Resolve with
// its own fixed radius.
const defaultWalkDistance = quantities.Distance(500.0)

// Solver runs one query against a fixed repository snapshot. Build one
// per query with New (which takes the departure time), optionally adjust
// it with WithWalkDistance, then call Solve.
type Solver struct {
	repo         *repository.Repository
	pool         *allocator.Pool
	from         Location
	to           Location
	departure    quantities.Time
	walkDistance quantities.Distance
}

// New returns a Solver for the given origin and destination, departing
// at the caller-supplied time — the engine never reads the wall clock
// itself (see quantities.Time).
func New(repo *repository.Repository, pool *allocator.Pool, from, to Location, departure quantities.Time) *Solver {
	return &Solver{
		repo:         repo,
		pool:         pool,
		from:         from,
		to:           to,
		departure:    departure,
		walkDistance: defaultWalkDistance,
	}
}

// WithWalkDistance overrides the default maximum walk distance used for
// foot transfers between stops. It does not change the radius used to
// find initial/final access stops.
func (s *Solver) WithWalkDistance(d quantities.Distance) *Solver {
	s.walkDistance = d
	return s
}

// Solve runs the round-based search and returns the earliest-arrival
// itinerary, or an error if the endpoints can't be resolved or no route
// exists within allocator.MaxRounds rounds.
func (s *Solver) Solve(ctx context.Context) (*Itinerary, error) {
	originCandidates, err := search.Resolve(s.repo, s.from)
	if err != nil {
		return nil, err
	}
	destinationCandidates, err := search.Resolve(s.repo, s.to)
	if err != nil {
		return nil, err
	}
	fromCoord, err := search.Coordinate(s.repo, s.from)
	if err != nil {
		return nil, err
	}
	toCoord, err := search.Coordinate(s.repo, s.to)
	if err != nil {
		return nil, err
	}

	a := s.pool.Get(len(s.repo.Stops))
	defer s.pool.Put(a)

	if err := s.seedInitialStops(ctx, a, originCandidates, fromCoord); err != nil {
		return nil, err
	}
	a.SwapLabels()

	targets := targetStops(destinationCandidates)

	var (
		targetBest      = quantities.Infinity
		targetBestStop  uint32
		targetBestRound int
		targetFound     bool
	)

	// A destination stop that is also an origin candidate is already
	// reached in round 0, by the initial walk alone.
	for stopIdx, walk := range targets {
		best, ok := a.BestArrival(stopIdx)
		if ok && best.Add(walk) < targetBest {
			targetBest = best.Add(walk)
			targetBestStop = stopIdx
			targetBestRound = 0
			targetFound = true
		}
	}

	round := 1
	for ; round < allocator.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		marked := a.MarkedStops()
		if len(marked) == 0 {
			break
		}
		a.ClearMarks()

		if err := s.relaxRoutes(ctx, a, marked, round, targetBest); err != nil {
			return nil, err
		}

		if err := s.relaxTransfersAndWalks(ctx, a, round); err != nil {
			return nil, err
		}
		a.SwapLabels()

		for stopIdx, walk := range targets {
			best, ok := a.BestArrival(stopIdx)
			if !ok {
				continue
			}
			arrival := best.Add(walk)
			if arrival < targetBest {
				targetBest = arrival
				targetBestStop = stopIdx
				targetBestRound = round
				targetFound = true
			}
		}
	}

	if !targetFound {
		return nil, ErrNoRouteFound
	}

	path, err := s.backtrack(a, toCoord, targetBestStop, targetBestRound)
	if err != nil {
		return nil, err
	}
	return newItinerary(s.from, s.to, path, s.repo), nil
}

// seedInitialStops queues round-0 updates for every candidate origin
// stop (§4.3), each arriving at departure plus its resolved walk
// duration (zero for a Stop/Area resolution, network-distance-derived
// for a Coordinate resolution or an Area's centroid fallback).
func (s *Solver) seedInitialStops(ctx context.Context, a *allocator.Allocator, candidates []search.Candidate, fromCoord quantities.Coordinate) error {
	var g errgroup.Group
	updatesPerStop := make([]allocator.Update, len(candidates))

	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			arrival := s.departure.Add(candidate.Walk)
			updatesPerStop[i] = allocator.Update{
				StopIndex:   candidate.StopIndex,
				ArrivalTime: arrival,
				Parent: allocator.Parent{
					From:          allocator.CoordinatePoint(fromCoord),
					To:            allocator.StopPoint(candidate.StopIndex),
					Kind:          allocator.ParentWalk,
					DepartureTime: s.departure,
					ArrivalTime:   arrival,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.QueueUpdates(updatesPerStop)
	a.ApplyUpdates(0)
	return nil
}

// targetStops maps every candidate destination stop to its resolved
// walk duration to the destination.
func targetStops(candidates []search.Candidate) map[uint32]quantities.Duration {
	out := make(map[uint32]quantities.Duration, len(candidates))
	for _, c := range candidates {
		out[c.StopIndex] = c.Walk
	}
	return out
}

// relaxRoutes performs the route-scanning phase of one round: for every
// RaptorRoute touched by a marked stop, walk it forward from the
// earliest marked stop in that route, riding the earliest trip
// catchable at each point and recording any improved arrival.
func (s *Solver) relaxRoutes(ctx context.Context, a *allocator.Allocator, marked []uint32, round int, targetBest quantities.Time) error {
	active := s.earliestMarkedOffsetPerRoute(marked)
	if len(active) == 0 {
		return nil
	}

	routeIdxs := make([]uint32, 0, len(active))
	for routeIdx := range active {
		routeIdxs = append(routeIdxs, routeIdx)
	}

	results := make([][]allocator.Update, len(routeIdxs))
	var g errgroup.Group
	for i, routeIdx := range routeIdxs {
		i, routeIdx := i, routeIdx
		startOffset := active[routeIdx]
		g.Go(func() error {
			results[i] = s.scanRoute(a, routeIdx, startOffset, round, targetBest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rs := range results {
		a.QueueUpdates(rs)
	}
	a.ApplyUpdates(round)
	return nil
}

// earliestMarkedOffsetPerRoute finds, for every RaptorRoute served by at
// least one marked stop, the smallest offset within that route's stop
// sequence among the marked stops — the point from which the route scan
// needs to start to catch every possible improvement.
func (s *Solver) earliestMarkedOffsetPerRoute(marked []uint32) map[uint32]int {
	active := make(map[uint32]int)
	for _, stopIdx := range marked {
		for _, routeIdx := range s.repo.RaptorRoutesAtStop(stopIdx) {
			route := s.repo.RaptorRoutes[routeIdx]
			offset, ok := route.StopOffsetInRoute(stopIdx)
			if !ok {
				continue
			}
			if existing, ok := active[routeIdx]; !ok || offset < existing {
				active[routeIdx] = offset
			}
		}
	}
	return active
}

// scanRoute walks a single RaptorRoute forward from startOffset,
// boarding the earliest catchable trip and recording any stop where
// riding it improves on the best-known arrival.
func (s *Solver) scanRoute(a *allocator.Allocator, routeIdx uint32, startOffset, round int, targetBest quantities.Time) []allocator.Update {
	route := s.repo.RaptorRoutes[routeIdx]

	var (
		updates      []allocator.Update
		activeTrip   *uint32
		boardingStop uint32
		boardingOff  int
	)

	for i := startOffset; i < len(route.Stops); i++ {
		stopIdx := route.Stops[i]

		if activeTrip != nil {
			arrival := s.stopTimeAt(*activeTrip, i).ArrivalTime
			best, ok := a.BestArrival(stopIdx)
			if (!ok || arrival < best) && arrival < targetBest {
				updates = append(updates, allocator.Update{
					StopIndex:   stopIdx,
					ArrivalTime: arrival,
					Parent: allocator.Parent{
						From:          allocator.StopPoint(boardingStop),
						To:            allocator.StopPoint(stopIdx),
						Kind:          allocator.ParentTransit,
						TripIndex:     *activeTrip,
						DepartureTime: s.stopTimeAt(*activeTrip, boardingOff).DepartureTime,
						ArrivalTime:   arrival,
					},
				})
			}
		}

		prevArrival, havePrev := a.PrevRoundArrival(stopIdx)
		var currentTripDeparture quantities.Time = quantities.Infinity
		if activeTrip != nil {
			currentTripDeparture = s.stopTimeAt(*activeTrip, i).DepartureTime
		}

		if havePrev && prevArrival <= currentTripDeparture {
			if earlier, ok := s.findEarliestTrip(route, i, prevArrival); ok {
				trip := earlier
				activeTrip = &trip
				boardingStop = stopIdx
				boardingOff = i
			}
		}
	}

	return updates
}

func (s *Solver) stopTimeAt(tripIdx uint32, offset int) repository.StopTime {
	return s.repo.StopTimesOfTrip(tripIdx)[offset]
}

// findEarliestTrip returns the trip on route departing soonest at or
// after time, at the stop occupying offset within the route.
func (s *Solver) findEarliestTrip(route repository.RaptorRoute, offset int, after quantities.Time) (uint32, bool) {
	var (
		best     uint32
		bestDep  quantities.Time
		haveBest bool
	)
	for _, tripIdx := range route.Trips {
		dep := s.stopTimeAt(tripIdx, offset).DepartureTime
		if dep < after {
			continue
		}
		if !haveBest || dep < bestDep {
			best = tripIdx
			bestDep = dep
			haveBest = true
		}
	}
	return best, haveBest
}

// relaxTransfersAndWalks performs the foot-path phase of one round:
// for every stop improved by the round's route scan, relax its
// scheduled transfers and any direct walk to a nearby stop.
func (s *Solver) relaxTransfersAndWalks(ctx context.Context, a *allocator.Allocator, round int) error {
	marked := a.MarkedStops()
	if len(marked) == 0 {
		return nil
	}

	results := make([][]allocator.Update, len(marked))
	var g errgroup.Group
	for i, stopIdx := range marked {
		i, stopIdx := i, stopIdx
		g.Go(func() error {
			results[i] = s.relaxFromStop(a, stopIdx, round)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rs := range results {
		a.QueueUpdates(rs)
	}
	a.ApplyUpdates(round)
	return nil
}

func (s *Solver) relaxFromStop(a *allocator.Allocator, stopIdx uint32, round int) []allocator.Update {
	departure, ok := a.CurrRoundArrival(stopIdx)
	if !ok {
		return nil
	}

	var updates []allocator.Update

	for _, transferIdx := range s.repo.TransfersFromStop(stopIdx) {
		transfer := s.repo.Transfers[transferIdx]
		duration := s.transferDuration(transfer)
		arrival := departure.Add(duration)
		best, has := a.BestArrival(transfer.ToStopIndex)
		if has && best <= arrival {
			continue
		}
		updates = append(updates, allocator.Update{
			StopIndex:   transfer.ToStopIndex,
			ArrivalTime: arrival,
			Parent: allocator.Parent{
				From:          allocator.StopPoint(stopIdx),
				To:            allocator.StopPoint(transfer.ToStopIndex),
				Kind:          allocator.ParentTransfer,
				DepartureTime: departure,
				ArrivalTime:   arrival,
			},
		})
	}

	currentStop := s.repo.Stops[stopIdx]
	for _, nextStopIdx := range s.repo.StopsWithinDistance(currentStop.Coordinate, s.walkDistance) {
		if nextStopIdx == stopIdx {
			continue
		}
		nextStop := s.repo.Stops[nextStopIdx]
		duration := quantities.TimeToWalk(currentStop.Coordinate.NetworkDistance(nextStop.Coordinate))
		arrival := departure.Add(duration)
		best, has := a.BestArrival(nextStopIdx)
		if has && best <= arrival {
			continue
		}
		updates = append(updates, allocator.Update{
			StopIndex:   nextStopIdx,
			ArrivalTime: arrival,
			Parent: allocator.Parent{
				From:          allocator.StopPoint(stopIdx),
				To:            allocator.StopPoint(nextStopIdx),
				Kind:          allocator.ParentWalk,
				DepartureTime: departure,
				ArrivalTime:   arrival,
			},
		})
	}

	return updates
}

func (s *Solver) transferDuration(transfer repository.Transfer) quantities.Duration {
	from := s.repo.Stops[transfer.FromStopIndex]
	to := s.repo.Stops[transfer.ToStopIndex]
	walk := quantities.TimeToWalk(from.Coordinate.NetworkDistance(to.Coordinate))
	if transfer.MinTransferTime != nil {
		return transfer.MinTransferTime.Add(walk)
	}
	return walk
}

