// Package allocator holds the per-query scratch state the RAPTOR solver
// mutates round by round: best-known arrival times, marked stops, and a
// flattened (round, stop) parent matrix used for backtracking. An
// Allocator is reused across queries via Pool so a busy server doesn't
// reallocate these arrays on every request.
package allocator

import "github.com/antigravity/raptor-engine/internal/quantities"

// MaxRounds bounds how many RAPTOR rounds (= transfers + 1) a query will
// explore, round 0 (the initial walk) included. A query that hasn't
// converged by then returns the best destination arrival found so far,
// and fails with no route only if none was found.
const MaxRounds = 8

// ParentKind distinguishes how a stop's current-best arrival was
// reached, mirroring the three ways a label can be set: riding a trip,
// a scheduled transfer, or a direct walk.
type ParentKind int

const (
	ParentTransit ParentKind = iota
	ParentTransfer
	ParentWalk
)

// Point is either a resolved stop index or a free-standing coordinate —
// the latter only ever appears at the very start or end of a path, for
// the initial/final walk leg to or from an arbitrary point.
type Point struct {
	IsStop     bool
	StopIndex  uint32
	Coordinate quantities.Coordinate
}

// StopPoint builds a Point addressing a stop by index.
func StopPoint(stopIndex uint32) Point { return Point{IsStop: true, StopIndex: stopIndex} }

// CoordinatePoint builds a Point addressing an arbitrary coordinate.
func CoordinatePoint(c quantities.Coordinate) Point { return Point{Coordinate: c} }

// Parent records one edge of the path a query ends up taking: where it
// came from, where it arrived, how (transit/transfer/walk), and when.
// TripIndex is only meaningful when Kind is ParentTransit.
type Parent struct {
	From          Point
	To            Point
	Kind          ParentKind
	TripIndex     uint32
	DepartureTime quantities.Time
	ArrivalTime   quantities.Time
}

// Update is a candidate improvement to a stop's best-known arrival time,
// produced during route and transfer relaxation and applied in a single
// pass afterward so concurrent producers never need to synchronize on
// the shared label arrays.
type Update struct {
	StopIndex   uint32
	ArrivalTime quantities.Time
	Parent      Parent
}

// Allocator is the mutable working set for a single solve. It is sized
// once (NumStops) and Reset between uses rather than reallocated.
type Allocator struct {
	tauStar     []quantities.Time
	tauStarSet  []bool
	marked      []bool
	prevLabels  []quantities.Time
	prevSet     []bool
	currLabels  []quantities.Time
	currSet     []bool
	parents     []Parent
	parentsSet  []bool
	updates     []Update
	numStops    int
}

// New allocates an Allocator sized for a repository with numStops stops.
func New(numStops int) *Allocator {
	a := &Allocator{numStops: numStops}
	a.tauStar = make([]quantities.Time, numStops)
	a.tauStarSet = make([]bool, numStops)
	a.marked = make([]bool, numStops)
	a.prevLabels = make([]quantities.Time, numStops)
	a.prevSet = make([]bool, numStops)
	a.currLabels = make([]quantities.Time, numStops)
	a.currSet = make([]bool, numStops)
	a.parents = make([]Parent, numStops*MaxRounds)
	a.parentsSet = make([]bool, numStops*MaxRounds)
	a.updates = make([]Update, 0, 1024)
	return a
}

// Reset clears every array back to its zero state so the Allocator can
// serve a new query, and grows the arrays if the repository it now
// serves has more stops than it was last sized for.
func (a *Allocator) Reset(numStops int) {
	if numStops != a.numStops {
		*a = *New(numStops)
		return
	}
	clearTimes(a.tauStar, a.tauStarSet)
	clearBools(a.marked)
	clearTimes(a.prevLabels, a.prevSet)
	clearTimes(a.currLabels, a.currSet)
	clearParents(a.parents, a.parentsSet)
	a.updates = a.updates[:0]
}

func clearTimes(times []quantities.Time, set []bool) {
	for i := range set {
		set[i] = false
		times[i] = 0
	}
}

func clearBools(b []bool) {
	for i := range b {
		b[i] = false
	}
}

func clearParents(p []Parent, set []bool) {
	for i := range set {
		set[i] = false
		p[i] = Parent{}
	}
}

// flatIndex converts a (round, stop) coordinate into an offset into the
// flattened parents matrix.
func (a *Allocator) flatIndex(round int, stopIndex uint32) int {
	return round*a.numStops + int(stopIndex)
}

// BestArrival returns the current global-best arrival time at a stop,
// across every round explored so far.
func (a *Allocator) BestArrival(stopIndex uint32) (quantities.Time, bool) {
	return a.tauStar[stopIndex], a.tauStarSet[stopIndex]
}

// PrevRoundArrival returns the best arrival at a stop as of the end of
// the previous round (round k-1's label), used while scanning a route
// to see whether an earlier trip could now be caught.
func (a *Allocator) PrevRoundArrival(stopIndex uint32) (quantities.Time, bool) {
	return a.prevLabels[stopIndex], a.prevSet[stopIndex]
}

// CurrRoundArrival returns the label set during the round currently
// being computed (round k), used when relaxing transfers and foot-paths
// after the transit scan of the same round.
func (a *Allocator) CurrRoundArrival(stopIndex uint32) (quantities.Time, bool) {
	return a.currLabels[stopIndex], a.currSet[stopIndex]
}

// MarkedStops returns the indices marked for re-exploration in the
// round just applied.
func (a *Allocator) MarkedStops() []uint32 {
	out := make([]uint32, 0, len(a.marked))
	for i, m := range a.marked {
		if m {
			out = append(out, uint32(i))
		}
	}
	return out
}

// ClearMarks unmarks every stop, done once per round before the next
// round's relaxation passes mark their own improvements.
func (a *Allocator) ClearMarks() {
	clearBools(a.marked)
}

// Parent returns the parent recorded for a stop in a given round, if
// any improvement was made there.
func (a *Allocator) Parent(round int, stopIndex uint32) (Parent, bool) {
	i := a.flatIndex(round, stopIndex)
	return a.parents[i], a.parentsSet[i]
}

// QueueUpdate appends a candidate improvement to the update buffer.
// It is not safe for concurrent use: the solver's parallel phases
// (raptor relaxRoutes / relaxTransfersAndWalks) collect per-goroutine
// slices and queue them from a single goroutine before ApplyUpdates.
func (a *Allocator) QueueUpdate(u Update) {
	a.updates = append(a.updates, u)
}

// QueueUpdates appends a batch of updates at once.
func (a *Allocator) QueueUpdates(us []Update) {
	a.updates = append(a.updates, us...)
}

// ApplyUpdates commits every queued update whose arrival time improves
// on the stop's current global best, recording it into the given
// round's labels, the global best, and the parent matrix. Applying is
// single-threaded by design: concurrent relaxation only ever produces
// candidates, never writes shared state directly.
func (a *Allocator) ApplyUpdates(round int) {
	for _, u := range a.updates {
		best, ok := a.BestArrival(u.StopIndex)
		if ok && best <= u.ArrivalTime {
			continue
		}
		a.currLabels[u.StopIndex] = u.ArrivalTime
		a.currSet[u.StopIndex] = true
		i := a.flatIndex(round, u.StopIndex)
		a.parents[i] = u.Parent
		a.parentsSet[i] = true
		a.tauStar[u.StopIndex] = u.ArrivalTime
		a.tauStarSet[u.StopIndex] = true
		a.marked[u.StopIndex] = true
	}
	a.updates = a.updates[:0]
}

// SwapLabels moves this round's labels into "previous round" position
// ahead of the next round, and clears the current-round slot — RAPTOR
// only ever needs the immediately preceding round's labels, not a full
// history.
func (a *Allocator) SwapLabels() {
	a.prevLabels, a.currLabels = a.currLabels, a.prevLabels
	a.prevSet, a.currSet = a.currSet, a.prevSet
	for i := range a.currSet {
		a.currSet[i] = false
	}
}
