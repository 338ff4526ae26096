package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/raptor-engine/internal/quantities"
)

func TestApplyUpdatesOnlyKeepsImprovements(t *testing.T) {
	a := New(4)

	a.QueueUpdate(Update{StopIndex: 1, ArrivalTime: 100, Parent: Parent{Kind: ParentWalk}})
	a.ApplyUpdates(0)

	best, ok := a.BestArrival(1)
	require.True(t, ok)
	assert.Equal(t, quantities.Time(100), best)

	// A worse update must not overwrite the best.
	a.QueueUpdate(Update{StopIndex: 1, ArrivalTime: 200, Parent: Parent{Kind: ParentWalk}})
	a.ApplyUpdates(1)
	best, _ = a.BestArrival(1)
	assert.Equal(t, quantities.Time(100), best)

	// A better update must overwrite it.
	a.QueueUpdate(Update{StopIndex: 1, ArrivalTime: 50, Parent: Parent{Kind: ParentWalk}})
	a.ApplyUpdates(2)
	best, _ = a.BestArrival(1)
	assert.Equal(t, quantities.Time(50), best)
}

func TestApplyUpdatesMarksStopsAndRecordsParent(t *testing.T) {
	a := New(4)
	parent := Parent{From: StopPoint(0), To: StopPoint(2), Kind: ParentTransit, TripIndex: 7, ArrivalTime: 300}
	a.QueueUpdate(Update{StopIndex: 2, ArrivalTime: 300, Parent: parent})
	a.ApplyUpdates(3)

	assert.Contains(t, a.MarkedStops(), uint32(2))

	got, ok := a.Parent(3, 2)
	require.True(t, ok)
	assert.Equal(t, parent, got)

	_, ok = a.Parent(2, 2)
	assert.False(t, ok, "parent should only be recorded in the round it was applied")
}

func TestSwapLabelsMovesCurrentIntoPrevious(t *testing.T) {
	a := New(4)
	a.QueueUpdate(Update{StopIndex: 0, ArrivalTime: 42})
	a.ApplyUpdates(0)

	curr, ok := a.CurrRoundArrival(0)
	require.True(t, ok)
	assert.Equal(t, quantities.Time(42), curr)

	a.SwapLabels()

	prev, ok := a.PrevRoundArrival(0)
	require.True(t, ok)
	assert.Equal(t, quantities.Time(42), prev)

	_, ok = a.CurrRoundArrival(0)
	assert.False(t, ok)
}

func TestResetClearsAllState(t *testing.T) {
	a := New(4)
	a.QueueUpdate(Update{StopIndex: 1, ArrivalTime: 10})
	a.ApplyUpdates(0)
	require.NotEmpty(t, a.MarkedStops())

	a.Reset(4)
	assert.Empty(t, a.MarkedStops())
	_, ok := a.BestArrival(1)
	assert.False(t, ok)
}

func TestResetGrowsWhenRepositorySizeChanges(t *testing.T) {
	a := New(2)
	a.Reset(10)
	assert.Len(t, a.marked, 10)
}

func TestPoolReusesAndResetsAllocators(t *testing.T) {
	p := NewPool()
	a := p.Get(4)
	a.QueueUpdate(Update{StopIndex: 0, ArrivalTime: 5})
	a.ApplyUpdates(0)
	p.Put(a)

	reused := p.Get(4)
	_, ok := reused.BestArrival(0)
	assert.False(t, ok, "pooled allocator must come back reset")
}
