// Package geogrid implements the fixed-cell spatial hash used by the
// repository to answer "stops near this coordinate" queries in roughly
// constant time instead of scanning every stop (§4.1, §4.4).
package geogrid

import (
	"math"

	"github.com/antigravity/raptor-engine/internal/quantities"
)

type cell struct {
	x, y int32
}

// Grid maps coordinates, bucketed into AverageStopDistance-sided cells,
// to the dense indices of whatever is stored there (stop indices, in
// practice).
type Grid struct {
	cells map[cell][]uint32
}

// New returns an empty grid.
func New() *Grid {
	return &Grid{cells: make(map[cell][]uint32)}
}

// Insert adds index at coordinate c's cell.
func (g *Grid) Insert(c quantities.Coordinate, index uint32) {
	x, y := c.ToGrid()
	key := cell{x, y}
	g.cells[key] = append(g.cells[key], index)
}

// Query returns every index stored in the window of cells around c
// that can hold a point within distance, filtered down to those passing
// `keep`. `keep` receives the index and must itself compare network
// distance, since the grid only narrows down candidates by cell, not by
// exact distance.
//
// reach is ceil(distance / AverageStopDistance) cells north and south;
// east and west it is divided by cos(latitude) as well, since a cell's
// east-west width shrinks with latitude. The scanned window is thus a
// superset of anything within distance — no false negatives, some false
// positives filtered out by keep.
func (g *Grid) Query(c quantities.Coordinate, distance quantities.Distance, keep func(index uint32) bool) []uint32 {
	reach := int32(math.Ceil(math.Abs(distance.Meters() / quantities.AverageStopDistance.Meters())))
	cosLat := math.Max(math.Cos(c.Latitude*math.Pi/180), 1e-3)
	reachX := int32(math.Ceil(math.Abs(distance.Meters() / (quantities.AverageStopDistance.Meters() * cosLat))))
	originX, originY := c.ToGrid()

	var results []uint32
	for dx := -reachX; dx <= reachX; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			key := cell{originX + dx, originY + dy}
			for _, idx := range g.cells[key] {
				if keep(idx) {
					results = append(results, idx)
				}
			}
		}
	}
	return results
}
