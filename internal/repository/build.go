package repository

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/antigravity/raptor-engine/internal/geogrid"
	"github.com/antigravity/raptor-engine/internal/quantities"
)

// Builder accumulates rows from a FeedSource and resolves them into a
// Repository's dense arrays. A Builder is single-use: Build creates a
// fresh one for every feed.
type Builder struct {
	repo *Repository

	// per-trip stop_time accumulation buffer, flushed (sorted + appended
	// to repo.StopTimes) whenever a trip boundary is crossed, mirroring
	// the streaming accumulate-then-flush approach of the Rust builder.
	currentTripID string
	buffer        []StopTime

	pendingParents []pendingParent

	// shapeSeq records (shapeIdx, sequence) pairs in arrival order so
	// points can be sorted into path order once every row is in,
	// regardless of what order shapes.txt presents them.
	shapeSeq []shapeSeqEntry
}

type shapeSeqEntry struct {
	shapeIdx uint32
	seq      uint32
}

// NewBuilder returns a Builder ready to consume a FeedSource.
func NewBuilder() *Builder {
	return &Builder{
		repo: &Repository{
			stopByID:           make(map[string]uint32),
			areaByID:           make(map[string]uint32),
			agencyByID:         make(map[string]uint32),
			routeByID:          make(map[string]uint32),
			tripByID:           make(map[string]uint32),
			shapeByID:          make(map[string]uint32),
			areaToStops:        make(map[uint32][]uint32),
			stopToArea:         make(map[uint32]uint32),
			stopToTransfers:    make(map[uint32][]uint32),
			stopToRaptorRoutes: make(map[uint32][]uint32),
			routeToRaptor:      make(map[uint32][]uint32),
			tripToStopTimes:    make(map[uint32]stopTimeRange),
			grid:               geogrid.New(),
		},
	}
}

// Build drains every table a FeedSource offers, in dependency order, and
// returns the resolved Repository. On any error the returned Repository
// is nil: a build never leaves behind a partially-loaded instance.
func Build(source FeedSource) (*Repository, error) {
	b := NewBuilder()

	if err := source.StreamAgencies(b.addAgency); err != nil {
		return nil, errors.Wrap(err, "agencies")
	}
	if err := source.StreamStops(b.addStop); err != nil {
		return nil, errors.Wrap(err, "stops")
	}
	if err := b.resolveStopParents(); err != nil {
		return nil, errors.Wrap(err, "stop parent references")
	}
	if err := source.StreamAreas(b.addArea); err != nil {
		return nil, errors.Wrap(err, "areas")
	}
	if err := source.StreamStopAreas(b.addStopArea); err != nil {
		return nil, errors.Wrap(err, "stop_areas")
	}
	if err := source.StreamRoutes(b.addRoute); err != nil {
		return nil, errors.Wrap(err, "routes")
	}
	if err := source.StreamShapes(b.addShapePoint); err != nil {
		return nil, errors.Wrap(err, "shapes")
	}
	if err := source.StreamTrips(b.addTrip); err != nil {
		return nil, errors.Wrap(err, "trips")
	}
	if err := source.StreamTransfers(b.addTransfer); err != nil {
		return nil, errors.Wrap(err, "transfers")
	}
	if err := source.StreamStopTimes(b.addStopTime); err != nil {
		return nil, errors.Wrap(err, "stop_times")
	}
	b.flushStopTimeBuffer()
	b.finalizeShapes()

	b.buildGrid()

	if err := b.buildRaptorRoutes(); err != nil {
		return nil, errors.Wrap(err, "raptor routes")
	}

	return b.repo, nil
}

func (b *Builder) addAgency(row AgencyRow) error {
	idx := uint32(len(b.repo.Agencies))
	b.repo.Agencies = append(b.repo.Agencies, Agency{
		Index:    idx,
		ID:       row.ID,
		Name:     row.Name,
		Timezone: row.Timezone,
	})
	b.repo.agencyByID[row.ID] = idx
	return nil
}

func (b *Builder) addStop(row StopRow) error {
	idx := uint32(len(b.repo.Stops))
	b.repo.Stops = append(b.repo.Stops, Stop{
		Index:          idx,
		ID:             row.ID,
		Name:           row.Name,
		NormalizedName: normalizeName(row.Name),
		Coordinate:     quantities.Coordinate{Latitude: row.Latitude, Longitude: row.Longitude},
		LocationType:   LocationType(row.LocationType),
		PlatformCode:   row.PlatformCode,
	})
	b.repo.stopByID[row.ID] = idx

	// parent_station references a stop that may not be defined yet;
	// stash the raw id and resolve once every stop has an index.
	if row.ParentStationID != "" {
		b.pendingParents = append(b.pendingParents, pendingParent{stopIdx: idx, parentID: row.ParentStationID})
	}
	return nil
}

type pendingParent struct {
	stopIdx  uint32
	parentID string
}

func (b *Builder) resolveStopParents() error {
	for _, p := range b.pendingParents {
		parentIdx, ok := b.repo.stopByID[p.parentID]
		if !ok {
			return &UnknownReferenceError{Kind: "stop", ID: p.parentID}
		}
		idx := parentIdx
		b.repo.Stops[p.stopIdx].ParentStationIdx = &idx
	}
	return nil
}

func (b *Builder) addArea(row AreaRow) error {
	idx := uint32(len(b.repo.Areas))
	b.repo.Areas = append(b.repo.Areas, Area{
		Index:          idx,
		ID:             row.ID,
		Name:           row.Name,
		NormalizedName: normalizeName(row.Name),
	})
	b.repo.areaByID[row.ID] = idx
	return nil
}

func (b *Builder) addStopArea(row StopAreaRow) error {
	stopIdx, ok := b.repo.stopByID[row.StopID]
	if !ok {
		return &UnknownReferenceError{Kind: "stop", ID: row.StopID}
	}
	areaIdx, ok := b.repo.areaByID[row.AreaID]
	if !ok {
		return &UnknownReferenceError{Kind: "area", ID: row.AreaID}
	}
	b.repo.areaToStops[areaIdx] = append(b.repo.areaToStops[areaIdx], stopIdx)
	b.repo.stopToArea[stopIdx] = areaIdx
	return nil
}

func (b *Builder) addRoute(row RouteRow) error {
	var agencyIdx uint32
	if row.AgencyID != "" {
		idx, ok := b.repo.agencyByID[row.AgencyID]
		if !ok {
			return &UnknownReferenceError{Kind: "agency", ID: row.AgencyID}
		}
		agencyIdx = idx
	}
	idx := uint32(len(b.repo.Routes))
	b.repo.Routes = append(b.repo.Routes, Route{
		Index:     idx,
		ID:        row.ID,
		AgencyIdx: agencyIdx,
		ShortName: row.ShortName,
		LongName:  row.LongName,
		RouteType: row.RouteType,
		Desc:      row.Desc,
	})
	b.repo.routeByID[row.ID] = idx
	return nil
}

func (b *Builder) addShapePoint(row ShapeRow) error {
	idx, ok := b.repo.shapeByID[row.ID]
	if !ok {
		idx = uint32(len(b.repo.Shapes))
		b.repo.Shapes = append(b.repo.Shapes, Shape{Index: idx, ID: row.ID})
		b.repo.shapeByID[row.ID] = idx
	}
	shape := &b.repo.Shapes[idx]
	// shapes.txt rows may arrive out of sequence order; append in arrival
	// order and record the sequence, and finalizeShapes sorts the points
	// once every row is in, as stop_times.txt is sorted by sequence.
	shape.Points = append(shape.Points, quantities.Coordinate{Latitude: row.Latitude, Longitude: row.Longitude})
	b.shapeSeq = append(b.shapeSeq, shapeSeqEntry{shapeIdx: idx, seq: row.Sequence})
	return nil
}

// finalizeShapes reorders each shape's Points into sequence order. Rows
// are appended to shape.Points in stream-arrival order above; this pass
// corrects for any shapes.txt file that isn't already sequence-sorted.
func (b *Builder) finalizeShapes() {
	perShape := make(map[uint32][]shapeSeqEntry, len(b.repo.Shapes))
	for _, e := range b.shapeSeq {
		perShape[e.shapeIdx] = append(perShape[e.shapeIdx], e)
	}
	for shapeIdx, entries := range perShape {
		order := make([]int, len(entries))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool { return entries[order[i]].seq < entries[order[j]].seq })
		points := b.repo.Shapes[shapeIdx].Points
		sorted := make([]quantities.Coordinate, len(points))
		for newPos, oldPos := range order {
			sorted[newPos] = points[oldPos]
		}
		b.repo.Shapes[shapeIdx].Points = sorted
	}
}

func (b *Builder) addTrip(row TripRow) error {
	routeIdx, ok := b.repo.routeByID[row.RouteID]
	if !ok {
		return &UnknownReferenceError{Kind: "route", ID: row.RouteID}
	}
	var shapeIdx *uint32
	if row.ShapeID != "" {
		idx, ok := b.repo.shapeByID[row.ShapeID]
		if !ok {
			return &UnknownReferenceError{Kind: "shape", ID: row.ShapeID}
		}
		shapeIdx = &idx
	}
	idx := uint32(len(b.repo.Trips))
	b.repo.Trips = append(b.repo.Trips, Trip{
		Index:      idx,
		ID:         row.ID,
		RouteIndex: routeIdx,
		Headsign:   row.Headsign,
		ShortName:  row.ShortName,
		ShapeIndex: shapeIdx,
	})
	b.repo.tripByID[row.ID] = idx
	return nil
}

func (b *Builder) addTransfer(row TransferRow) error {
	fromIdx, ok := b.repo.stopByID[row.FromStopID]
	if !ok {
		return &UnknownReferenceError{Kind: "stop", ID: row.FromStopID}
	}
	toIdx, ok := b.repo.stopByID[row.ToStopID]
	if !ok {
		return &UnknownReferenceError{Kind: "stop", ID: row.ToStopID}
	}
	var fromTripIdx, toTripIdx *uint32
	if row.FromTripID != "" {
		idx, ok := b.repo.tripByID[row.FromTripID]
		if !ok {
			return &UnknownReferenceError{Kind: "trip", ID: row.FromTripID}
		}
		fromTripIdx = &idx
	}
	if row.ToTripID != "" {
		idx, ok := b.repo.tripByID[row.ToTripID]
		if !ok {
			return &UnknownReferenceError{Kind: "trip", ID: row.ToTripID}
		}
		toTripIdx = &idx
	}
	var minTransfer *quantities.Duration
	if row.MinTransferTime != nil {
		d := quantities.FromSeconds(*row.MinTransferTime)
		minTransfer = &d
	}

	idx := uint32(len(b.repo.Transfers))
	b.repo.Transfers = append(b.repo.Transfers, Transfer{
		Index:           idx,
		FromStopIndex:   fromIdx,
		ToStopIndex:     toIdx,
		FromTripIndex:   fromTripIdx,
		ToTripIndex:     toTripIdx,
		MinTransferTime: minTransfer,
	})
	b.repo.stopToTransfers[fromIdx] = append(b.repo.stopToTransfers[fromIdx], idx)
	return nil
}

func (b *Builder) addStopTime(row StopTimeRow) error {
	if row.TripID != b.currentTripID {
		b.flushStopTimeBuffer()
		b.currentTripID = row.TripID
	}

	tripIdx, ok := b.repo.tripByID[row.TripID]
	if !ok {
		return &UnknownReferenceError{Kind: "trip", ID: row.TripID}
	}
	stopIdx, ok := b.repo.stopByID[row.StopID]
	if !ok {
		return &UnknownReferenceError{Kind: "stop", ID: row.StopID}
	}

	arrival, err := quantities.ParseTime(row.ArrivalTime)
	if err != nil {
		return &ParseTimeError{Value: row.ArrivalTime, Cause: err}
	}
	departure, err := quantities.ParseTime(row.DepartureTime)
	if err != nil {
		return &ParseTimeError{Value: row.DepartureTime, Cause: err}
	}

	b.buffer = append(b.buffer, StopTime{
		TripIndex:     tripIdx,
		StopIndex:     stopIdx,
		Sequence:      row.Sequence,
		ArrivalTime:   arrival,
		DepartureTime: departure,
		Headsign:      row.Headsign,
		DistTraveled:  row.DistTraveled,
		PickupType:    PickupDropOffType(row.PickupType),
		DropOffType:   PickupDropOffType(row.DropOffType),
		Timepoint:     row.Timepoint,
	})
	return nil
}

// flushStopTimeBuffer sorts the accumulated stop_times of the trip just
// finished by sequence, assigns them contiguous global indices, and
// records the resulting range for StopTimesOfTrip lookups.
func (b *Builder) flushStopTimeBuffer() {
	if len(b.buffer) == 0 {
		return
	}
	sort.Slice(b.buffer, func(i, j int) bool { return b.buffer[i].Sequence < b.buffer[j].Sequence })

	start := uint32(len(b.repo.StopTimes))
	tripIdx := b.buffer[0].TripIndex
	for i := range b.buffer {
		b.buffer[i].Index = start + uint32(i)
	}
	b.repo.StopTimes = append(b.repo.StopTimes, b.buffer...)
	end := uint32(len(b.repo.StopTimes))
	b.repo.tripToStopTimes[tripIdx] = stopTimeRange{Start: start, End: end}

	b.buffer = b.buffer[:0]
}

func (b *Builder) buildGrid() {
	for _, stop := range b.repo.Stops {
		b.repo.grid.Insert(stop.Coordinate, stop.Index)
	}
}
