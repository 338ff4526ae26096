// Package gtfszip is a reference repository.FeedSource implementation
// that reads a standard GTFS zip archive. It is a collaborator layer,
// not part of the routing core: the Builder never imports archive/zip
// or encoding/csv directly (see repository.FeedSource).
package gtfszip

import (
	"archive/zip"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/antigravity/raptor-engine/internal/repository"
)

// requiredFiles are the tables the builder cannot proceed without.
// agency.txt, areas.txt, stop_areas.txt, transfers.txt and shapes.txt
// are all optional and silently skipped when absent.
var requiredFiles = []string{"stops.txt", "routes.txt", "trips.txt", "stop_times.txt"}

// Reader implements repository.FeedSource over an *zip.Reader opened
// from a GTFS feed on disk.
type Reader struct {
	zr    *zip.ReadCloser
	files map[string]*zip.File
}

// Open unpacks the zip's table of contents; individual files are only
// decompressed when one of the Stream* methods is called.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(repository.ErrZipFormat, err.Error())
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := f.Name
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		files[name] = f
	}

	for _, required := range requiredFiles {
		if _, ok := files[required]; !ok {
			zr.Close()
			return nil, &repository.MissingHeaderError{File: required, Header: "(entire file missing)"}
		}
	}

	return &Reader{zr: zr, files: files}, nil
}

// Close releases the underlying zip archive.
func (r *Reader) Close() error { return r.zr.Close() }

func (r *Reader) open(name string) (io.ReadCloser, bool, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, false, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, true, errors.Wrapf(repository.ErrIo, "opening %s: %s", name, err)
	}
	return rc, true, nil
}

func decodeCSV[T any](rc io.Reader, fn func(*T) error) error {
	err := gocsv.UnmarshalToCallbackWithError(rc, fn)
	if err != nil {
		return errors.Wrap(repository.ErrCsvParse, err.Error())
	}
	return nil
}

type agencyCSV struct {
	ID       string `csv:"agency_id"`
	Name     string `csv:"agency_name"`
	Timezone string `csv:"agency_timezone"`
}

func (r *Reader) StreamAgencies(fn func(repository.AgencyRow) error) error {
	rc, ok, err := r.open("agency.txt")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *agencyCSV) error {
		return fn(repository.AgencyRow{ID: row.ID, Name: row.Name, Timezone: row.Timezone})
	})
}

type stopCSV struct {
	ID              string  `csv:"stop_id"`
	Name            string  `csv:"stop_name"`
	Lat             float64 `csv:"stop_lat"`
	Lon             float64 `csv:"stop_lon"`
	LocationType    int     `csv:"location_type"`
	ParentStationID string  `csv:"parent_station"`
	PlatformCode    string  `csv:"platform_code"`
}

func (r *Reader) StreamStops(fn func(repository.StopRow) error) error {
	rc, _, err := r.open("stops.txt")
	if err != nil {
		return err
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *stopCSV) error {
		// GTFS numbers location_type 0-4; repository.LocationType has its
		// own numbering with an extra Platform kind.
		locationType := repository.LocationStop
		switch row.LocationType {
		case 1:
			locationType = repository.LocationStation
		case 2:
			locationType = repository.LocationEntrance
		case 3:
			locationType = repository.LocationNode
		case 4:
			locationType = repository.LocationBoarding
		}
		return fn(repository.StopRow{
			ID:              row.ID,
			Name:            row.Name,
			Latitude:        row.Lat,
			Longitude:       row.Lon,
			LocationType:    int(locationType),
			ParentStationID: row.ParentStationID,
			PlatformCode:    row.PlatformCode,
		})
	})
}

type areaCSV struct {
	ID   string `csv:"area_id"`
	Name string `csv:"area_name"`
}

func (r *Reader) StreamAreas(fn func(repository.AreaRow) error) error {
	rc, ok, err := r.open("areas.txt")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *areaCSV) error {
		return fn(repository.AreaRow{ID: row.ID, Name: row.Name})
	})
}

type stopAreaCSV struct {
	AreaID string `csv:"area_id"`
	StopID string `csv:"stop_id"`
}

func (r *Reader) StreamStopAreas(fn func(repository.StopAreaRow) error) error {
	rc, ok, err := r.open("stop_areas.txt")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *stopAreaCSV) error {
		return fn(repository.StopAreaRow{StopID: row.StopID, AreaID: row.AreaID})
	})
}

type routeCSV struct {
	ID        string `csv:"route_id"`
	AgencyID  string `csv:"agency_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	RouteType int    `csv:"route_type"`
	Desc      string `csv:"route_desc"`
}

func (r *Reader) StreamRoutes(fn func(repository.RouteRow) error) error {
	rc, _, err := r.open("routes.txt")
	if err != nil {
		return err
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *routeCSV) error {
		return fn(repository.RouteRow{
			ID:        row.ID,
			AgencyID:  row.AgencyID,
			ShortName: row.ShortName,
			LongName:  row.LongName,
			RouteType: row.RouteType,
			Desc:      row.Desc,
		})
	})
}

type tripCSV struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ShapeID   string `csv:"shape_id"`
	Headsign  string `csv:"trip_headsign"`
	ShortName string `csv:"trip_short_name"`
}

func (r *Reader) StreamTrips(fn func(repository.TripRow) error) error {
	rc, _, err := r.open("trips.txt")
	if err != nil {
		return err
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *tripCSV) error {
		return fn(repository.TripRow{
			ID:        row.ID,
			RouteID:   row.RouteID,
			ShapeID:   row.ShapeID,
			Headsign:  row.Headsign,
			ShortName: row.ShortName,
		})
	})
}

type transferCSV struct {
	FromStopID      string `csv:"from_stop_id"`
	ToStopID        string `csv:"to_stop_id"`
	FromTripID      string `csv:"from_trip_id"`
	ToTripID        string `csv:"to_trip_id"`
	MinTransferTime string `csv:"min_transfer_time"`
}

func (r *Reader) StreamTransfers(fn func(repository.TransferRow) error) error {
	rc, ok, err := r.open("transfers.txt")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *transferCSV) error {
		var minTransfer *uint32
		if row.MinTransferTime != "" {
			seconds, err := parseUint(row.MinTransferTime)
			if err != nil {
				return errors.Wrapf(err, "min_transfer_time %q", row.MinTransferTime)
			}
			minTransfer = &seconds
		}
		return fn(repository.TransferRow{
			FromStopID:      row.FromStopID,
			ToStopID:        row.ToStopID,
			FromTripID:      row.FromTripID,
			ToTripID:        row.ToTripID,
			MinTransferTime: minTransfer,
		})
	})
}

type stopTimeCSV struct {
	TripID        string  `csv:"trip_id"`
	StopID        string  `csv:"stop_id"`
	Sequence      uint32  `csv:"stop_sequence"`
	ArrivalTime   string  `csv:"arrival_time"`
	DepartureTime string  `csv:"departure_time"`
	Headsign      string  `csv:"stop_headsign"`
	DistTraveled  *float64 `csv:"shape_dist_traveled"`
	PickupType    int     `csv:"pickup_type"`
	DropOffType   int     `csv:"drop_off_type"`
	Timepoint     int     `csv:"timepoint"`
}

func (r *Reader) StreamStopTimes(fn func(repository.StopTimeRow) error) error {
	rc, _, err := r.open("stop_times.txt")
	if err != nil {
		return err
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *stopTimeCSV) error {
		return fn(repository.StopTimeRow{
			TripID:        row.TripID,
			StopID:        row.StopID,
			Sequence:      row.Sequence,
			ArrivalTime:   row.ArrivalTime,
			DepartureTime: row.DepartureTime,
			Headsign:      row.Headsign,
			DistTraveled:  row.DistTraveled,
			PickupType:    row.PickupType,
			DropOffType:   row.DropOffType,
			Timepoint:     row.Timepoint == 1,
		})
	})
}

type shapeCSV struct {
	ID       string  `csv:"shape_id"`
	Sequence uint32  `csv:"shape_pt_sequence"`
	Lat      float64 `csv:"shape_pt_lat"`
	Lon      float64 `csv:"shape_pt_lon"`
}

func (r *Reader) StreamShapes(fn func(repository.ShapeRow) error) error {
	rc, ok, err := r.open("shapes.txt")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer rc.Close()

	return decodeCSV(rc, func(row *shapeCSV) error {
		return fn(repository.ShapeRow{ID: row.ID, Sequence: row.Sequence, Latitude: row.Lat, Longitude: row.Lon})
	})
}

func parseUint(s string) (uint32, error) {
	var v uint32
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("not a number: %q", s)
		}
		v = v*10 + uint32(c-'0')
	}
	return v, nil
}

var _ repository.FeedSource = (*Reader)(nil)
