// Package quantities holds the small arithmetic types shared by the
// repository and solver: clock time, durations, distances and
// coordinates. None of it depends on any other package in this module.
package quantities

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Infinity is the sentinel "unreached" label used throughout the solver.
const Infinity = Time(math.MaxUint32)

// Time is seconds since midnight on the service day. GTFS allows hours
// to exceed 23 for trips that run past midnight, so this is a plain
// offset, not a wall-clock time.
type Time uint32

// ParseTime parses a GTFS "HH:MM:SS" string. Hours may exceed 23.
func ParseTime(s string) (Time, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, errors.Errorf("invalid time %q: expected HH:MM:SS", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, errors.Errorf("invalid minute in %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, errors.Errorf("invalid second in %q", s)
	}
	if h < 0 {
		return 0, errors.Errorf("invalid hour in %q", s)
	}
	return Time(h*3600 + m*60 + sec), nil
}

// String renders HH:MM:SS, with hours possibly >= 24.
func (t Time) String() string {
	h := uint32(t) / 3600
	m := (uint32(t) % 3600) / 60
	s := uint32(t) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Add returns t advanced by d.
func (t Time) Add(d Duration) Time {
	return Time(uint32(t) + uint32(d))
}

// Sub returns the duration elapsed between other and t (t - other).
func (t Time) Sub(other Time) Duration {
	return Duration(uint32(t) - uint32(other))
}

// MarshalJSON renders HH:MM:SS rather than a raw seconds-since-midnight
// integer, so an Itinerary serializes as a human-readable schedule.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t Time) Before(other Time) bool { return t < other }
func (t Time) After(other Time) bool  { return t > other }

// Midnight crossing helper: if an arrival precedes its departure within
// the same trip, the arrival is assumed to be on the following service
// day and one day is added.
func (t Time) AddDayIfBefore(departure Time) Time {
	if t < departure {
		return t.Add(OneDay)
	}
	return t
}
