package repository

import "github.com/pkg/errors"

// Build errors (§7). A build error aborts the build and leaves no
// partially-loaded Repository — Build returns (nil, err) on any
// of these rather than a half-filled *Repository.
var (
	ErrIo          = errors.New("io error reading feed")
	ErrZipFormat   = errors.New("malformed zip archive")
	ErrCsvParse    = errors.New("malformed csv")
)

// MissingHeaderError reports a GTFS file whose header is missing a
// column the builder requires.
type MissingHeaderError struct {
	File   string
	Header string
}

func (e *MissingHeaderError) Error() string {
	return "missing header " + e.Header + " in " + e.File
}

// UnknownReferenceError reports a row that references an id from
// another table that was never defined (§4.2 failure modes).
type UnknownReferenceError struct {
	Kind string // "stop", "trip", "area", "route", "agency", "shape"
	ID   string
}

func (e *UnknownReferenceError) Error() string {
	return "unknown " + e.Kind + " reference: " + e.ID
}

// ParseTimeError reports a malformed HH:MM:SS field.
type ParseTimeError struct {
	Value string
	Cause error
}

func (e *ParseTimeError) Error() string {
	return "parsing time " + e.Value + ": " + e.Cause.Error()
}

func (e *ParseTimeError) Unwrap() error { return e.Cause }
