package raptor

import (
	"github.com/pkg/errors"

	"github.com/antigravity/raptor-engine/internal/search"
)

var (
	// ErrInvalidArea is returned when a query names an area id the
	// repository has no record of.
	ErrInvalidArea = search.ErrInvalidArea
	// ErrInvalidStop is returned when a query names a stop id the
	// repository has no record of.
	ErrInvalidStop = search.ErrInvalidStop
	// ErrNoRouteFound is returned when every round has run without a
	// single update ever reaching the destination.
	ErrNoRouteFound = errors.New("could not find a route")
	// ErrFailedToBuildRoute is returned when a route was found (a best
	// arrival at the destination exists) but backtracking it failed,
	// which indicates a parent-matrix bookkeeping bug rather than a
	// query the network genuinely can't serve.
	ErrFailedToBuildRoute = errors.New("a route was found but failed to build it")
)
