package quantities

// Distance is a span of meters, stored as a 64-bit float since geodesic
// computations need the precision.
type Distance float64

const (
	// AverageStopDistance is the assumed spacing between adjacent stops
	// in an urban network; it doubles as the grid cell side (§4.4) and
	// the default walk-transfer search radius.
	AverageStopDistance = Distance(500.0)

	longitudeDistance = Distance(111_320.0) // meters per degree of longitude
	latitudeDistance  = Distance(110_540.0) // meters per degree of latitude

	walkSpeedMetersPerSecond = 1.5
)

func FromMeters(m float64) Distance     { return Distance(m) }
func FromKilometers(km float64) Distance { return Distance(km * 1000.0) }

func (d Distance) Meters() float64     { return float64(d) }
func (d Distance) Kilometers() float64 { return float64(d) / 1000.0 }

func (d Distance) Add(other Distance) Distance { return d + other }
func (d Distance) Sub(other Distance) Distance { return d - other }
