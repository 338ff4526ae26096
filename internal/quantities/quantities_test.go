package quantities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/raptor-engine/internal/quantities"
)

func TestParseTimeRoundTrip(t *testing.T) {
	cases := []string{"00:00:00", "00:00:30", "00:30:00", "12:00:00", "12:30:30", "24:10:00"}
	for _, c := range cases {
		tm, err := quantities.ParseTime(c)
		require.NoError(t, err, c)
		assert.Equal(t, c, tm.String(), c)
	}
}

func TestParseTimeInvalid(t *testing.T) {
	_, err := quantities.ParseTime("00:00")
	assert.Error(t, err)

	_, err = quantities.ParseTime("00:00:0a")
	assert.Error(t, err)
}

func TestNetworkDistanceIsCircuityScaledEuclidean(t *testing.T) {
	a := quantities.Coordinate{Latitude: 48.858, Longitude: 2.351}
	b := quantities.Coordinate{Latitude: 48.86, Longitude: 2.353}

	euclidean := a.EuclideanDistance(b)
	network := a.NetworkDistance(b)

	assert.InDelta(t, euclidean.Meters()*1.3, network.Meters(), 1e-6)
	// symmetric
	assert.InDelta(t, network.Meters(), b.NetworkDistance(a).Meters(), 1e-6)
}

func TestToGridIsARetraction(t *testing.T) {
	a := quantities.Coordinate{Latitude: 48.8580, Longitude: 2.3510}
	b := quantities.Coordinate{Latitude: 48.8581, Longitude: 2.3511}

	ax, ay := a.ToGrid()
	bx, by := b.ToGrid()
	assert.Equal(t, ax, bx)
	assert.Equal(t, ay, by)
}

func TestTimeToWalk(t *testing.T) {
	// 111m south of the origin, scaled by circuity 1.3 -> ceil(111*1.3/1.5)
	d := quantities.FromMeters(111)
	walk := quantities.TimeToWalk(quantities.FromMeters(d.Meters() * 1.3))
	assert.Equal(t, uint32(97), walk.Seconds())
}

func TestTimeMarshalsAsClockString(t *testing.T) {
	tm, err := quantities.ParseTime("08:30:15")
	require.NoError(t, err)

	out, err := json.Marshal(tm)
	require.NoError(t, err)
	assert.Equal(t, `"08:30:15"`, string(out))
}

func TestCentroid(t *testing.T) {
	coords := []quantities.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 2, Longitude: 4},
	}
	c := quantities.Centroid(coords)
	assert.Equal(t, 1.0, c.Latitude)
	assert.Equal(t, 2.0, c.Longitude)
}
