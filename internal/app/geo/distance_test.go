package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKnownPairs(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"one degree of longitude at the equator", 0, 0, 0, 1, 111.19},
		{"one degree of latitude", 0, 0, 1, 0, 111.19},
		{"paris to london", 48.8566, 2.3522, 51.5074, -0.1278, 343.56},
		{"antipodes", 0, 0, 0, 180, 20015.09},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Distance(tc.lat1, tc.lon1, tc.lat2, tc.lon2), 0.5)
		})
	}
}

func TestDistanceSymmetricAndZero(t *testing.T) {
	points := [][2]float64{
		{0, 0}, {27.7172, 85.324}, {-33.8688, 151.2093}, {89.9, -179.9}, {-45, 45},
	}

	for _, a := range points {
		assert.Zero(t, Distance(a[0], a[1], a[0], a[1]))
		for _, b := range points {
			assert.InDelta(t, Distance(a[0], a[1], b[0], b[1]), Distance(b[0], b[1], a[0], a[1]), 1e-9)
		}
	}
}

func TestDistanceAntipodesAreFinite(t *testing.T) {
	halfCircumference := math.Pi * EarthRadiusKm

	for lat := -90.0; lat <= 90.0; lat += 0.01 {
		for _, lon := range []float64{-180, -97.5, 0, 33.3, 179.99} {
			d := Distance(lat, lon, -lat, lon+180)
			if !assert.False(t, math.IsNaN(d), "lat=%v lon=%v", lat, lon) {
				return
			}
			assert.InDelta(t, halfCircumference, d, 1e-3)
			assert.InDelta(t, d, Distance(-lat, lon+180, lat, lon), 1e-9)
		}
	}

	// The pair that used to come out as NaN.
	assert.InDelta(t, halfCircumference, Distance(-89.26, -180, 89.26, 0), 1e-3)
}

func TestNearby(t *testing.T) {
	// About 33 km apart.
	d, ok := Nearby(27.7172, 85.3240, 27.6710, 85.6520)
	assert.True(t, ok)
	assert.InDelta(t, 33, d, 2)

	// About 140 km apart.
	_, ok = Nearby(27.7172, 85.3240, 28.2096, 83.9856)
	assert.False(t, ok)

	d, ok = Nearby(1, 1, 1, 1)
	assert.True(t, ok)
	assert.Zero(t, d)
}
