/*
Package geo estimates great-circle distances between coordinates.
*/
package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0

	// NearbyRadiusKm is how far from a volunteer unassigned work is still considered nearby.
	NearbyRadiusKm = 50.0
)

// Distance returns the haversine distance in kilometers between two points given in degrees.
// Inputs are not validated.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// Rounding can push a just outside [0, 1] near the antipodes.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Nearby returns the distance between the two points and whether it is within
// NearbyRadiusKm.
func Nearby(lat1, lon1, lat2, lon2 float64) (float64, bool) {
	d := Distance(lat1, lon1, lat2, lon2)
	return d, d <= NearbyRadiusKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
