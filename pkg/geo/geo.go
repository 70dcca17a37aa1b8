// Package geo implements great-circle distance on a spherical Earth.
package geo

import "math"

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000.0

type Point struct {
	Lat float64
	Lng float64
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	dPhi := toRadians(b.Lat - a.Lat)
	dLambda := toRadians(b.Lng - a.Lng)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

// WithinRadius reports whether target lies strictly closer than radius
// meters to ref. A point exactly on the boundary is outside.
func WithinRadius(ref, target Point, radius float64) bool {
	return Distance(ref, target) < radius
}
