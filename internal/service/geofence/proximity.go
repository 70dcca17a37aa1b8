package geofence

import (
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/geo"
)

const (
	// NearbyRadius bounds user content shown around the tracked location.
	NearbyRadius = 1000.0
	// LandmarkRadius bounds which landmarks become visible.
	LandmarkRadius = 10000.0
)

// Landmarks is the fixed set of well-known markers.
var Landmarks = []core.Landmark{
	{Latitude: 37.7749, Longitude: -122.4194, Label: "San Francisco Marker"},
	{Latitude: 40.7128, Longitude: -74.0060, Label: "New York Marker"},
	{Latitude: 51.5074, Longitude: -0.1278, Label: "London Marker"},
}

func point(c core.Coordinates) geo.Point {
	return geo.Point{Lat: c.Latitude, Lng: c.Longitude}
}

// FilterNearby returns the records strictly within radius meters of ref,
// preserving order. It scans every record.
func FilterNearby(ref core.Coordinates, records []core.ContentRecord, radius float64) []core.ContentRecord {
	out := make([]core.ContentRecord, 0)
	for _, rec := range records {
		if geo.WithinRadius(point(ref), point(rec.Location), radius) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterLandmarks returns the landmarks strictly within radius meters of ref.
func FilterLandmarks(ref core.Coordinates, landmarks []core.Landmark, radius float64) []core.Landmark {
	out := make([]core.Landmark, 0)
	for _, l := range landmarks {
		if geo.WithinRadius(point(ref), point(l.Coordinates()), radius) {
			out = append(out, l)
		}
	}
	return out
}

// DistanceTo returns meters from ref to c.
func DistanceTo(ref, c core.Coordinates) float64 {
	return geo.Distance(point(ref), point(c))
}
