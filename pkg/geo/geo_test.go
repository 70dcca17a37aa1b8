package geo

import (
	"math"
	"testing"
)

// offset moves meters north of p along its meridian.
func offset(p Point, meters float64) Point {
	return Point{Lat: p.Lat + meters/EarthRadius*180/math.Pi, Lng: p.Lng}
}

var (
	sanFrancisco = Point{Lat: 37.7749, Lng: -122.4194}
	newYork      = Point{Lat: 40.7128, Lng: -74.0060}
	london       = Point{Lat: 51.5074, Lng: -0.1278}
)

func TestDistance_KnownCities(t *testing.T) {
	d := Distance(sanFrancisco, newYork)
	if math.Abs(d-4129000) > 5000 {
		t.Errorf("SF-NY distance = %.0f, want 4129000 ± 5000", d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()
	pairs := [][2]Point{
		{sanFrancisco, newYork},
		{newYork, london},
		{london, sanFrancisco},
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: 35.6762, Lng: 139.6503}},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if math.Abs(ab-ba) > 1e-6 {
			t.Errorf("Distance(%v, %v) = %f, reversed = %f", p[0], p[1], ab, ba)
		}
	}
}

func TestDistance_Identical(t *testing.T) {
	for _, p := range []Point{sanFrancisco, newYork, {}, {Lat: 90, Lng: 0}} {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %f, want 0", p, p, d)
		}
	}
}

func TestDistance_AlongMeridian(t *testing.T) {
	for _, m := range []float64{1, 500, 999, 1000, 10000} {
		got := Distance(sanFrancisco, offset(sanFrancisco, m))
		if math.Abs(got-m) > 1e-6*m+1e-6 {
			t.Errorf("Distance to offset %v m = %f", m, got)
		}
	}
}

func TestWithinRadius(t *testing.T) {
	tests := []struct {
		name   string
		target Point
		radius float64
		want   bool
	}{
		{name: "same_point", target: sanFrancisco, radius: 1, want: true},
		{name: "zero_radius", target: sanFrancisco, radius: 0, want: false},
		{name: "inside", target: offset(sanFrancisco, 500), radius: 1000, want: true},
		{name: "just_inside", target: offset(sanFrancisco, 999), radius: 1000, want: true},
		{name: "just_outside", target: offset(sanFrancisco, 1001), radius: 1000, want: false},
		{name: "other_coast", target: newYork, radius: 10000, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinRadius(sanFrancisco, tt.target, tt.radius); got != tt.want {
				t.Errorf("WithinRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinRadius_BoundaryExcluded(t *testing.T) {
	target := offset(sanFrancisco, 1000)
	d := Distance(sanFrancisco, target)
	if WithinRadius(sanFrancisco, target, d) {
		t.Errorf("point at exactly %f m must be outside radius %f", d, d)
	}
}
