package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// Point is a WGS84 coordinate
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%f, %f)", p.Lat, p.Lon)
}

// Valid reports whether the point is a usable coordinate
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}

	return math.Abs(p.Lat) <= 90 && math.Abs(p.Lon) <= 180
}

// Orb converts to the orb representation, which is lon/lat ordered
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Route is an ordered sequence of points, the order is chronological
type Route []Point

// Clone returns an independent copy
func (r Route) Clone() Route {
	if r == nil {
		return nil
	}

	out := make(Route, len(r))
	copy(out, r)
	return out
}

// First returns the oldest point of the route
func (r Route) First() (Point, bool) {
	if len(r) == 0 {
		return Point{}, false
	}

	return r[0], true
}

func (r Route) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(r))
	for _, p := range r {
		ls = append(ls, p.Orb())
	}
	return ls
}

// LengthKM returns the geodesic length of the route in kilometers
func (r Route) LengthKM() float64 {
	if len(r) < 2 {
		return 0
	}

	return orbgeo.LengthHaversine(r.LineString()) / 1000.0
}

// FeatureCollection builds the GeoJSON export of a route and the current position.
// The route feature is left out if there is nothing to draw.
func FeatureCollection(route Route, position Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if len(route) > 0 {
		line := geojson.NewFeature(route.LineString())
		line.Properties["kind"] = "route"
		line.Properties["points"] = len(route)
		line.Properties["length_km"] = route.LengthKM()
		fc.Append(line)
	}

	marker := geojson.NewFeature(position.Orb())
	marker.Properties["kind"] = "vehicle"
	fc.Append(marker)

	return fc
}
