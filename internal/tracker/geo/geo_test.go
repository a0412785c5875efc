package geo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: 17.385044, Lon: 78.486671}.Valid())
	assert.True(t, Point{Lat: -90, Lon: 180}.Valid())
	assert.False(t, Point{Lat: 91, Lon: 0}.Valid())
	assert.False(t, Point{Lat: 0, Lon: -181}.Valid())
	assert.False(t, Point{Lat: math.NaN(), Lon: 1}.Valid())
}

func TestRouteClone(t *testing.T) {
	r := Route{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}}
	c := r.Clone()
	c[0].Lat = 42

	assert.Equal(t, 1.0, r[0].Lat)
	assert.Nil(t, Route(nil).Clone())
}

func TestRouteLength(t *testing.T) {
	assert.Zero(t, Route{}.LengthKM())
	assert.Zero(t, Route{{Lat: 1, Lon: 1}}.LengthKM())

	// one degree of latitude is roughly 111 km
	r := Route{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}}
	assert.InDelta(t, 111.2, r.LengthKM(), 0.5)
}

func TestFeatureCollection(t *testing.T) {
	route := Route{{Lat: 17.38, Lon: 78.48}, {Lat: 17.39, Lon: 78.49}}
	fc := FeatureCollection(route, Point{Lat: 17.39, Lon: 78.49})

	assert.Len(t, fc.Features, 2)
	assert.Equal(t, "route", fc.Features[0].Properties["kind"])
	assert.Equal(t, "LineString", fc.Features[0].Geometry.GeoJSONType())
	assert.Equal(t, "vehicle", fc.Features[1].Properties["kind"])

	raw, err := json.Marshal(fc)
	assert.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	// GeoJSON is lon/lat ordered
	assert.JSONEq(t, "[78.49,17.39]", string(decoded.Features[1].Geometry.Coordinates))
}

func TestFeatureCollectionEmptyRoute(t *testing.T) {
	fc := FeatureCollection(nil, Point{Lat: 1, Lon: 2})
	assert.Len(t, fc.Features, 1)
	assert.Equal(t, "vehicle", fc.Features[0].Properties["kind"])
}
