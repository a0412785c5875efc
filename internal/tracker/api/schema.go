package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/LeoCommon/tracker/internal/tracker/geo"
)

// RoutePoint is one entry of the day route, unknown fields are ignored
type RoutePoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// VehicleLocation is the live position reported by the backend
type VehicleLocation struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
	Timestamp Timestamp  `json:"timestamp"`
}

// Valid mirrors what the map can draw: both coordinates present, non-zero and in range
func (l VehicleLocation) Valid() bool {
	lat, latOK := l.Latitude.Value()
	lon, lonOK := l.Longitude.Value()
	if !latOK || !lonOK {
		return false
	}

	if lat == 0 || lon == 0 {
		return false
	}

	return l.Point().Valid()
}

// Point returns the coordinate, check Valid first
func (l VehicleLocation) Point() geo.Point {
	p := geo.Point{Lat: math.NaN(), Lon: math.NaN()}
	if lat, ok := l.Latitude.Value(); ok {
		p.Lat = lat
	}
	if lon, ok := l.Longitude.Value(); ok {
		p.Lon = lon
	}
	return p
}

// Coordinate is a degree value sent either as a JSON number or as a numeric string.
// null, an empty string or anything unparseable leaves it unset.
type Coordinate struct {
	value float64
	set   bool
}

func NewCoordinate(v float64) Coordinate {
	return Coordinate{value: v, set: true}
}

// Value returns the degrees and whether the backend sent a usable number
func (c Coordinate) Value() (float64, bool) {
	return c.value, c.set
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	*c = Coordinate{}

	raw, ok := unquote(data)
	if !ok {
		return nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	*c = NewCoordinate(v)
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

// maxEpochMillis is the largest instant a browser Date can hold
const maxEpochMillis = 8.64e15

// minEpochDigits keeps short numeric strings like "2024" out of the epoch branch
const minEpochDigits = 10

// Date-only forms name a UTC day, like a browser reads them
var zonedLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02", "2006-01", "2006"}

var wallClockLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp accepts RFC 3339 strings, zone-less date-times and epoch milliseconds.
// Zone-less values carry no offset, they are wall clock readings that only get
// an instant once anchored to a location with At.
// Anything else decodes to the zero time instead of failing the whole payload.
type Timestamp struct {
	time.Time

	// WallClock is set when the value had no zone, Time then holds the reading in UTC
	WallClock bool
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	// Bare JSON numbers are always epoch milliseconds
	if data[0] != '"' {
		if ms, err := strconv.ParseFloat(string(data), 64); err == nil {
			t.Time = fromEpochMillis(ms)
		}
		return nil
	}

	raw, ok := unquote(data)
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)

	if isEpochDigits(raw) {
		if ms, err := strconv.ParseFloat(raw, 64); err == nil {
			t.Time = fromEpochMillis(ms)
		}
		return nil
	}

	for _, layout := range zonedLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}

	for _, layout := range wallClockLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			t.WallClock = true
			return nil
		}
	}

	return nil
}

// At returns the instant, anchoring a zone-less reading to loc
func (t Timestamp) At(loc *time.Location) time.Time {
	if t.IsZero() || !t.WallClock || loc == nil {
		return t.Time
	}

	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	if t.WallClock {
		return json.Marshal(t.Time.Format("2006-01-02T15:04:05.999999999"))
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func fromEpochMillis(ms float64) time.Time {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

func isEpochDigits(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if len(s) < minEpochDigits {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// unquote returns the text of a JSON string or the raw token of anything else.
// null and objects or arrays report false.
func unquote(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	}

	return string(data), true
}

func toRoute(points []RoutePoint) geo.Route {
	route := make(geo.Route, 0, len(points))
	for _, p := range points {
		route = append(route, geo.Point{Lat: p.Latitude, Lon: p.Longitude})
	}
	return route
}
