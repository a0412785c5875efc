package api

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestampFormats(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 15, 30, 0, time.UTC)

	tests := []struct {
		name      string
		raw       string
		want      time.Time
		wallClock bool
	}{
		{name: "rfc3339", raw: `"2024-05-01T10:15:30Z"`, want: want},
		{name: "rfc3339 offset", raw: `"2024-05-01T15:45:30+05:30"`, want: want},
		{name: "epoch millis", raw: `1714558530000`, want: want},
		{name: "quoted epoch millis", raw: `"1714558530000"`, want: want},
		{name: "zone-less", raw: `"2024-05-01T10:15:30"`, want: want, wallClock: true},
		{name: "zone-less with space", raw: `"2024-05-01 10:15:30"`, want: want, wallClock: true},
		{name: "zone-less fraction", raw: `"2024-05-01T10:15:30.250"`, want: want.Add(250 * time.Millisecond), wallClock: true},
		{name: "year only", raw: `"2024"`, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "date only", raw: `"2024-05-01"`, want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{name: "short number string", raw: `"12345"`},
		{name: "beyond date range", raw: `1e20`},
		{name: "quoted beyond date range", raw: `"-100000000000000000000"`},
		{name: "null", raw: `null`},
		{name: "garbage", raw: `"yesterday at noon"`},
		{name: "object", raw: `{"at": 1}`},
		{name: "bool", raw: `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			assert.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
			assert.Equal(t, tt.wallClock, ts.WallClock)
		})
	}
}

func TestTimestampAt(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	var wall Timestamp
	assert.NoError(t, json.Unmarshal([]byte(`"2024-05-01T10:15:30"`), &wall))
	got := wall.At(ist)
	assert.Equal(t, "10:15:30", got.In(ist).Format("15:04:05"))
	assert.True(t, time.Date(2024, 5, 1, 4, 45, 30, 0, time.UTC).Equal(got))

	var zoned Timestamp
	assert.NoError(t, json.Unmarshal([]byte(`"2024-05-01T10:15:30Z"`), &zoned))
	assert.Equal(t, "15:45:30", zoned.At(ist).In(ist).Format("15:04:05"))

	assert.True(t, Timestamp{}.At(ist).IsZero())
}

func TestTimestampMarshalKeepsWallClock(t *testing.T) {
	var ts Timestamp
	assert.NoError(t, json.Unmarshal([]byte(`"2024-05-01T10:15:30"`), &ts))

	out, err := json.Marshal(ts)
	assert.NoError(t, err)
	assert.JSONEq(t, `"2024-05-01T10:15:30"`, string(out))
}

func TestVehicleLocationValid(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{name: "complete", raw: `{"latitude": 17.4, "longitude": 78.5}`, valid: true},
		{name: "missing latitude", raw: `{"longitude": 78.5}`},
		{name: "missing longitude", raw: `{"latitude": 17.4}`},
		{name: "zero latitude", raw: `{"latitude": 0, "longitude": 78.5}`},
		{name: "null longitude", raw: `{"latitude": 17.4, "longitude": null}`},
		{name: "out of range", raw: `{"latitude": 91, "longitude": 78.5}`},
		{name: "bad timestamp keeps location", raw: `{"latitude": 17.4, "longitude": 78.5, "timestamp": false}`, valid: true},
		{name: "string coordinates", raw: `{"latitude": "17.4", "longitude": " 78.5 "}`, valid: true},
		{name: "empty string coordinate", raw: `{"latitude": "", "longitude": 78.5}`},
		{name: "non numeric string coordinate", raw: `{"latitude": "north", "longitude": 78.5}`},
		{name: "zero string coordinate", raw: `{"latitude": "0", "longitude": 78.5}`},
		{name: "object coordinate", raw: `{"latitude": {"deg": 17}, "longitude": 78.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loc VehicleLocation
			assert.NoError(t, json.Unmarshal([]byte(tt.raw), &loc))
			assert.Equal(t, tt.valid, loc.Valid())
		})
	}
}

func TestVehicleLocationStringCoordinates(t *testing.T) {
	var loc VehicleLocation
	assert.NoError(t, json.Unmarshal([]byte(`{"latitude": "17.385", "longitude": "78.4867"}`), &loc))

	p := loc.Point()
	assert.InDelta(t, 17.385, p.Lat, 1e-9)
	assert.InDelta(t, 78.4867, p.Lon, 1e-9)
}

func TestCoordinateMarshal(t *testing.T) {
	out, err := json.Marshal(VehicleLocation{Latitude: NewCoordinate(17.4)})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"latitude": 17.4, "longitude": null, "timestamp": null}`, string(out))
}

func TestVehicleLocationPointWithoutCoordinates(t *testing.T) {
	p := VehicleLocation{}.Point()
	assert.True(t, math.IsNaN(p.Lat))
	assert.False(t, p.Valid())
}
