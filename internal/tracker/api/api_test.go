package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/LeoCommon/tracker/internal/tracker/api/helpers"
	"github.com/LeoCommon/tracker/internal/tracker/config"
	"github.com/LeoCommon/tracker/internal/tracker/geo"
	"github.com/LeoCommon/tracker/pkg/log"
	"github.com/LeoCommon/tracker/pkg/test"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

const (
	backendURL  = "http://backend.test/api"
	routeURL    = backendURL + "/location/today"
	liveURL     = backendURL + "/vehicle-location"
	testConfig  = "[api]\nurl = \"" + backendURL + "/\"\ntimeout = \"1s\"\n"
	basicConfig = testConfig + "[api.auth.basic]\nusername = \"viewer\"\npassword = \"secret\"\n"
)

func setupAPI(t *testing.T, content string) *RestAPI {
	t.Helper()
	log.Init(true)

	conf := config.NewManager()
	assert.NoError(t, conf.Load(test.WriteFile(t, config.ConfigFile, content), false))

	a, err := NewRestAPI(conf, false)
	assert.NoError(t, err)

	httpmock.ActivateNonDefault(a.GetClient().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	return a
}

func TestBaseURL(t *testing.T) {
	a := setupAPI(t, testConfig)
	assert.Equal(t, backendURL, a.GetBaseURL())
}

func TestGetRoute(t *testing.T) {
	a := setupAPI(t, testConfig)

	httpmock.RegisterResponder(http.MethodGet, routeURL,
		httpmock.NewStringResponder(200, `[{"latitude": 17.1, "longitude": 78.1, "speed": 12}, {"latitude": 17.2, "longitude": 78.2}]`))

	route, err := a.GetRoute(context.Background(), config.DateToday)
	assert.NoError(t, err)
	assert.Equal(t, geo.Route{{Lat: 17.1, Lon: 78.1}, {Lat: 17.2, Lon: 78.2}}, route)
}

func TestGetRouteEscapesDate(t *testing.T) {
	a := setupAPI(t, testConfig)

	httpmock.RegisterResponder(http.MethodGet, backendURL+"/location/2024-05-01",
		httpmock.NewStringResponder(200, `[{"latitude": 1, "longitude": 2}]`))

	route, err := a.GetRoute(context.Background(), "2024-05-01")
	assert.NoError(t, err)
	assert.Len(t, route, 1)
}

func TestGetRouteFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "empty list", status: 200, body: `[]`, want: ErrEmptyRoute},
		{name: "null", status: 200, body: `null`, want: ErrEmptyRoute},
		{name: "object", status: 200, body: `{"error": "no data"}`, want: ErrMalformedRoute},
		{name: "garbage", status: 200, body: `<html>`, want: ErrMalformedRoute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupAPI(t, testConfig)
			httpmock.RegisterResponder(http.MethodGet, routeURL, httpmock.NewStringResponder(tt.status, tt.body))

			route, err := a.GetRoute(context.Background(), config.DateToday)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, route)
		})
	}
}

func TestGetRouteServerError(t *testing.T) {
	a := setupAPI(t, testConfig)
	httpmock.RegisterResponder(http.MethodGet, routeURL, httpmock.NewStringResponder(500, "boom"))

	_, err := a.GetRoute(context.Background(), config.DateToday)

	var respErr *helpers.ResponseError
	if assert.True(t, errors.As(err, &respErr)) {
		assert.Equal(t, 500, respErr.Code)
		assert.Equal(t, []byte("boom"), respErr.Body)
	}

	// No retries, exactly one request
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestGetRouteTransportError(t *testing.T) {
	a := setupAPI(t, testConfig)
	httpmock.RegisterResponder(http.MethodGet, routeURL, httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := a.GetRoute(context.Background(), config.DateToday)
	assert.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestGetRouteCancelled(t *testing.T) {
	a := setupAPI(t, testConfig)
	httpmock.RegisterResponder(http.MethodGet, routeURL,
		httpmock.NewStringResponder(200, `[{"latitude": 1, "longitude": 2}]`).Delay(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.GetRoute(ctx, config.DateToday)
	assert.Error(t, err)
}

func TestGetVehicleLocation(t *testing.T) {
	a := setupAPI(t, testConfig)
	httpmock.RegisterResponder(http.MethodGet, liveURL,
		httpmock.NewStringResponder(200, `{"latitude": 17.4, "longitude": 78.5, "timestamp": "2024-05-01T10:15:30Z"}`))

	loc, err := a.GetVehicleLocation(context.Background())
	assert.NoError(t, err)
	assert.True(t, loc.Valid())
	assert.Equal(t, geo.Point{Lat: 17.4, Lon: 78.5}, loc.Point())
	assert.Equal(t, time.Date(2024, 5, 1, 10, 15, 30, 0, time.UTC), loc.Timestamp.Time)
}

func TestGetVehicleLocationStringCoordinates(t *testing.T) {
	a := setupAPI(t, testConfig)
	httpmock.RegisterResponder(http.MethodGet, liveURL,
		httpmock.NewStringResponder(200, `{"latitude": "17.4", "longitude": "78.5", "timestamp": "2024-05-01T10:15:30"}`))

	loc, err := a.GetVehicleLocation(context.Background())
	assert.NoError(t, err)
	assert.True(t, loc.Valid())
	assert.Equal(t, geo.Point{Lat: 17.4, Lon: 78.5}, loc.Point())
	assert.True(t, loc.Timestamp.WallClock)
}

func TestGetVehicleLocationIncomplete(t *testing.T) {
	a := setupAPI(t, testConfig)
	httpmock.RegisterResponder(http.MethodGet, liveURL, httpmock.NewStringResponder(200, `{"latitude": 17.4}`))

	loc, err := a.GetVehicleLocation(context.Background())
	assert.NoError(t, err)
	assert.False(t, loc.Valid())
}

func TestGetVehicleLocationMalformed(t *testing.T) {
	a := setupAPI(t, testConfig)
	httpmock.RegisterResponder(http.MethodGet, liveURL, httpmock.NewStringResponder(200, `[1, 2]`))

	_, err := a.GetVehicleLocation(context.Background())
	assert.ErrorIs(t, err, ErrMalformedLocation)
}

func TestGetVehicleLocationNotFound(t *testing.T) {
	a := setupAPI(t, testConfig)
	httpmock.RegisterResponder(http.MethodGet, liveURL, httpmock.NewStringResponder(404, `{"detail": "no vehicle"}`))

	_, err := a.GetVehicleLocation(context.Background())

	var respErr *helpers.ResponseError
	assert.True(t, errors.As(err, &respErr))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestBasicAuth(t *testing.T) {
	a := setupAPI(t, basicConfig)

	httpmock.RegisterResponder(http.MethodGet, liveURL, func(req *http.Request) (*http.Response, error) {
		user, pass, ok := req.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "viewer", user)
		assert.Equal(t, "secret", pass)
		return httpmock.NewStringResponse(200, `{"latitude": 1, "longitude": 2}`), nil
	})

	_, err := a.GetVehicleLocation(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestBearerRequiresValidRefreshToken(t *testing.T) {
	log.Init(true)

	conf := config.NewManager()
	assert.NoError(t, conf.Load(test.WriteFile(t, config.ConfigFile, testConfig+"[api.auth.bearer]\nrefresh_token = \"not-a-jwt\"\n"), false))

	_, err := NewRestAPI(conf, false)
	assert.Error(t, err)
}
