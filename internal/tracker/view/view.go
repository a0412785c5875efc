package view

import (
	"slices"
	"sync"
	"time"

	"github.com/LeoCommon/tracker/internal/tracker/config"
	"github.com/LeoCommon/tracker/internal/tracker/geo"
	"github.com/paulmach/orb/geojson"
)

// TimeLayout is how the popup shows the time of the last fix
const TimeLayout = "15:04:05"

// Details are the popup strings of the marker
type Details struct {
	Speed       string `json:"speed"`
	Temperature string `json:"temperature"`
	Time        string `json:"time"`
	Distance    string `json:"distance"`
}

// State is everything the map shows
type State struct {
	Position     geo.Point `json:"position"`
	Route        geo.Route `json:"route"`
	Details      Details   `json:"details"`
	PathVisible  bool      `json:"path_visible"`
	SelectedDate string    `json:"selected_date"`
}

func (s State) clone() State {
	s.Route = s.Route.Clone()
	return s
}

type Options struct {
	Initial     geo.Point
	Details     Details
	PathVisible bool
	Date        string
	DateOptions []string
	Location    *time.Location

	Zoom    int
	TileURL string

	// Now is used for the start-up time, defaults to time.Now
	Now func() time.Time
}

// OptionsFromConfig maps the tracker and web sections onto view options
func OptionsFromConfig(tc config.TrackerConfig, wc config.WebConfig) Options {
	return Options{
		Initial: geo.Point{Lat: tc.InitialLatitude, Lon: tc.InitialLongitude},
		Details: Details{
			Speed:       tc.Details.Speed,
			Temperature: tc.Details.Temperature,
			Distance:    tc.Details.Distance,
		},
		PathVisible: tc.IsPathVisible(),
		Date:        tc.DefaultDate,
		DateOptions: slices.Clone(tc.DateOptions),
		Location:    tc.Location(),
		Zoom:        wc.Zoom,
		TileURL:     wc.TileURL,
	}
}

// View holds the process wide map state, every update replaces values under one lock
type View struct {
	mu    sync.RWMutex
	state State
	opts  Options
}

func New(opts Options) *View {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	details := opts.Details
	details.Time = opts.Now().In(opts.Location).Format(TimeLayout)

	return &View{
		opts: opts,
		state: State{
			Position:     opts.Initial,
			Details:      details,
			PathVisible:  opts.PathVisible,
			SelectedDate: opts.Date,
		},
	}
}

// ApplyRoute stores the day route and moves the marker to its first point.
// An empty route leaves the state untouched and returns false.
func (v *View) ApplyRoute(route geo.Route) bool {
	first, ok := route.First()
	if !ok {
		return false
	}

	route = route.Clone()

	v.mu.Lock()
	defer v.mu.Unlock()

	v.state.Route = route
	v.state.Position = first
	return true
}

// ApplyLiveLocation moves the marker, a zero timestamp keeps the shown time
func (v *View) ApplyLiveLocation(p geo.Point, ts time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state.Position = p
	if !ts.IsZero() {
		v.state.Details.Time = ts.In(v.opts.Location).Format(TimeLayout)
	}
}

// Location is the zone the popup time is shown in
func (v *View) Location() *time.Location {
	return v.opts.Location
}

func (v *View) ShowPath() {
	v.setPathVisible(true)
}

func (v *View) HidePath() {
	v.setPathVisible(false)
}

func (v *View) setPathVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.PathVisible = visible
}

// SelectDate switches the selected day, returns false if nothing changed
func (v *View) SelectDate(date string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state.SelectedDate == date {
		return false
	}

	v.state.SelectedDate = date
	return true
}

func (v *View) SelectedDate() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.SelectedDate
}

// HasDate reports whether the date is one of the selectable options
func (v *View) HasDate(date string) bool {
	return slices.Contains(v.opts.DateOptions, date)
}

// Snapshot returns a deep copy of the current state
func (v *View) Snapshot() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.clone()
}

// GeoJSON exports the stored route and the marker position
func (v *View) GeoJSON() *geojson.FeatureCollection {
	s := v.Snapshot()
	return geo.FeatureCollection(s.Route, s.Position)
}
