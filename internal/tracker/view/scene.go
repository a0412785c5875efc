package view

import (
	"strings"

	"github.com/LeoCommon/tracker/internal/tracker/geo"
)

const (
	Title = "Vehicle Movement Tracker"

	RouteColor   = "blue"
	RouteWeight  = 4
	RouteOpacity = 0.7

	TileAttribution = "&copy; OpenStreetMap contributors"
)

// Scene describes one render pass of the map page
type Scene struct {
	Title    string    `json:"title"`
	Center   geo.Point `json:"center"`
	Zoom     int       `json:"zoom"`
	Tiles    Tiles     `json:"tiles"`
	Marker   Marker    `json:"marker"`
	Controls Controls  `json:"controls"`

	// Route is nil while the path is hidden or unknown
	Route *Polyline `json:"route"`
}

type Tiles struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

type Icon struct {
	ClassName string `json:"class_name"`
	HTML      string `json:"html"`
	Size      [2]int `json:"size"`
	Anchor    [2]int `json:"anchor"`
}

type Marker struct {
	Position geo.Point `json:"position"`
	Icon     Icon      `json:"icon"`
	Popup    Details   `json:"popup"`
}

type DateOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Controls struct {
	PathVisible  bool         `json:"path_visible"`
	SelectedDate string       `json:"selected_date"`
	Dates        []DateOption `json:"dates"`
}

type Polyline struct {
	Positions [][2]float64 `json:"positions"`
	Color     string       `json:"color"`
	Weight    int          `json:"weight"`
	Opacity   float64      `json:"opacity"`
	LengthKM  float64      `json:"length_km"`
}

var carIcon = Icon{
	ClassName: "custom-icon",
	HTML:      `<div class="fa-icon" style="font-size: 24px; color: blue;"><i class="fas fa-car"></i></div>`,
	Size:      [2]int{30, 30},
	Anchor:    [2]int{15, 30},
}

// Scene renders the current state
func (v *View) Scene() Scene {
	s := v.Snapshot()

	scene := Scene{
		Title:  Title,
		Center: s.Position,
		Zoom:   v.opts.Zoom,
		Tiles: Tiles{
			URL:         v.opts.TileURL,
			Attribution: TileAttribution,
		},
		Marker: Marker{
			Position: s.Position,
			Icon:     carIcon,
			Popup:    s.Details,
		},
		Controls: Controls{
			PathVisible:  s.PathVisible,
			SelectedDate: s.SelectedDate,
			Dates:        make([]DateOption, 0, len(v.opts.DateOptions)),
		},
	}

	for _, d := range v.opts.DateOptions {
		scene.Controls.Dates = append(scene.Controls.Dates, DateOption{Value: d, Label: label(d)})
	}

	if s.PathVisible && len(s.Route) > 0 {
		positions := make([][2]float64, 0, len(s.Route))
		for _, p := range s.Route {
			positions = append(positions, [2]float64{p.Lat, p.Lon})
		}

		scene.Route = &Polyline{
			Positions: positions,
			Color:     RouteColor,
			Weight:    RouteWeight,
			Opacity:   RouteOpacity,
			LengthKM:  s.Route.LengthKM(),
		}
	}

	return scene
}

// label capitalizes the first letter, "today" becomes "Today"
func label(date string) string {
	if date == "" {
		return date
	}
	return strings.ToUpper(date[:1]) + date[1:]
}
