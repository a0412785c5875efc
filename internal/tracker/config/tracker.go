package config

import (
	"fmt"
	"slices"
	"time"
)

// DetailsConfig holds the static lines of the vehicle popup
type DetailsConfig struct {
	Speed       string `toml:"speed,omitempty"`
	Temperature string `toml:"temperature,omitempty"`
	Distance    string `toml:"distance,omitempty"`
}

// TrackerConfig controls polling and the initial view state
type TrackerConfig struct {
	PollInterval     TOMLDuration  `toml:"poll_interval" validate:"gt=0" comment:"live location polling interval"`
	InitialLatitude  float64       `toml:"initial_latitude" validate:"gte=-90,lte=90"`
	InitialLongitude float64       `toml:"initial_longitude" validate:"gte=-180,lte=180"`
	DefaultDate      string        `toml:"default_date" validate:"required"`
	DateOptions      []string      `toml:"date_options" validate:"min=1,dive,required"`
	PathVisible      *bool         `toml:"path_visible,omitempty" comment:"show the route on start, defaults to true"`
	TimeZone         string        `toml:"time_zone,omitempty" comment:"zone used to display the vehicle time"`
	Details          DetailsConfig `toml:"details"`
}

// IsPathVisible returns the initial route overlay state
func (t TrackerConfig) IsPathVisible() bool {
	return t.PathVisible == nil || *t.PathVisible
}

// HasDate checks if the date is one of the selectable options
func (t TrackerConfig) HasDate(date string) bool {
	return slices.Contains(t.DateOptions, date)
}

// Location resolves the display time zone, it falls back to local time
func (t TrackerConfig) Location() *time.Location {
	if t.TimeZone == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(t.TimeZone)
	if err != nil {
		return time.Local
	}

	return loc
}

type TrackerConfigManager struct {
	BaseConfigManager[TrackerConfig]
}

func (a *TrackerConfigManager) Verify() error {
	if err := validate.Struct(a.conf); err != nil {
		return err
	}

	if !a.conf.HasDate(a.conf.DefaultDate) {
		return fmt.Errorf("default date %q is not part of the date options %v", a.conf.DefaultDate, a.conf.DateOptions)
	}

	if a.conf.TimeZone != "" {
		if _, err := time.LoadLocation(a.conf.TimeZone); err != nil {
			return err
		}
	}

	return nil
}

func (a *TrackerConfigManager) applyDefaults() {
	c := a.conf

	if c.PollInterval <= 0 {
		c.PollInterval = TOMLDuration(DefaultPollingInterval)
	}

	// Only the complete absence of a position falls back to the default one
	if c.InitialLatitude == 0 && c.InitialLongitude == 0 {
		c.InitialLatitude = DefaultLatitude
		c.InitialLongitude = DefaultLongitude
	}

	if len(c.DateOptions) == 0 {
		c.DateOptions = []string{DateToday, DateYesterday}
	}

	if c.DefaultDate == "" {
		c.DefaultDate = c.DateOptions[0]
	}

	if c.Details.Speed == "" {
		c.Details.Speed = DefaultSpeed
	}

	if c.Details.Temperature == "" {
		c.Details.Temperature = DefaultTemperature
	}

	if c.Details.Distance == "" {
		c.Details.Distance = DefaultDistance
	}
}

func NewTrackerConfigManager(config *TrackerConfig, mgr *Manager) *TrackerConfigManager {
	j := TrackerConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
