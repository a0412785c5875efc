package config

import (
	"fmt"
	"net"
)

// WebConfig configures the map page and its api
type WebConfig struct {
	Listen  string `toml:"listen" validate:"required" comment:"listen address of the map page"`
	TileURL string `toml:"tile_url,omitempty" validate:"required"`
	Zoom    int    `toml:"zoom,omitempty" validate:"gte=1,lte=19"`
}

type WebConfigManager struct {
	BaseConfigManager[WebConfig]
}

func (a *WebConfigManager) Verify() error {
	if err := validate.Struct(a.conf); err != nil {
		return err
	}

	if _, _, err := net.SplitHostPort(a.conf.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", a.conf.Listen, err)
	}

	return nil
}

func (a *WebConfigManager) applyDefaults() {
	if a.conf.Listen == "" {
		a.conf.Listen = DefaultListenAddress
	}

	if a.conf.TileURL == "" {
		a.conf.TileURL = DefaultTileURL
	}

	if a.conf.Zoom == 0 {
		a.conf.Zoom = DefaultZoom
	}
}

func NewWebConfigManager(config *WebConfig, mgr *Manager) *WebConfigManager {
	j := WebConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
