package config

// ClientConfig holds the general service settings
type ClientConfig struct {
	Name  string `toml:"name,omitempty" comment:"instance name, shows up in the logs"`
	Debug bool   `toml:"debug"`
}

type ClientConfigManager struct {
	BaseConfigManager[ClientConfig]
}

func (a *ClientConfigManager) Verify() error {
	return nil
}

func (a *ClientConfigManager) applyDefaults() {
	if a.conf.Name == "" {
		a.conf.Name = ProductName
	}
}

func NewClientConfigManager(config *ClientConfig, mgr *Manager) *ClientConfigManager {
	j := ClientConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
