package config

import (
	"errors"
	"flag"
	"os"
	"sync"
	"time"

	"github.com/LeoCommon/tracker/pkg/log"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

const (
	ProductName    = "tracker"
	ConfigFolder   = "/etc/" + ProductName + "/"
	ConfigFile     = "config.toml"
	DefaultEnvFile = ".env"

	DefaultConfigPath = ConfigFolder + ConfigFile

	DefaultApiURL          = "http://localhost:5000/api"
	DefaultRequestTimeout  = 5 * time.Second
	DefaultPollingInterval = 2 * time.Second

	DefaultLatitude  = 17.385044
	DefaultLongitude = 78.486671

	DateToday     = "today"
	DateYesterday = "yesterday"

	DefaultSpeed       = "60 km/h"
	DefaultTemperature = "25°C"
	DefaultDistance    = "0.5 km"

	DefaultListenAddress = ":8080"
	DefaultTileURL       = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultZoom          = 15

	DefaultDebugModeValue = false
)

var (
	ErrNoManager = errors.New("config section is not attached to a manager")

	validate = validator.New()
)

type CLIFlags struct {
	ConfigPath string
	RootCert   string
	EnvFile    string
	Debug      bool
}

type MainConfig struct {
	Client  ClientConfig  `toml:"client"`
	Api     ApiConfig     `toml:"api"`
	Tracker TrackerConfig `toml:"tracker"`
	Web     WebConfig     `toml:"web"`
}

type ConfigManager interface {
	lock()
	unlock()
	applyDefaults()
	Verify() error
}

type ConfigManagerKey string

const (
	CMClient  ConfigManagerKey = "client"
	CMApi     ConfigManagerKey = "api"
	CMTracker ConfigManagerKey = "tracker"
	CMWeb     ConfigManagerKey = "web"
)

type ConfigManagerStore map[ConfigManagerKey]ConfigManager

type Manager struct {
	mu sync.RWMutex

	// The actual config, never share this with other code
	config *MainConfig

	store ConfigManagerStore

	// The config path, Save writes here
	path string
}

func section[T ConfigManager](m *Manager, key ConfigManagerKey) T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[key].(T)
	if !ok {
		log.Panic("implementation mistake, config section not found", zap.String("section", string(key)))
	}
	return cm
}

func (m *Manager) Client() *ClientConfigManager {
	return section[*ClientConfigManager](m, CMClient)
}

func (m *Manager) Api() *ApiConfigManager {
	return section[*ApiConfigManager](m, CMApi)
}

func (m *Manager) Tracker() *TrackerConfigManager {
	return section[*TrackerConfigManager](m, CMTracker)
}

func (m *Manager) Web() *WebConfigManager {
	return section[*WebConfigManager](m, CMWeb)
}

// Path returns the file the config was loaded from
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Load reads the config file, fills in defaults and environment overrides and verifies the result.
// With acceptEmptyConfig a missing file results in the default configuration.
func (m *Manager) Load(path string, acceptEmptyConfig bool) error {
	data, err := os.ReadFile(path)
	if err == nil {
		if err = toml.Unmarshal(data, m.config); err != nil {
			log.Error("failed to unmarshal config file", zap.String("path", path), zap.Error(err))
			return err
		}
	}

	if err != nil && !acceptEmptyConfig {
		return err
	}

	m.mu.Lock()
	m.path = path

	// Each config section manager gets his own locking primitive
	m.store = ConfigManagerStore{
		CMClient:  NewClientConfigManager(&m.config.Client, m),
		CMApi:     NewApiConfigManager(&m.config.Api, m),
		CMTracker: NewTrackerConfigManager(&m.config.Tracker, m),
		CMWeb:     NewWebConfigManager(&m.config.Web, m),
	}
	m.mu.Unlock()

	applyEnvironment(m.config)

	for _, value := range m.store {
		value.applyDefaults()
	}

	// Verify all configs contain the mandatory values
	for key, value := range m.store {
		if err := value.Verify(); err != nil {
			log.Error("config section verification failed", zap.String("section", string(key)), zap.Error(err))
			return err
		}
	}

	log.Debug("active config", zap.Any("config", m.config), zap.String("path", path))

	return nil
}

// Save locks all configs and writes it to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, value := range m.store {
		value.lock()
	}

	defer func() {
		for _, value := range m.store {
			value.unlock()
		}
	}()

	configData, err := toml.Marshal(m.config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, configData, 0644); err != nil {
		log.Error("failed to write config file", zap.String("path", m.path), zap.Error(err))
		return err
	}

	return nil
}

func New() *MainConfig {
	return &MainConfig{}
}

func NewManager() *Manager {
	return &Manager{
		store:  make(ConfigManagerStore),
		config: New(),
	}
}

func ParseCLIFlags() CLIFlags {
	flags := CLIFlags{}

	flag.StringVar(&flags.ConfigPath, "config", DefaultConfigPath, "relative or absolute path to the config file")
	flag.StringVar(&flags.RootCert, "rootcert", "", "relative or absolute path to the root certificate used for server validation")
	flag.StringVar(&flags.EnvFile, "env", DefaultEnvFile, "optional dotenv file with TRACKER_* overrides")
	flag.BoolVar(&flags.Debug, "debug", DefaultDebugModeValue, "true if the debug logging should be enabled")

	flag.Parse()

	return flags
}

type TOMLDuration time.Duration

func (d *TOMLDuration) UnmarshalText(b []byte) error {
	x, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = TOMLDuration(x)
	return nil
}

func (c TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(c).String()), nil
}

func (c TOMLDuration) Value() time.Duration {
	return time.Duration(c)
}
