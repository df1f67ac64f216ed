// Package config provides configuration management for the mouse jitter tool.
package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Bounds for the user adjustable jitter settings.
const (
	MinAmplitude = 1
	MaxAmplitude = 25

	MinDelay = time.Millisecond
	MaxDelay = 100 * time.Millisecond
)

const (
	defaultAmplitude    = 15
	defaultDelay        = time.Millisecond
	defaultPollInterval = 10 * time.Millisecond
	defaultUIAddr       = "127.0.0.1:0"
)

// Config represents the application configuration
type Config struct {
	// Jitter contains the movement settings applied from the settings panel
	Jitter JitterConfig `yaml:"jitter"`

	// General contains general application settings
	General GeneralConfig `yaml:"general"`
}

// JitterConfig holds the amplitude and timing of one jitter cycle.
type JitterConfig struct {
	// Horizontal is the x offset of the outward half-cycle, in pixels (1-25)
	Horizontal int `yaml:"horizontal"`

	// Vertical is the y offset of the outward half-cycle, in pixels (1-25)
	Vertical int `yaml:"vertical"`

	// Delay is the pause after each half-cycle (1ms-100ms)
	Delay time.Duration `yaml:"delay"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// OpenBrowser opens the settings page in the default browser on startup
	OpenBrowser bool `yaml:"open_browser" json:"open_browser"`

	// StartOnBoot registers the executable to run at login
	StartOnBoot bool `yaml:"start_on_boot" json:"start_on_boot"`

	// UIAddr is the listen address of the settings page. Port 0 picks a free port.
	UIAddr string `yaml:"ui_addr" json:"ui_addr"`

	// PollInterval is how often the emitter re-checks the button state while idle
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Jitter: DefaultJitter(),
		General: GeneralConfig{
			OpenBrowser:  true,
			StartOnBoot:  false,
			UIAddr:       defaultUIAddr,
			PollInterval: defaultPollInterval,
		},
	}
}

// DefaultJitter returns the recommended jitter settings.
func DefaultJitter() JitterConfig {
	return JitterConfig{
		Horizontal: defaultAmplitude,
		Vertical:   defaultAmplitude,
		Delay:      defaultDelay,
	}
}

// ClampAmplitude limits an amplitude to [MinAmplitude, MaxAmplitude].
func ClampAmplitude(v int) int {
	return min(MaxAmplitude, max(MinAmplitude, v))
}

// ClampDelay rounds a half-cycle delay to whole milliseconds, the precision
// the settings page shows, and limits it to [MinDelay, MaxDelay].
func ClampDelay(d time.Duration) time.Duration {
	return min(MaxDelay, max(MinDelay, d.Round(time.Millisecond)))
}

// Clamp returns a copy with every field inside its bounds.
func (j JitterConfig) Clamp() JitterConfig {
	return JitterConfig{
		Horizontal: ClampAmplitude(j.Horizontal),
		Vertical:   ClampAmplitude(j.Vertical),
		Delay:      ClampDelay(j.Delay),
	}
}

// normalize fixes values a hand-edited file may carry.
func (c *Config) normalize() {
	c.Jitter = c.Jitter.Clamp()
	if c.General.UIAddr == "" {
		c.General.UIAddr = defaultUIAddr
	}
	if c.General.PollInterval <= 0 {
		c.General.PollInterval = defaultPollInterval
	}
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	onChanged  func()
	onGeneral  func(GeneralConfig)
}

// NewManager creates a new configuration manager. An empty path selects the
// per-user default location.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}, nil
}

// DefaultPath returns the path to the per-user configuration file
func DefaultPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "mousejitter")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "mousejitter")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "mousejitter")
	}

	return filepath.Join(configDir, "config.yaml"), nil
}

// Path returns the file the manager reads and writes.
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	m.mu.Lock()

	data, err := os.ReadFile(m.configPath)
	if errors.Is(err, os.ErrNotExist) {
		// No config file, use defaults
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		m.mu.Unlock()
		return err
	}
	cfg.normalize()
	m.replaceAndUnlock(cfg)
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return err
	}

	log.Printf("Config: Saving configuration to %s (%d bytes)", m.configPath, len(data))
	return os.WriteFile(m.configPath, data, 0o644)
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.config
}

// Set updates the configuration
func (m *Manager) Set(cfg Config) {
	cfg.normalize()
	m.mu.Lock()
	m.replaceAndUnlock(&cfg)
}

// replaceAndUnlock swaps in cfg, releases the lock taken by the caller and runs
// the callbacks. The general callback only fires when that section changed.
func (m *Manager) replaceAndUnlock(cfg *Config) {
	generalChanged := cfg.General != m.config.General
	m.config = cfg
	onChanged, onGeneral := m.onChanged, m.onGeneral
	general := cfg.General
	m.mu.Unlock()

	if onChanged != nil {
		onChanged()
	}
	if generalChanged && onGeneral != nil {
		onGeneral(general)
	}
}

// SetJitter replaces only the jitter section.
func (m *Manager) SetJitter(j JitterConfig) {
	cfg := m.Get()
	cfg.Jitter = j
	m.Set(cfg)
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}

// RegisterGeneralCallback registers a function called with the new general
// settings whenever they differ from the previous ones.
func (m *Manager) RegisterGeneralCallback(fn func(GeneralConfig)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onGeneral = fn
}
