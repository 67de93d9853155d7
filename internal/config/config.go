package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes environment overrides, e.g. SPELLBOOK_PATHS_DOCX.
const EnvPrefix = "SPELLBOOK"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// When cfgFile is empty, config.yaml is looked up in the working directory
// and then in homeDir (if set).
func NewManager(cfgFile, homeDir string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile, homeDir); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, homeDir string) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("paths.docx", defaults.Paths.Docx)
	v.SetDefault("paths.pdf", defaults.Paths.PDF)
	v.SetDefault("paths.canon", defaults.Paths.Canon)
	v.SetDefault("paths.dataset", defaults.Paths.Dataset)
	v.SetDefault("paths.sqlite", defaults.Paths.SQLite)
	v.SetDefault("extract.section_pattern", defaults.Extract.SectionPattern)
	v.SetDefault("extract.skip_sample", defaults.Extract.SkipSample)
	v.SetDefault("crosscheck.max_name_length", defaults.CrossCheck.MaxNameLength)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("watch.attempts", defaults.Watch.Attempts)
	v.SetDefault("watch.delay", defaults.Watch.Delay)

	// Environment variables with SPELLBOOK_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeDir != "" {
			v.AddConfigPath(homeDir)
		}
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// FileUsed returns the config file that was read, or "" when running on
// defaults and environment only.
func (cm *Manager) FileUsed() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Spellbook configuration
# Every key can be overridden from the environment, e.g. SPELLBOOK_PATHS_DOCX=/path/to/book.docx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
