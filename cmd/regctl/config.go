package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// StoreBolt is a bbolt database file.
	StoreBolt = "bolt"

	// StoreWindows is the live Windows registry.
	StoreWindows = "windows"

	// DefaultLockTimeout is how long to wait for the database file lock.
	DefaultLockTimeout = Duration(time.Second)
)

// Duration is a time.Duration written as a string ("1s", "250ms") in TOML.
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config represents the regctl configuration file.
type Config struct {
	Store       string    `toml:"store"`
	Path        string    `toml:"path"`
	ReadOnly    bool      `toml:"read-only"`
	LockTimeout Duration  `toml:"lock-timeout"`
	Log         LogConfig `toml:"log"`
}

// LogConfig configures diagnostics logging.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
	Dir   string `toml:"dir"`
}

// NewConfig returns a new instance of Config with defaults.
func NewConfig() Config {
	return Config{
		Store:       StoreBolt,
		Path:        defaultDBPath(),
		LockTimeout: DefaultLockTimeout,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "registry.db"
	}
	return filepath.Join(home, ".regctl", "registry.db")
}

// Validate returns an error if the config is invalid.
func (c Config) Validate() error {
	switch c.Store {
	case StoreBolt:
		if c.Path == "" {
			return errors.New("path is required for the bolt store")
		}
	case StoreWindows:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.LockTimeout < 0 {
		return errors.New("lock-timeout must not be negative")
	}
	return nil
}

// loadConfig reads the --config file, if any, and applies flag overrides.
func loadConfig() (*Config, error) {
	c := NewConfig()
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, &c); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}
	if storeKind != "" {
		c.Store = storeKind
	}
	if dbPath != "" {
		c.Path = dbPath
	}
	if readOnly {
		c.ReadOnly = true
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
