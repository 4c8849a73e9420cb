// Package config handles the configuration directory, file and settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todos"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.toml"

	// EnvBaseURL overrides the base URL from the config file.
	EnvBaseURL = "TODOS_BASE_URL"

	// DefaultBaseURL is the remote store used when nothing else is configured.
	DefaultBaseURL = "https://dummyjson.com"

	// DefaultOwnerID is attached to created todos when the file sets none.
	DefaultOwnerID = 1
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the remote collection endpoint root.
	BaseURL string

	// OwnerID is sent as the owner of newly created todos.
	OwnerID int64

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileSettings mirrors config.toml.
type fileSettings struct {
	BaseURL string `toml:"base_url"`
	OwnerID int64  `toml:"owner_id"`
}

// New creates a Config for the given directory and loads config.toml if present.
// If configDir is empty, uses XDG_CONFIG_HOME/todos or $HOME/.config/todos.
// A non-empty baseURL overrides both the environment and the file.
func New(configDir, baseURL string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		BaseURL: DefaultBaseURL,
		OwnerID: DefaultOwnerID,
	}

	if err := cfg.load(); err != nil {
		return nil, err
	}
	if env := strings.TrimSpace(os.Getenv(EnvBaseURL)); env != "" {
		cfg.BaseURL = env
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load() error {
	var settings fileSettings
	_, err := toml.DecodeFile(c.Path(), &settings)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config parse failed (%s): %w", c.Path(), err)
	}
	if settings.BaseURL != "" {
		c.BaseURL = settings.BaseURL
	}
	if settings.OwnerID != 0 {
		c.OwnerID = settings.OwnerID
	}
	return nil
}

// Validate checks that the base URL is an absolute http(s) URL.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base url %q: must be an absolute http(s) url", cfg.BaseURL)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.toml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}
