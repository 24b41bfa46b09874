// Package config handles the configuration directory, file and environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "plannest"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// CookieFile is the persisted session cookie filename.
	CookieFile = "cookies.json"

	// DefaultAPIURL is the PlanNest API origin.
	DefaultAPIURL = "https://plannest.onrender.com"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// APIURL is the fixed API origin every request goes to.
	APIURL string `yaml:"api_url" env:"PLANNEST_API_URL" env-default:"https://plannest.onrender.com" env-description:"PlanNest API origin"`

	// Timeout bounds each API request, including the startup identity check.
	Timeout time.Duration `yaml:"timeout" env:"PLANNEST_TIMEOUT" env-default:"10s" env-description:"Per-request timeout"`

	// MetricsFile, when set, receives API metrics in Prometheus text format after each command.
	MetricsFile string `yaml:"metrics_file,omitempty" env:"PLANNEST_METRICS_FILE" env-description:"Write request metrics to this file"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`
}

// New creates a Config for the default or specified config directory and
// loads settings from config.yaml and the environment.
// If configDir is empty, uses XDG_CONFIG_HOME/plannest or $HOME/.config/plannest.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
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

// Load reads config.yaml if present, then applies environment overrides and defaults.
func (c *Config) Load() error {
	path := c.ConfigPath()
	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, c)
	} else if errors.Is(statErr, os.ErrNotExist) {
		err = cleanenv.ReadEnv(c)
	} else {
		return fmt.Errorf("failed to stat %s: %w", ConfigFile, statErr)
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return c.Validate()
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url: %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// YAML renders the effective settings.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// EnvHelp describes the environment variables Load understands.
func EnvHelp() (string, error) {
	header := "Environment:"
	return cleanenv.GetDescription(&Config{}, &header)
}

// ConfigPath returns the path to the optional settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// CookiePath returns the path to the persisted session cookies.
func (c *Config) CookiePath() string {
	return filepath.Join(c.Dir, CookieFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasCookies checks if a session cookie file exists.
func (c *Config) HasCookies() bool {
	_, err := os.Stat(c.CookiePath())
	return err == nil
}

// RemoveCookies deletes the session cookie file. A missing file is not an error.
func (c *Config) RemoveCookies() error {
	if err := os.Remove(c.CookiePath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
