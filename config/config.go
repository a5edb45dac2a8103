package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindow   = 10
	DefaultAddr     = ":8080"
	DefaultLogLevel = "info"
)

type Config struct {
	Viewport Viewport `yaml:"viewport"`
	Server   Server   `yaml:"server"`
	LogLevel string   `yaml:"log_level,omitempty"`
}

type Viewport struct {
	Height int `yaml:"height,omitempty"`
	Width  int `yaml:"width,omitempty"`
}

type Server struct {
	Addr   string `yaml:"addr,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
	// URL is where `gridcalc remote` finds the server.
	URL string `yaml:"url,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Viewport: Viewport{Height: DefaultWindow, Width: DefaultWindow},
		Server:   Server{Addr: DefaultAddr},
		LogLevel: DefaultLogLevel,
	}
}

// withDefaults fills every unset field from Default.
func (c Config) withDefaults() Config {
	d := Default()
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = d.Viewport.Height
	}
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = d.Viewport.Width
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}

// applyEnv overlays GRIDCALC_API_KEY, GRIDCALC_API_URL and GRIDCALC_LOG_LEVEL.
func (c Config) applyEnv() Config {
	if v := os.Getenv("GRIDCALC_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("GRIDCALC_API_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("GRIDCALC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c
}

func dir() (string, error) {
	if v := os.Getenv("GRIDCALC_CONFIG_DIR"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "gridcalc"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gridcalc"), nil
}

// Path is the location of the config file.
func Path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// Load reads the config file, fills defaults and applies environment
// overrides. A missing file yields the defaults.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	return cfg.withDefaults().applyEnv(), nil
}

// LoadFile reads the config file as written, without defaults or
// environment overrides. Returns a zero-value Config if the file does not
// exist.
func LoadFile() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", p, err)
	}
	return cfg, nil
}

// Save writes the config to disk atomically using a temp file + rename.
func Save(cfg Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	d := filepath.Dir(p)
	if err := os.MkdirAll(d, 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	// Remove dest first for Windows compat (os.Rename fails if dest exists on Windows).
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Delete removes the config file.
func Delete() error {
	p, err := Path()
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
