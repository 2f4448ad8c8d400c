package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/scriptura/internal/constants"
)

type AdminConfig struct {
	// Secret gates the admin panel. It is compared client side only and
	// is not a security boundary.
	Secret string `yaml:"secret" json:"secret"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file"  json:"file"`
}

type Config struct {
	APIURL      string      `yaml:"api_url"      json:"api_url"`
	Timeout     string      `yaml:"timeout"      json:"timeout"`
	DownloadDir string      `yaml:"download_dir" json:"download_dir"`
	Theme       string      `yaml:"theme"        json:"theme"`
	Admin       AdminConfig `yaml:"admin"        json:"admin"`
	Log         LogConfig   `yaml:"log"          json:"log"`

	home string `yaml:"-"`
}

const (
	defaultTimeout  = "60s"
	defaultLogLevel = "info"
)

// Keys lists the settable keys, in display order.
var Keys = []string{
	"api_url",
	"timeout",
	"download_dir",
	"theme",
	"admin.secret",
	"log.level",
	"log.file",
}

// Default returns a config holding only default values for home.
func Default(home string) *Config {
	cfg := &Config{home: home}
	cfg.ensureDefaults()
	return cfg
}

func (cfg *Config) ensureDefaults() {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = constants.DefaultAPIURL
	}
	if strings.TrimSpace(cfg.Timeout) == "" {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Theme == "" {
		cfg.Theme = constants.DefaultTheme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.home != "" {
		if cfg.DownloadDir == "" {
			cfg.DownloadDir = filepath.Join(cfg.home, "Downloads")
		}
		if cfg.Log.File == "" {
			cfg.Log.File = filepath.Join(cfg.home, constants.ConfigDir, constants.LogFile)
		}
	}
}

// Load reads the config file under home and validates it. An empty file
// yields defaults.
func Load(home string) (*Config, error) {
	cfg, err := Read(home)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read parses the config file under home without validating the values,
// so a broken file can still be shown and repaired.
func Read(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.home = home
	cfg.ensureDefaults()
	return cfg, nil
}

// Validate checks the values a client cannot work without.
func (cfg *Config) Validate() error {
	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigInitError{msg: fmt.Sprintf("invalid api_url %q: want http(s)://host[:port]", cfg.APIURL)}
	}
	if _, err := cfg.TransportTimeout(); err != nil {
		return &ConfigInitError{msg: fmt.Sprintf("invalid timeout %q: %v", cfg.Timeout, err)}
	}
	return nil
}

// TransportTimeout is the HTTP client timeout; zero means none.
func (cfg *Config) TransportTimeout() (time.Duration, error) {
	t := strings.TrimSpace(cfg.Timeout)
	if t == "" {
		t = defaultTimeout
	}
	if t == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(t)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}

// ApplyOverrides copies values bound in viper (flags, environment) over
// the file values.
func (cfg *Config) ApplyOverrides(v *viper.Viper) error {
	if v == nil {
		v = viper.GetViper()
	}
	for _, key := range Keys {
		if !v.IsSet(key) {
			continue
		}
		if val := v.GetString(key); val != "" {
			if err := cfg.set(key, val); err != nil {
				return err
			}
		}
	}
	cfg.ensureDefaults()
	return cfg.Validate()
}

// Get returns the value stored under key.
func (cfg *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return cfg.APIURL, nil
	case "timeout":
		return cfg.Timeout, nil
	case "download_dir":
		return cfg.DownloadDir, nil
	case "theme":
		return cfg.Theme, nil
	case "admin.secret":
		return cfg.Admin.Secret, nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.file":
		return cfg.Log.File, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

func (cfg *Config) set(key, value string) error {
	switch key {
	case "api_url":
		cfg.APIURL = value
	case "timeout":
		cfg.Timeout = value
	case "download_dir":
		cfg.DownloadDir = value
	case "theme":
		cfg.Theme = value
	case "admin.secret":
		cfg.Admin.Secret = value
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// Set updates key, validates the result and saves the file.
func (cfg *Config) Set(key, value string) error {
	prev := *cfg
	if err := cfg.set(key, strings.TrimSpace(value)); err != nil {
		return err
	}
	cfg.ensureDefaults()
	if err := cfg.Validate(); err != nil {
		*cfg = prev
		return err
	}
	return cfg.Save()
}

func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}

func (cfg *Config) GetConfigPath() string {
	if cfg.home != "" {
		return GetConfigPath(cfg.home)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return GetConfigPath(homeDir)
}

// Home is the directory the config was loaded relative to.
func (cfg *Config) Home() string {
	return cfg.home
}
