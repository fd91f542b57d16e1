// Package config loads the assistant's settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "/app/config.yaml"

// Store drivers.
const (
	StoreJSON  = "json"
	StoreRedis = "redis"
)

type Config struct {
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	Store         StoreConfig         `yaml:"store"`
	Discovery     DiscoveryConfig     `yaml:"discovery"`
	HTTP          HTTPConfig          `yaml:"http"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// HomeAssistantConfig is the initial hub connection. A connection saved
// through login takes precedence.
type HomeAssistantConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	// Timeout for hub requests, in seconds.
	Timeout int `yaml:"timeout"`
}

func (h HomeAssistantConfig) TimeoutDuration() time.Duration {
	return time.Duration(h.Timeout) * time.Second
}

// String masks the token.
func (h HomeAssistantConfig) String() string {
	token := ""
	if h.Token != "" {
		token = "[REDACTED]"
	}
	return fmt.Sprintf("HomeAssistantConfig{URL:%q, Token:%s, Timeout:%d}", h.URL, token, h.Timeout)
}

type StoreConfig struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type DiscoveryConfig struct {
	// DeviceMarker must appear in an entity ID of a device for it to be listed.
	DeviceMarker    string `yaml:"device_marker"`
	RestoreBindings bool   `yaml:"restore_bindings"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		HomeAssistant: HomeAssistantConfig{Timeout: 10},
		Store: StoreConfig{
			Driver: StoreJSON,
			Path:   "/app/state.json",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "jinding:",
			},
		},
		Discovery: DiscoveryConfig{
			DeviceMarker:    "giot",
			RestoreBindings: true,
		},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HASS_URL"); v != "" {
		cfg.HomeAssistant.URL = v
	}
	if v := os.Getenv("HASS_TOKEN"); v != "" {
		cfg.HomeAssistant.Token = v
	}
	if v := os.Getenv("JINDING_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("JINDING_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("JINDING_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("JINDING_REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
	if v := os.Getenv("JINDING_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.Redis.DB = n
		}
	}
	if v, ok := os.LookupEnv("JINDING_DEVICE_MARKER"); ok {
		cfg.Discovery.DeviceMarker = v
	}
	if v := os.Getenv("JINDING_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("JINDING_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// normalize lowercases the enumerated settings so later comparisons are exact.
func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

func (c *Config) Validate() error {
	if c.HomeAssistant.URL != "" {
		u, err := url.Parse(c.HomeAssistant.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("homeassistant.url must be http(s)://host[:port], got %q", c.HomeAssistant.URL)
		}
	}
	if c.HomeAssistant.Timeout <= 0 {
		return fmt.Errorf("homeassistant.timeout must be positive, got %d", c.HomeAssistant.Timeout)
	}

	switch strings.ToLower(c.Store.Driver) {
	case StoreJSON:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the json driver")
		}
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", StoreJSON, StoreRedis, c.Store.Driver)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
