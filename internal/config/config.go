// Package config loads tally.yaml.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when --config is not given.
const DefaultPath = "tally.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the complete runtime configuration.
type Config struct {
	MaxDigits     int         `mapstructure:"max_digits"`
	DivisionScale int32       `mapstructure:"division_scale"`
	LogLevel      string      `mapstructure:"log_level"`
	Store         StoreConfig `mapstructure:"store"`
	HTTP          HTTPConfig  `mapstructure:"http"`
}

type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	Dir    string      `mapstructure:"dir"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		MaxDigits:     18,
		DivisionScale: 20,
		LogLevel:      "info",
		Store: StoreConfig{
			Driver: DriverMemory,
			Dir:    filepath.Join(".tally", "sessions"),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "tally:session:",
				TTL:    24 * time.Hour,
			},
		},
		HTTP: HTTPConfig{Port: "8080"},
	}
}

// Load reads a YAML or JSON file over the defaults.
// A missing file is not an error unless the path was set explicitly.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// Parse decodes raw YAML (or JSON when isJSON is set) over the defaults and validates it.
func Parse(data []byte, isJSON bool) (Config, error) {
	raw := map[string]any{}
	if isJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enums.
func (c Config) Validate() error {
	if c.MaxDigits < 2 {
		return fmt.Errorf("invalid config: max_digits must be at least 2, got %d", c.MaxDigits)
	}
	if c.DivisionScale < 0 {
		return fmt.Errorf("invalid config: division_scale must not be negative, got %d", c.DivisionScale)
	}
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		return fmt.Errorf("invalid config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverFile && c.Store.Dir == "" {
		return fmt.Errorf("invalid config: store.dir is required for the file driver")
	}
	if c.Store.Driver == DriverRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("invalid config: store.redis.addr is required for the redis driver")
	}
	return nil
}
