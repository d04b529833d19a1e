// Package config loads Bria client settings from defaults, an optional
// YAML file, and BRIA_-prefixed environment variables, in increasing
// order of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gaborage/go-bria/bria"
	"github.com/gaborage/go-bria/logger"
)

const (
	// DefaultFile is the YAML file consulted when none is specified.
	DefaultFile = "bria.yaml"

	envPrefix = "BRIA_"
)

// Config holds the client settings loadable from file and environment.
type Config struct {
	API  APIConfig  `koanf:"api"`
	HTTP HTTPConfig `koanf:"http"`
	Log  LogConfig  `koanf:"log"`
}

// APIConfig identifies the credential and target endpoint.
type APIConfig struct {
	// Key is the Bria API key (env: BRIA_API_KEY). Required.
	Key string `koanf:"key" validate:"required"`
	// BaseURL overrides the production endpoint (env: BRIA_API_BASEURL).
	BaseURL string `koanf:"baseurl" validate:"omitempty,url"`
}

// HTTPConfig tunes the call executor.
type HTTPConfig struct {
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"maxretries" validate:"gte=0"`
	BackoffBase       time.Duration `koanf:"backoffbase" validate:"gt=0"`
	BackoffMultiplier float64       `koanf:"backoffmultiplier" validate:"gte=1"`
	// RateLimit is requests per second across the client; 0 disables it.
	RateLimit float64 `koanf:"ratelimit" validate:"gte=0"`
	RateBurst int     `koanf:"rateburst" validate:"gte=0"`
}

// LogConfig tunes the structured logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}

var validate = validator.New()

// Load reads configuration from defaults, DefaultFile (if present), and
// the environment. Environment variables win; BRIA_API_KEY maps to
// api.key, BRIA_HTTP_MAXRETRIES to http.maxretries, and so on.
func Load() (*Config, error) {
	return LoadFrom(DefaultFile)
}

// LoadFrom is Load with an explicit YAML path. An empty path skips the
// file source; a missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		// The file is optional; only surface parse failures.
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(envprovider.Provider(envPrefix, ".", func(s string) string {
		// BRIA_API_KEY -> api.key
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func defaults() map[string]any {
	return map[string]any{
		"api.baseurl":            bria.DefaultBaseURL,
		"http.timeout":           "15s",
		"http.maxretries":        2,
		"http.backoffbase":       "1s",
		"http.backoffmultiplier": 1.5,
		"http.ratelimit":         0.0,
		"http.rateburst":         1,
		"log.level":              "info",
		"log.pretty":             false,
	}
}

// NewClient constructs a bria.Client from the configuration.
func (c *Config) NewClient() (*bria.Client, error) {
	opts := []bria.Option{
		bria.WithBaseURL(c.API.BaseURL),
		bria.WithLogger(logger.New(c.Log.Level, c.Log.Pretty)),
		bria.WithTimeout(c.HTTP.Timeout),
		bria.WithRetryPolicy(c.HTTP.MaxRetries, c.HTTP.BackoffBase, c.HTTP.BackoffMultiplier),
	}
	if c.HTTP.RateLimit > 0 {
		opts = append(opts, bria.WithRateLimit(c.HTTP.RateLimit, c.HTTP.RateBurst))
	}
	return bria.New(c.API.Key, opts...)
}
