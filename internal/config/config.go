// Package config holds the tracksite runtime configuration. Values come from
// defaults, an optional YAML file, and TRACKSITE_ prefixed environment
// variables, merged by viper and validated before use.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override,
// e.g. TRACKSITE_TRACKING_BASE_URL for tracking.base_url.
const EnvPrefix = "TRACKSITE"

// Config is the root configuration structure
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Tracking TrackingConfig `mapstructure:"tracking"`
	View     ViewConfig     `mapstructure:"view"`
	Site     SiteConfig     `mapstructure:"site"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	// ShutdownGrace bounds how long in-flight requests may drain on shutdown
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// TrackingConfig controls the lookup service
type TrackingConfig struct {
	// BaseURL is the remote tracking API root. Required unless Demo or
	// Fixtures is set.
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Retries           int           `mapstructure:"retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	ValidateResponses bool          `mapstructure:"validate_responses"`
	// Fixtures points at a file or directory of JSON/YAML records served
	// instead of the remote API.
	Fixtures string `mapstructure:"fixtures"`
	// Demo serves the embedded demonstration records.
	Demo bool `mapstructure:"demo"`
}

// ViewConfig controls the tracking route
type ViewConfig struct {
	RoutePath       string        `mapstructure:"route_path"`
	IDParam         string        `mapstructure:"id_param"`
	PendingAfter    time.Duration `mapstructure:"pending_after"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
}

// SiteConfig controls branding
type SiteConfig struct {
	Name    string `mapstructure:"name"`
	Theme   string `mapstructure:"theme"`
	Variant string `mapstructure:"variant"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format is json (production encoder) or console (development encoder)
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownGrace:     10 * time.Second,
		},
		Tracking: TrackingConfig{
			Timeout:           10 * time.Second,
			Retries:           1,
			RetryDelay:        time.Second,
			ValidateResponses: true,
		},
		View: ViewConfig{
			RoutePath:       "/track",
			IDParam:         "trackingId",
			PendingAfter:    750 * time.Millisecond,
			RefreshInterval: 2 * time.Second,
			SessionTTL:      30 * time.Minute,
		},
		Site: SiteConfig{
			Name:  "DLogis",
			Theme: "dlogis",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// SetDefaults registers every default value on v so that environment
// variables resolve even for keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.read_header_timeout", defaults.Server.ReadHeaderTimeout)
	v.SetDefault("server.shutdown_grace", defaults.Server.ShutdownGrace)

	v.SetDefault("tracking.base_url", defaults.Tracking.BaseURL)
	v.SetDefault("tracking.timeout", defaults.Tracking.Timeout)
	v.SetDefault("tracking.retries", defaults.Tracking.Retries)
	v.SetDefault("tracking.retry_delay", defaults.Tracking.RetryDelay)
	v.SetDefault("tracking.validate_responses", defaults.Tracking.ValidateResponses)
	v.SetDefault("tracking.fixtures", defaults.Tracking.Fixtures)
	v.SetDefault("tracking.demo", defaults.Tracking.Demo)

	v.SetDefault("view.route_path", defaults.View.RoutePath)
	v.SetDefault("view.id_param", defaults.View.IDParam)
	v.SetDefault("view.pending_after", defaults.View.PendingAfter)
	v.SetDefault("view.refresh_interval", defaults.View.RefreshInterval)
	v.SetDefault("view.session_ttl", defaults.View.SessionTTL)

	v.SetDefault("site.name", defaults.Site.Name)
	v.SetDefault("site.theme", defaults.Site.Theme)
	v.SetDefault("site.variant", defaults.Site.Variant)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.path", defaults.Metrics.Path)
}

// New returns a viper instance with defaults and environment overrides
// wired. When file is not empty it is read as the config file; a missing
// file is an error because the caller asked for it explicitly.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		v.SetConfigName("tracksite")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
		return v, nil
	}

	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", file, err)
	}
	return v, nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}
