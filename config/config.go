package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Storage   StorageConfig
	Session   SessionConfig
	Filters   FiltersConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds TheMealDB API configuration
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	FilterPath        string        `mapstructure:"filter_path"`
	LookupPath        string        `mapstructure:"lookup_path"`
	FilterTimeout     time.Duration `mapstructure:"filter_timeout"`
	LookupTimeout     time.Duration `mapstructure:"lookup_timeout"`
	MaxCandidates     int           `mapstructure:"max_candidates"`
	DetailConcurrency int           `mapstructure:"detail_concurrency"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	Debug             bool          `mapstructure:"debug"`
}

// StorageConfig selects the durable key-value backend for favorites and history
type StorageConfig struct {
	Type     string `mapstructure:"type"` // "memory", "file", "badger", "redis" or "sqlite"
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis_url"`
}

// SessionConfig holds search session configuration
type SessionConfig struct {
	HistoryCapacity int `mapstructure:"history_capacity"`
}

// FiltersConfig holds the default filter values
type FiltersConfig struct {
	DefaultMaxMinutes int `mapstructure:"default_max_minutes"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`  // requests per minute per client IP
	Catalog int `mapstructure:"catalog"` // outbound catalog requests per second
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var storageTypes = []string{"memory", "file", "badger", "redis", "sqlite"}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/recipefinder/")

	v.SetEnvPrefix("RECIPEFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("catalog.filter_path", "/filter.php")
	v.SetDefault("catalog.lookup_path", "/lookup.php")
	v.SetDefault("catalog.filter_timeout", "10s")
	v.SetDefault("catalog.lookup_timeout", "8s")
	v.SetDefault("catalog.max_candidates", 20)
	v.SetDefault("catalog.detail_concurrency", 20)
	v.SetDefault("catalog.max_attempts", 2)
	v.SetDefault("catalog.debug", false)

	// Storage defaults
	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.path", "./data/session.json")
	v.SetDefault("storage.redis_url", "")

	// Session defaults
	v.SetDefault("session.history_capacity", 8)

	// Filter defaults
	v.SetDefault("filters.default_max_minutes", 60)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.catalog", 25)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required (set RECIPEFINDER_CATALOG_BASE_URL)")
	}

	if config.Catalog.FilterTimeout <= 0 || config.Catalog.LookupTimeout <= 0 {
		return fmt.Errorf("catalog timeouts must be positive")
	}

	if config.Catalog.MaxCandidates < 1 {
		return fmt.Errorf("catalog max candidates must be at least 1, got: %d", config.Catalog.MaxCandidates)
	}

	if !isStorageType(config.Storage.Type) {
		return fmt.Errorf("storage type must be one of %s, got: %s", strings.Join(storageTypes, ", "), config.Storage.Type)
	}

	if config.Storage.Type == "redis" && config.Storage.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when storage type is 'redis'")
	}

	if (config.Storage.Type == "file" || config.Storage.Type == "badger" || config.Storage.Type == "sqlite") && config.Storage.Path == "" {
		return fmt.Errorf("storage path is required when storage type is '%s'", config.Storage.Type)
	}

	if config.Session.HistoryCapacity < 1 {
		return fmt.Errorf("session history capacity must be at least 1, got: %d", config.Session.HistoryCapacity)
	}

	if config.Filters.DefaultMaxMinutes < 15 || config.Filters.DefaultMaxMinutes > 120 {
		return fmt.Errorf("default max minutes must be within [15,120], got: %d", config.Filters.DefaultMaxMinutes)
	}

	return nil
}

func isStorageType(t string) bool {
	for _, s := range storageTypes {
		if s == t {
			return true
		}
	}
	return false
}
