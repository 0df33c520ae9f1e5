// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Version is the application version, set at build time.
var Version = "dev"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Search   SearchConfig   `mapstructure:"search"`
	Elastic  ElasticConfig  `mapstructure:"elastic"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// AuthConfig holds viewer-token configuration.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// SearchConfig holds search and pagination tuning.
type SearchConfig struct {
	// PerPage is the default page size; MaxPerPage caps caller requests.
	PerPage    int `mapstructure:"per_page"`
	MaxPerPage int `mapstructure:"max_per_page"`

	// FeedLimit is the number of items returned for feed (RSS-style) views.
	FeedLimit int `mapstructure:"feed_limit"`

	// MaxPages caps how deep unprivileged viewers may page before being
	// asked to narrow their query. 0 disables the cap.
	MaxPages int `mapstructure:"max_pages"`

	// MaxResults bounds the index-backend result window.
	MaxResults int `mapstructure:"max_results"`

	// CountCacheTTL is the lifetime in seconds of cached result counts.
	// 0 disables count caching.
	CountCacheTTL  int `mapstructure:"count_cache_ttl"`
	CountCacheSize int `mapstructure:"count_cache_size"`
}

// ElasticConfig holds full-text index engine configuration.
type ElasticConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	URL       string `mapstructure:"url"`
	Index     string `mapstructure:"index"`
	Highlight bool   `mapstructure:"highlight"`
	Timeout   int    `mapstructure:"timeout"`
}

// Default returns a Config with default values.
func Default() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	if err := v.Unmarshal(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.tidebay")
	}

	v.SetEnvPrefix("TIDEBAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; defaults + env vars are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.path", "./data/tidebay.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("search.per_page", 75)
	v.SetDefault("search.max_per_page", 100)
	v.SetDefault("search.feed_limit", 75)
	v.SetDefault("search.max_pages", 100)
	v.SetDefault("search.max_results", 1000)
	v.SetDefault("search.count_cache_ttl", 60)
	v.SetDefault("search.count_cache_size", 256)

	v.SetDefault("elastic.enabled", false)
	v.SetDefault("elastic.url", "http://127.0.0.1:9200")
	v.SetDefault("elastic.index", "tidebay")
	v.SetDefault("elastic.highlight", false)
	v.SetDefault("elastic.timeout", 10)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
