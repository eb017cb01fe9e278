package config

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Audit      AuditConfig      `mapstructure:"audit"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	AdminToken      string `mapstructure:"admin_token"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// CacheConfig controls caching of stored overrides and settings
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TTL     int  `mapstructure:"ttl"` // seconds
}

// AuditConfig controls the audit log stream consumers
type AuditConfig struct {
	ConsumerGroup string `mapstructure:"consumer_group"`
	Workers       int    `mapstructure:"workers"`
	MinIdleTime   int    `mapstructure:"min_idle_time"` // seconds
	StreamMaxLen  int64  `mapstructure:"stream_max_len"`
}

// StorefrontConfig holds the public site revalidation endpoint
type StorefrontConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	RevalidateSecret     string `mapstructure:"revalidate_secret"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Defaults and environment are enough to run without a file.
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.Audit.Workers < 1 {
		config.Audit.Workers = 1
	}
	if config.Storefront.MaxRequestsPerSecond < 1 {
		config.Storefront.MaxRequestsPerSecond = 1
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.admin_token", "")
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "autoparts")
	v.SetDefault("database.user", "autoparts_user")
	v.SetDefault("database.password", "autoparts_pass")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 300)

	v.SetDefault("audit.consumer_group", "content_audit")
	v.SetDefault("audit.workers", 2)
	v.SetDefault("audit.min_idle_time", 120)
	v.SetDefault("audit.stream_max_len", 10000)

	v.SetDefault("storefront.base_url", "")
	v.SetDefault("storefront.revalidate_secret", "")
	v.SetDefault("storefront.timeout", 10)
	v.SetDefault("storefront.max_retries", 2)
	v.SetDefault("storefront.max_requests_per_second", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Apply configures the global logrus logger.
func (c LogConfig) Apply() error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(c.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}
