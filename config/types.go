package config

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Server        ServerConfig        `mapstructure:"server"`
	Scheduling    SchedulingConfig    `mapstructure:"scheduling"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Jobs          JobsConfig          `mapstructure:"jobs"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Host       string                  `mapstructure:"host"`
	Port       int                     `mapstructure:"port"`
	User       string                  `mapstructure:"user"`
	Password   string                  `mapstructure:"password"`
	DBName     string                  `mapstructure:"dbname"`
	SSLMode    string                  `mapstructure:"sslmode"`
	Pool       DatabasePoolConfig      `mapstructure:"pool"`
	Migrations DatabaseMigrationConfig `mapstructure:"migrations"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseMigrationConfig struct {
	AutoMigrate bool `mapstructure:"auto_migrate"`
	DropColumns bool `mapstructure:"drop_columns"`
}

type RedisConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ServerConfig struct {
	Port           int        `mapstructure:"port"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds"`
	Environment    string     `mapstructure:"environment"`
	CORS           CORSConfig `mapstructure:"cors"`
	RateLimit      RateLimit  `mapstructure:"rate_limit"`
}

// Timeout is the request and command deadline; zero means none.
func (s ServerConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// WithTimeout bounds ctx by Timeout, or only makes it cancelable when no
// timeout is configured.
func (s ServerConfig) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := s.Timeout(); t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type RateLimit struct {
	Max               int `mapstructure:"max"`
	ExpirationSeconds int `mapstructure:"expiration_seconds"`
}

// SchedulingConfig drives calendar generation and intake defaults.
type SchedulingConfig struct {
	Timezone           string `mapstructure:"timezone"`
	WindowWeeks        int    `mapstructure:"window_weeks"`
	DedupeMaterialized bool   `mapstructure:"dedupe_materialized"`
	CacheTTLSeconds    int    `mapstructure:"cache_ttl_seconds"`
	DefaultPhoneRegion string `mapstructure:"default_phone_region"`
}

// Location resolves the clinic timezone. Validate guarantees it loads.
func (s SchedulingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s SchedulingConfig) CacheTTL() time.Duration {
	if s.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// AuthConfig controls operator sign-in. With Enabled=false every API route
// is open, which is only meant for local development.
type AuthConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Paseto   PasetoConfig   `mapstructure:"paseto"`
	Password PasswordConfig `mapstructure:"password"`
}

type PasetoConfig struct {
	Mode             string `mapstructure:"mode"` // local (v4.local) or public (v4.public)
	LocalKeyHex      string `mapstructure:"local_key_hex"`
	SecretKeyHex     string `mapstructure:"secret_key_hex"`
	PublicKeyHex     string `mapstructure:"public_key_hex"`
	Issuer           string `mapstructure:"issuer"`
	Audience         string `mapstructure:"audience"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

// PasswordConfig tunes Argon2id. Zero values keep the built-in defaults.
type PasswordConfig struct {
	MemoryKiB   uint32 `mapstructure:"memory_kib"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
}

type JobsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	CalendarWarmup string `mapstructure:"calendar_warmup"` // cron spec, e.g. "@every 10m"
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/app.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	TenantID string `mapstructure:"tenant_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Scheduling.Timezone); err != nil {
		return fmt.Errorf("scheduling.timezone %q: %w", c.Scheduling.Timezone, err)
	}
	if c.Scheduling.WindowWeeks <= 0 {
		return fmt.Errorf("scheduling.window_weeks must be positive, got %d", c.Scheduling.WindowWeeks)
	}
	if c.Auth.Enabled {
		p := c.Auth.Paseto
		switch p.Mode {
		case "local":
			if p.LocalKeyHex == "" {
				return fmt.Errorf("auth.paseto.local_key_hex is required in local mode")
			}
		case "public":
			if p.SecretKeyHex == "" && p.PublicKeyHex == "" {
				return fmt.Errorf("auth.paseto needs secret_key_hex or public_key_hex in public mode")
			}
		default:
			return fmt.Errorf("auth.paseto.mode must be local or public, got %q", p.Mode)
		}
	}
	if c.Jobs.Enabled && c.Jobs.CalendarWarmup != "" {
		if _, err := cron.ParseStandard(c.Jobs.CalendarWarmup); err != nil {
			return fmt.Errorf("jobs.calendar_warmup: %w", err)
		}
	}
	return nil
}
