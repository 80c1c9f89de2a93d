package redis

import (
	"time"

	"github.com/Alijeyrad/vitum_backend/config"
)

// Config holds Redis connection settings
type Config struct {
	Addr     string
	DB       int
	Username string
	Password string

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromCentralConfig fills unset fields from DefaultConfig.
func FromCentralConfig(c config.RedisConfig) Config {
	def := DefaultConfig()
	cfg := Config{
		Addr:         c.Addr,
		DB:           c.DB,
		Username:     c.Username,
		Password:     c.Password,
		PoolSize:     orInt(c.PoolSize, def.PoolSize),
		MinIdleConns: orInt(c.MinIdleConns, def.MinIdleConns),
		DialTimeout:  seconds(c.DialTimeoutSeconds, def.DialTimeout),
		ReadTimeout:  seconds(c.ReadTimeoutSeconds, def.ReadTimeout),
		WriteTimeout: seconds(c.WriteTimeoutSeconds, def.WriteTimeout),
	}
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	return cfg
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func seconds(v int, def time.Duration) time.Duration {
	if v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}
