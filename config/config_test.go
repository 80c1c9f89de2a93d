package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

func validConfig() Config {
	var c Config
	c.Scheduling.Timezone = "America/Sao_Paulo"
	c.Scheduling.WindowWeeks = 5
	c.Auth.Enabled = true
	c.Auth.Paseto.Mode = "local"
	c.Auth.Paseto.LocalKeyHex = strings.Repeat("ab", 32)
	c.Jobs.Enabled = true
	c.Jobs.CalendarWarmup = "@every 10m"
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown timezone", func(c *Config) { c.Scheduling.Timezone = "Mars/Olympus" }, "scheduling.timezone"},
		{"zero window", func(c *Config) { c.Scheduling.WindowWeeks = 0 }, "window_weeks"},
		{"local mode without key", func(c *Config) { c.Auth.Paseto.LocalKeyHex = "" }, "local_key_hex"},
		{"public mode without keys", func(c *Config) { c.Auth.Paseto.Mode = "public" }, "public mode"},
		{"unknown token mode", func(c *Config) { c.Auth.Paseto.Mode = "jwt" }, "auth.paseto.mode"},
		{"auth disabled needs no key", func(c *Config) {
			c.Auth.Enabled = false
			c.Auth.Paseto.LocalKeyHex = ""
		}, ""},
		{"bad cron spec", func(c *Config) { c.Jobs.CalendarWarmup = "every tuesday" }, "jobs.calendar_warmup"},
		{"bad cron ignored when jobs off", func(c *Config) {
			c.Jobs.Enabled = false
			c.Jobs.CalendarWarmup = "every tuesday"
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
scheduling:
  window_weeks: 3
auth:
  paseto:
    mode: local
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VITUM_AUTH_PASETO_LOCAL_KEY_HEX", strings.Repeat("cd", 32))
	t.Setenv("VITUM_DATABASE_PASSWORD", "from-env")

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Scheduling.WindowWeeks != 3 {
		t.Errorf("scheduling.window_weeks = %d, want 3", cfg.Scheduling.WindowWeeks)
	}
	if cfg.Scheduling.Timezone != "America/Sao_Paulo" {
		t.Errorf("scheduling.timezone default = %q", cfg.Scheduling.Timezone)
	}
	if cfg.Database.Password != "from-env" {
		t.Errorf("database.password = %q, want env override", cfg.Database.Password)
	}
	if cfg.Auth.Paseto.AccessTTLMinutes != 15 {
		t.Errorf("auth.paseto.access_ttl_minutes = %d, want 15", cfg.Auth.Paseto.AccessTTLMinutes)
	}
}

func TestServerWithTimeout(t *testing.T) {
	tests := []struct {
		name         string
		seconds      int
		wantDeadline bool
	}{
		{"unset means no deadline", 0, false},
		{"negative means no deadline", -1, false},
		{"positive bounds the context", 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ServerConfig{TimeoutSeconds: tt.seconds}
			ctx, cancel := s.WithTimeout(context.Background())
			defer cancel()

			if err := ctx.Err(); err != nil {
				t.Fatalf("fresh context already done: %v", err)
			}
			deadline, ok := ctx.Deadline()
			if ok != tt.wantDeadline {
				t.Fatalf("has deadline = %v, want %v", ok, tt.wantDeadline)
			}
			if ok && time.Until(deadline) > time.Duration(tt.seconds)*time.Second {
				t.Errorf("deadline %v is beyond %ds", deadline, tt.seconds)
			}

			cancel()
			if ctx.Err() == nil {
				t.Error("cancel did not end the context")
			}
		})
	}
}
