package database

import (
	"strings"
	"testing"

	"github.com/Alijeyrad/vitum_backend/config"
)

func TestFromCentralConfig(t *testing.T) {
	cfg := FromCentralConfig(config.DatabaseConfig{
		Host: "db", Port: 5433, User: "vitum", Password: "s3cret", DBName: "vitum", SSLMode: "disable",
	})

	want := "host=db port=5433 user=vitum password=s3cret dbname=vitum sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if cfg.MaxOpenConns != DefaultConfig().MaxOpenConns {
		t.Errorf("MaxOpenConns = %d, want default", cfg.MaxOpenConns)
	}
}

func TestDSNQuoting(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"plain", "s3cret", "password=s3cret"},
		{"space", "two words", "password='two words'"},
		{"quote and backslash", `it's\ok`, `password='it\'s\\ok'`},
		{"empty is omitted", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := Config{Host: "db", Port: 5432, User: "vitum", Password: tt.password}.DSN()
			if tt.want == "" {
				if strings.Contains(dsn, "password=") {
					t.Errorf("DSN() = %q, want no password", dsn)
				}
				return
			}
			if !strings.Contains(dsn, tt.want) {
				t.Errorf("DSN() = %q, want it to contain %q", dsn, tt.want)
			}
		})
	}
}
