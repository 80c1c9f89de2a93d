package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/vitum_backend/pkg/constants"
)

var GlobalConf *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.rate_limit.max", 60)
	v.SetDefault("server.rate_limit.expiration_seconds", 30)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	// Empty defaults register the keys so env-only values reach Unmarshal.
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", constants.AppName)

	v.SetDefault("scheduling.timezone", constants.DefaultTimezone)
	v.SetDefault("scheduling.window_weeks", 5)
	v.SetDefault("scheduling.dedupe_materialized", true)
	v.SetDefault("scheduling.cache_ttl_seconds", 300)
	v.SetDefault("scheduling.default_phone_region", constants.DefaultPhoneRegion)

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.paseto.mode", "local")
	v.SetDefault("auth.paseto.issuer", constants.AppName)
	v.SetDefault("auth.paseto.audience", constants.AppName+"-api")
	v.SetDefault("auth.paseto.access_ttl_minutes", 15)
	v.SetDefault("auth.paseto.refresh_ttl_days", 30)
	v.SetDefault("auth.paseto.local_key_hex", "")
	v.SetDefault("auth.paseto.secret_key_hex", "")
	v.SetDefault("auth.paseto.public_key_hex", "")

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.calendar_warmup", "@every 10m")

	v.SetDefault("observability.service_name", constants.AppName)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output.stdout", true)
}

func ReadConfig(configPath string) (*Config, error) {
	// A local .env is optional; real environments inject variables directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// e.g. VITUM_DATABASE_HOST overrides database.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}
