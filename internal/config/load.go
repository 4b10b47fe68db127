package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "LEITNER"

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// for config.yaml in the working directory; a missing file is not an error
// then, but a missing explicit path is.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags and the storage settings
// each driver needs.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverFile:
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			return fmt.Errorf("config validation failed: storage.path is required for the %s driver", DriverFile)
		}
	case DriverPostgres:
		if cfg.Storage.DatabaseURL == "" {
			return fmt.Errorf("config validation failed: storage.database_url is required for the %s driver", DriverPostgres)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.path", "deck.yaml")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("scheduler.hard_step", 1)
	v.SetDefault("scheduler.easy_step", 2)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
}

// bindEnvs makes every key visible to Unmarshal even when it only comes from
// the environment; AutomaticEnv alone only affects Get.
func bindEnvs(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key)
	}
}
