package config

// Storage drivers understood by the application.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage"   validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig selects where deck state is kept.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"       validate:"required,oneof=memory file postgres"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url" validate:"omitempty,url"`
}

// SchedulerConfig holds the bucket steps applied by the transition engine.
type SchedulerConfig struct {
	HardStep int `mapstructure:"hard_step" validate:"gte=0,ltefield=EasyStep"`
	EasyStep int `mapstructure:"easy_step" validate:"gt=0"`
}

// AuthConfig contains the optional API token settings. Authentication is
// disabled when JWTSecret is empty.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// Enabled reports whether API authentication is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}
