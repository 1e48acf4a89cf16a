package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App         AppConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	Auth        AuthConfig
	Maintenance MaintenanceConfig
	Analytics   AnalyticsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// MaintenanceConfig controls the background sweep cadence and retention.
type MaintenanceConfig struct {
	Enabled              bool
	SweepIntervalMinutes int
	PurgeIntervalHours   int
	RetentionDays        int
	ReminderWindowHours  int

	// ReminderIntervalMinutes is the scan cadence; ReminderWindowHours is the
	// look-ahead, independent of how often the scan runs.
	ReminderIntervalMinutes int
}

// AnalyticsConfig controls the analytics snapshot cache.
type AnalyticsConfig struct {
	CacheTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "jobops-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Maintenance: MaintenanceConfig{
			Enabled:                 getEnvAsBool("MAINTENANCE_ENABLED", true),
			SweepIntervalMinutes:    getEnvAsInt("MAINTENANCE_SWEEP_INTERVAL_MINUTES", 15),
			PurgeIntervalHours:      getEnvAsInt("MAINTENANCE_PURGE_INTERVAL_HOURS", 24),
			RetentionDays:           getEnvAsInt("MAINTENANCE_RETENTION_DAYS", 365),
			ReminderWindowHours:     getEnvAsInt("MAINTENANCE_REMINDER_WINDOW_HOURS", 24),
			ReminderIntervalMinutes: getEnvAsInt("MAINTENANCE_REMINDER_INTERVAL_MINUTES", 60),
		},
		Analytics: AnalyticsConfig{
			CacheTTLSeconds: getEnvAsInt("ANALYTICS_CACHE_TTL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SweepInterval returns the overdue sweep cadence.
func (m MaintenanceConfig) SweepInterval() time.Duration {
	if m.SweepIntervalMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(m.SweepIntervalMinutes) * time.Minute
}

// PurgeInterval returns the retention purge cadence.
func (m MaintenanceConfig) PurgeInterval() time.Duration {
	if m.PurgeIntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(m.PurgeIntervalHours) * time.Hour
}

// Retention returns how long completed jobs are kept before purge.
func (m MaintenanceConfig) Retention() time.Duration {
	days := m.RetentionDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// ReminderInterval returns the reminder scan cadence.
func (m MaintenanceConfig) ReminderInterval() time.Duration {
	if m.ReminderIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(m.ReminderIntervalMinutes) * time.Minute
}

// ReminderWindow returns the look-ahead window for reminder candidates.
func (m MaintenanceConfig) ReminderWindow() time.Duration {
	if m.ReminderWindowHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(m.ReminderWindowHours) * time.Hour
}

// CacheTTL returns the analytics snapshot cache lifetime.
func (a AnalyticsConfig) CacheTTL() time.Duration {
	if a.CacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
