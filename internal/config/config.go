package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverAuto     = "auto"
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigin            string
	FrontendURL           string
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string
	Seed   bool
}

// MongoConfig holds document database connection values.
type MongoConfig struct {
	URI      string
	Database string
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
	JWTSecret               string
	SessionTTLHours         int
	VerificationTTLHours    int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// MailConfig holds SMTP relay settings. An empty host disables delivery.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// RateLimitConfig bounds requests to the public auth endpoints.
type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

// SeedConfig holds the bootstrap admin account.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", StoreDriverAuto))
	switch driver {
	case StoreDriverAuto, StoreDriverMongo, StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", driver)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "career-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSOrigin:            getEnv("CORS_ORIGIN", "http://localhost:3000"),
			FrontendURL:           strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DATABASE", "career_guidance"),
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
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("JWT_SECRET", "dev-secret"),
			SessionTTLHours:         getEnvAsInt("AUTH_SESSION_TTL_HOURS", 24*7),
			VerificationTTLHours:    getEnvAsInt("AUTH_VERIFICATION_TTL_HOURS", 24),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 60),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Mail: MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", "noreply@careerhub.local"),
			FromName: getEnv("MAIL_FROM_NAME", "Career Guidance Platform"),
		},
		RateLimit: RateLimitConfig{
			Requests:      getEnvAsInt("RATE_LIMIT_REQUESTS", 20),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@careerhub.local"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin12345"),
		},
	}

	cfg.Store = StoreConfig{
		Driver: cfg.resolveDriver(driver),
	}
	cfg.Store.Seed = getEnvAsBool("STORE_SEED", cfg.Store.Driver == StoreDriverMemory)

	return cfg, nil
}

// resolveDriver picks a concrete backend when the driver is "auto":
// Mongo if a URI is configured, then Postgres, then the in-memory store.
func (c *Config) resolveDriver(driver string) string {
	if driver != StoreDriverAuto {
		return driver
	}
	switch {
	case c.Mongo.URI != "":
		return StoreDriverMongo
	case c.Postgres.DSN != "":
		return StoreDriverPostgres
	default:
		return StoreDriverMemory
	}
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether the service runs with production settings.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the lifetime of issued session tokens.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// VerificationTTL returns how long an email verification token stays valid.
func (a AuthConfig) VerificationTTL() time.Duration {
	return time.Duration(a.VerificationTTLHours) * time.Hour
}

// PasswordResetTTL returns how long a password reset token stays valid.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// Window returns the rate limit window.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
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
