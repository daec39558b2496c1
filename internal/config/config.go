package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string
	LogLevel       string

	DB DBConfig

	JWTSecret    string
	JWTExpiresIn time.Duration

	UploadDir     string
	MaxUploadSize int64

	RedisURL         string
	LoginMaxAttempts int
	LoginLockout     time.Duration

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	OrphanCleanupSchedule string
}

type DBConfig struct {
	Driver   string
	Filename string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasAdminBootstrap reports whether all first-run admin credentials are configured.
func (c *Config) HasAdminBootstrap() bool {
	return c.AdminUsername != "" && c.AdminEmail != "" && c.AdminPassword != ""
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", "development")
	cfg := &Config{
		AppEnv:         appEnv,
		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		JWTSecret: os.Getenv("JWT_SECRET_KEY"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		RedisURL:  os.Getenv("REDIS_URL"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		OrphanCleanupSchedule: getEnv("ORPHAN_CLEANUP_SCHEDULE", "@every 12h"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET_KEY is required")
	}

	var err error
	cfg.DB, err = loadDB(appEnv)
	if err != nil {
		return nil, err
	}

	cfg.JWTExpiresIn, err = parseDuration(getEnv("JWT_EXPIRES_IN", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	cfg.LoginLockout, err = parseDuration(getEnv("LOGIN_LOCKOUT", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_LOCKOUT: %w", err)
	}

	cfg.MaxUploadSize, err = strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE", "5242880"), 10, 64)
	if err != nil || cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE: must be a positive byte count")
	}
	cfg.LoginMaxAttempts, err = strconv.Atoi(getEnv("LOGIN_MAX_ATTEMPTS", "5"))
	if err != nil || cfg.LoginMaxAttempts <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS: must be a positive integer")
	}

	return cfg, nil
}

// LoadDB reads only the database settings, for tools that do not serve HTTP.
func LoadDB() (DBConfig, error) {
	_ = godotenv.Load()
	return loadDB(getEnv("APP_ENV", "development"))
}

func loadDB(appEnv string) (DBConfig, error) {
	defaultDriver := DriverSQLite
	if appEnv == "production" {
		defaultDriver = DriverPostgres
	}

	db := DBConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", defaultDriver)),
		Filename: getEnv("DB_FILENAME", "./database.sqlite"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     getEnv("DB_NAME", "mediannsp"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
	if db.Driver != DriverSQLite && db.Driver != DriverPostgres {
		return DBConfig{}, fmt.Errorf("invalid DB_DRIVER %q: expected %q or %q", db.Driver, DriverSQLite, DriverPostgres)
	}
	return db, nil
}

// SetupLogger builds the process logger and installs it as the slog default.
// Production logs JSON; other environments log text. Unknown levels fall back to info.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", s)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
