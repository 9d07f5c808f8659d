package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DBDriver             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSExposedHeaders   []string
	CORSMaxAge           int // seconds a browser may cache a preflight

	WorkspacePassword string
	JWTSecret         string

	LogDev   bool
	LogLevel string

	// DateLocation is where plain YYYY-MM-DD dates are anchored at midnight.
	DateLocation *time.Location
}

// AuthEnabled reports whether the API sits behind the workspace password.
func (c Config) AuthEnabled() bool { return c.WorkspacePassword != "" }

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DBDriver:             getenv("DB_DRIVER", "sqlite"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		WorkspacePassword:    getenv("WORKSPACE_PASSWORD", ""),
		JWTSecret:            getenv("JWT_SECRET", ""),
		LogDev:               getenv("LOG_DEV", "false") == "true",
		LogLevel:             getenv("LOG_LEVEL", ""),
		DateLocation:         time.Local,
	}

	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", ""))
	cfg.CORSExposedHeaders = splitList(getenv("CORS_EXPOSED_HEADERS", "X-Request-Id"))

	maxAge, err := strconv.Atoi(getenv("CORS_MAX_AGE", "300"))
	if err != nil || maxAge < 0 {
		return Config{}, fmt.Errorf("CORS_MAX_AGE: want seconds, got %q", os.Getenv("CORS_MAX_AGE"))
	}
	cfg.CORSMaxAge = maxAge

	switch cfg.DBDriver {
	case "sqlite":
		cfg.DatabaseURL = getenv("DATABASE_URL", "pagebase.db")
	case "postgres":
		if cfg.DatabaseURL, err = mustGetenv("DATABASE_URL"); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.AuthEnabled() && cfg.JWTSecret == "" {
		return Config{}, errors.New("missing env: JWT_SECRET (required when WORKSPACE_PASSWORD is set)")
	}

	if name := getenv("DATE_LOCATION", ""); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return Config{}, fmt.Errorf("DATE_LOCATION: %w", err)
		}
		cfg.DateLocation = loc
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", errors.New("missing env: " + key)
	}
	return v, nil
}
