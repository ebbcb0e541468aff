package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var defaultCORSOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

type Config struct {
	Env  string
	Port string

	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnIdle time.Duration
	ApplySchema   bool
	SchemaPath    string

	LogLevel  string
	LogFormat string

	CORSOrigins          []string
	CORSAllowCredentials bool

	TLS TLSSettings
}

// Load reads an optional .env file and then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (Config, bool) {
	dotenv := godotenv.Load() == nil

	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		env = strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	}
	if env == "" {
		env = "development"
	}

	cfg := Config{
		Env:                  env,
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		DBMaxConns:           int32(envOr("DB_MAX_CONNS", 10, strconv.Atoi)),
		DBMinConns:           int32(envOr("DB_MIN_CONNS", 2, strconv.Atoi)),
		DBMaxConnIdle:        envOr("DB_MAX_CONN_IDLE_TIME", 5*time.Minute, time.ParseDuration),
		ApplySchema:          !strings.EqualFold(os.Getenv("APPLY_SCHEMA_ON_START"), "false"),
		SchemaPath:           os.Getenv("SCHEMA_PATH"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            os.Getenv("LOG_FORMAT"),
		CORSOrigins:          splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		CORSAllowCredentials: strings.EqualFold(os.Getenv("CORS_ALLOW_CREDENTIALS"), "true"),
		TLS:                  loadTLSSettings(env),
	}

	if cfg.LogFormat == "" {
		if env == "production" {
			cfg.LogFormat = "json"
		} else {
			cfg.LogFormat = "text"
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = defaultCORSOrigins
	}

	cfg.Port = os.Getenv("SERVER_PORT")
	if cfg.Port == "" {
		if cfg.TLS.EnableTLS {
			cfg.Port = "8443"
		} else {
			cfg.Port = "8080"
		}
	}

	return cfg, dotenv
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}
	return c.TLS.Validate()
}

func getEnv(key, defaultValue string) string {
	return envOr(key, defaultValue, func(v string) (string, error) { return v, nil })
}

// envOr parses key with parse, falling back to def when the variable is
// unset or does not parse.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if v, err := parse(raw); err == nil {
		return v
	}
	return def
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
