package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve in minimal containers
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort  string
	AppEnv      string
	AuthDevMode bool
	LogLevel    string

	// DefaultUserID owns requests without an X-User-ID header in dev mode.
	DefaultUserID string
	// Timezone decides "today" when a query omits the reference date.
	Timezone string

	StoreDriver string
	SQLitePath  string
	DB          DBConfig
	Redis       RedisConfig
	Agenda      AgendaConfig
	Cognito     CognitoConfig

	// loadErrs collects values that were set but could not be parsed.
	loadErrs []error
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Location resolves Timezone; call Validate first.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) Validate() error {
	if len(c.loadErrs) > 0 {
		return errors.Join(c.loadErrs...)
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthDevMode {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_DEV_MODE is disabled")
		}
		if c.Cognito.AppClientID == "" {
			return fmt.Errorf("COGNITO_APP_CLIENT_ID is required when AUTH_DEV_MODE is disabled")
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER is sqlite")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: must be postgres or sqlite", c.StoreDriver)
	}
	if c.Redis.CacheTTL < 0 {
		return fmt.Errorf("invalid REDIS_CACHE_TTL %s: must not be negative", c.Redis.CacheTTL)
	}
	if c.Agenda.DefaultDays < 1 || c.Agenda.DefaultDays > 365 {
		return fmt.Errorf("invalid AGENDA_DEFAULT_DAYS %d: must be between 1 and 365", c.Agenda.DefaultDays)
	}
	if c.Agenda.MaxRuleCandidates < 1 {
		return fmt.Errorf("invalid AGENDA_MAX_RULE_CANDIDATES %d: must be positive", c.Agenda.MaxRuleCandidates)
	}
	return nil
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

// RedisConfig configures the snapshot cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != "" && r.CacheTTL > 0
}

type AgendaConfig struct {
	DefaultDays       int
	MaxRuleCandidates int
}

type CognitoConfig struct {
	Region      string
	UserPoolID  string
	AppClientID string
}

func Load() Config {
	var errs []error
	cfg := Config{
		ServerPort:    envOrDefault("SERVER_PORT", "8080"),
		AppEnv:        envOrDefault("APP_ENV", "local"),
		AuthDevMode:   strings.EqualFold(envOrDefault("AUTH_DEV_MODE", "false"), "true"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		DefaultUserID: os.Getenv("DEFAULT_USER_ID"),
		Timezone:      envOrDefault("APP_TIMEZONE", "UTC"),
		StoreDriver:   strings.ToLower(envOrDefault("STORE_DRIVER", StoreDriverPostgres)),
		SQLitePath:    envOrDefault("SQLITE_PATH", "data/agenda.db"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "agenda"),
			Password: envOrDefault("DB_PASSWORD", "agenda"),
			Name:     envOrDefault("DB_NAME", "agenda"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0, &errs),
			CacheTTL: envDuration("REDIS_CACHE_TTL", 5*time.Minute, &errs),
		},
		Agenda: AgendaConfig{
			DefaultDays:       envInt("AGENDA_DEFAULT_DAYS", 14, &errs),
			MaxRuleCandidates: envInt("AGENDA_MAX_RULE_CANDIDATES", 2000, &errs),
		},
		Cognito: CognitoConfig{
			Region:      envOrDefault("COGNITO_REGION", "ap-northeast-1"),
			UserPoolID:  os.Getenv("COGNITO_USER_POOL_ID"),
			AppClientID: os.Getenv("COGNITO_APP_CLIENT_ID"),
		},
	}
	cfg.loadErrs = errs
	return cfg
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return defaultVal
	}
	return n
}

func envDuration(key string, defaultVal time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return defaultVal
	}
	return d
}
