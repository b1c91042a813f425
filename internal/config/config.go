package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// DriverPostgres selects the PostgreSQL store.
	DriverPostgres = "postgres"
	// DriverSQLite selects a local SQLite file.
	DriverSQLite = "sqlite"
)

// ErrMissingDatabase indicates no usable connection parameters were supplied.
var ErrMissingDatabase = errors.New("database connection parameters must be provided")

// Config holds runtime configuration values for the grades tool.
type Config struct {
	AppName          string
	DatabaseDriver   string
	DatabaseURL      string
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string
	SQLitePath       string
	PoolSize         int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	RedisURL         string
	ReportCacheTTL   time.Duration
	LogLevel         string
	LogPretty        bool
	MetricsFile      string
	SeedValue        uint64
}

// PostgresDSN returns the explicit database URL or assembles one from the discrete parameters.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:   fmt.Sprintf("%s:%s", c.DatabaseHost, c.DatabasePort),
		Path:   "/" + c.DatabaseName,
	}
	if c.DatabaseSSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": []string{c.DatabaseSSLMode}}.Encode()
	}

	return dsn.String()
}

// DataSource identifies the database a run reads from. Relative SQLite paths are resolved
// against the working directory so the same file always yields the same identity.
func (c Config) DataSource() string {
	if c.DatabaseDriver == DriverSQLite {
		path := c.SQLitePath
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return DriverSQLite + ":" + path
	}
	return DriverPostgres + ":" + c.PostgresDSN()
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("GRADES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "gema-grades")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "grades.db")
	v.SetDefault("database.pool_size", 5)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("report.cache_ttl", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("seed.value", 42)

	lifetime, err := time.ParseDuration(v.GetString("database.conn_max_lifetime"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid connection max lifetime: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("report.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	seedValue, err := cast.ToUint64E(v.Get("seed.value"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid seed value: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		DatabaseDriver:   strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:      v.GetString("database.url"),
		DatabaseHost:     v.GetString("database.host"),
		DatabasePort:     v.GetString("database.port"),
		DatabaseUser:     v.GetString("database.user"),
		DatabasePassword: v.GetString("database.password"),
		DatabaseName:     v.GetString("database.name"),
		DatabaseSSLMode:  v.GetString("database.sslmode"),
		SQLitePath:       v.GetString("database.sqlite_path"),
		PoolSize:         v.GetInt("database.pool_size"),
		MaxIdleConns:     v.GetInt("database.max_idle"),
		ConnMaxLifetime:  lifetime,
		RedisURL:         v.GetString("redis.url"),
		ReportCacheTTL:   ttl,
		LogLevel:         strings.ToLower(v.GetString("log.level")),
		LogPretty:        v.GetBool("log.pretty"),
		MetricsFile:      v.GetString("metrics.file"),
		SeedValue:        seedValue,
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" && (cfg.DatabaseUser == "" || cfg.DatabaseName == "") {
			return Config{}, ErrMissingDatabase
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return Config{}, ErrMissingDatabase
		}
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 5
	}

	if cfg.MaxIdleConns <= 0 || cfg.MaxIdleConns > cfg.PoolSize {
		cfg.MaxIdleConns = cfg.PoolSize
	}

	return cfg, nil
}
