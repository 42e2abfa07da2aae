// Package config resolves tempo's runtime settings: defaults, then an
// optional YAML file, then TEMPO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/alexanderramin/tempo/internal/db"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for ~/.tempo/config.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Timezone string         `yaml:"timezone"` // IANA name; "today" and completion dates use it
	User     string         `yaml:"user"`     // default user for session commands
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "postgres"
	DSN    string `yaml:"dsn"`    // file path for sqlite, connection string for postgres
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level    string `yaml:"level"`  // debug | info | warn | error
	Format   string `yaml:"format"` // text | json
	UseCases bool   `yaml:"use_cases"`
}

const (
	configDir  = ".tempo"
	configFile = "config.yaml"
	dbFile     = "tempo.db"
)

// DefaultConfig returns a Config populated with defaults. home may be empty,
// in which case the database lives in the working directory.
func DefaultConfig(home string) Config {
	dsn := dbFile
	if home != "" {
		dsn = filepath.Join(home, configDir, dbFile)
	}
	return Config{
		Database: DatabaseConfig{Driver: string(db.DriverSQLite), DSN: dsn},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Log:      LogConfig{Level: "warn", Format: "text"},
		Timezone: "Local",
	}
}

// Load builds the effective configuration. The file named by TEMPO_CONFIG
// must exist; the default ~/.tempo/config.yaml is read only if present.
func Load() (Config, error) {
	home, _ := os.UserHomeDir()
	cfg := DefaultConfig(home)

	path := os.Getenv("TEMPO_CONFIG")
	explicit := path != ""
	if !explicit && home != "" {
		path = filepath.Join(home, configDir, configFile)
	}
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TEMPO_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("TEMPO_DB"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("TEMPO_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("TEMPO_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("TEMPO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TEMPO_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TEMPO_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.UseCases = b
		}
	}
	if v := os.Getenv("TEMPO_USER"); v != "" {
		cfg.User = v
	}
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if _, err := db.ParseDriver(c.Database.Driver); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Driver returns the parsed database driver.
func (c Config) Driver() db.Driver {
	d, _ := db.ParseDriver(c.Database.Driver)
	return d
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Logger builds the process logger writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
