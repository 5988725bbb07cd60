package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/AntonStoeckl/university-library-go/shell/logging"
)

// Supported database drivers.
const (
	DriverPGX      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLX     = "sqlx"
	DriverSQLite   = "sqlite"
)

var (
	ErrUnknownDriver    = errors.New("unknown database driver")
	ErrMissingDSN       = errors.New("database dsn must not be empty")
	ErrInvalidDuration  = errors.New("duration must be positive")
	ErrInvalidPoolSize  = errors.New("pool size must be positive")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidLogLevel  = errors.New("invalid log level")
)

// Config is the complete runtime configuration.
type Config struct {
	HTTPAddr          string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	CORSAllowedOrigin []string

	DBDriver       string
	DBDSN          string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration
	DBConnIdleTime time.Duration
	MigrateOnStart bool

	LogFormat string
	LogLevel  string

	OTLPEndpoint string
	ServiceName  string
}

// Default returns a configuration that serves on :8080 from a local SQLite file.
func Default() Config {
	return Config{
		HTTPAddr:          ":8080",
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		CORSAllowedOrigin: []string{"*"},

		DBDriver:       DriverSQLite,
		DBDSN:          "file:library.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
		DBMaxOpenConns: 10,
		DBMaxIdleConns: 5,
		DBConnLifetime: time.Hour,
		DBConnIdleTime: 5 * time.Minute,
		MigrateOnStart: true,

		LogFormat: logging.FormatJSON,
		LogLevel:  logging.LevelInfo,

		ServiceName: "university-library",
	}
}

// Validate checks the configuration for values the service cannot start with.
func (c Config) Validate() error {
	if !slices.Contains([]string{DriverPGX, DriverPostgres, DriverSQLX, DriverSQLite}, c.DBDriver) {
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DBDriver)
	}

	if strings.TrimSpace(c.DBDSN) == "" {
		return ErrMissingDSN
	}

	durations := map[string]time.Duration{
		"read timeout":     c.ReadTimeout,
		"write timeout":    c.WriteTimeout,
		"idle timeout":     c.IdleTimeout,
		"shutdown timeout": c.ShutdownTimeout,
		"conn lifetime":    c.DBConnLifetime,
		"conn idle time":   c.DBConnIdleTime,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidDuration, name)
		}
	}

	if c.DBMaxOpenConns <= 0 || c.DBMaxIdleConns <= 0 {
		return ErrInvalidPoolSize
	}

	if !slices.Contains([]string{logging.FormatJSON, logging.FormatText, logging.FormatConsole, logging.FormatOTel}, c.LogFormat) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errors.Join(ErrInvalidLogLevel, err)
	}

	return nil
}

// Redacted returns a copy safe to log: the password in the DSN is masked.
func (c Config) Redacted() Config {
	c.DBDSN = redactDSN(c.DBDSN)
	return c
}

func redactDSN(dsn string) string {
	scheme, rest, found := strings.Cut(dsn, "://")
	if !found {
		return dsn
	}

	userInfo, host, found := strings.Cut(rest, "@")
	if !found {
		return dsn
	}

	user, _, hasPassword := strings.Cut(userInfo, ":")
	if !hasPassword {
		return dsn
	}

	return scheme + "://" + user + ":*****@" + host
}

// setter writes a value unless the flag of the same name was set explicitly on the command line.
type setter struct {
	changed map[string]bool
}

func newSetter(changed map[string]bool) setter {
	return setter{changed: changed}
}

func (s setter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}

	*dst = value
}

func (s setter) setStrings(flag string, values []string, dst *[]string) {
	if len(values) == 0 || s.changed[flag] {
		return
	}

	*dst = values
}

func (s setter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}

	*dst = value
}

func (s setter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}

	s.setInt(flag, i, dst)

	return nil
}

func (s setter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}

	*dst = d

	return nil
}

func (s setter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}

	*dst = *value
}

func (s setter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}

	*dst = b

	return nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))

	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}

	return list
}
