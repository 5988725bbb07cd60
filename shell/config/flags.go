package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names. File and environment values never override a flag that was set explicitly.
const (
	FlagConfigFile      = "config"
	FlagEnvFile         = "env-file"
	FlagHTTPAddr        = "http-addr"
	FlagReadTimeout     = "read-timeout"
	FlagWriteTimeout    = "write-timeout"
	FlagIdleTimeout     = "idle-timeout"
	FlagShutdownTimeout = "shutdown-timeout"
	FlagCORSOrigins     = "cors-origins"
	FlagDBDriver        = "db-driver"
	FlagDBDSN           = "db-dsn"
	FlagDBMaxOpenConns  = "db-max-open-conns"
	FlagDBMaxIdleConns  = "db-max-idle-conns"
	FlagDBConnLifetime  = "db-conn-lifetime"
	FlagDBConnIdleTime  = "db-conn-idle-time"
	FlagMigrate         = "migrate"
	FlagLogFormat       = "log-format"
	FlagLogLevel        = "log-level"
	FlagOTLPEndpoint    = "otlp-endpoint"
	FlagServiceName     = "service-name"

	defaultConfigFile = "library.toml"
	defaultEnvFile    = ".env"
)

// Loader binds the configuration to a flag set and layers the other sources under it.
type Loader struct {
	cfg        *Config
	flags      *pflag.FlagSet
	configFile string
	envFile    string
}

// NewLoader registers all flags on flags, with the values of Default as defaults.
func NewLoader(flags *pflag.FlagSet) *Loader {
	cfg := Default()
	l := &Loader{cfg: &cfg, flags: flags}

	flags.StringVar(&l.configFile, FlagConfigFile, defaultConfigFile, "path of the TOML config file, skipped if missing")
	flags.StringVar(&l.envFile, FlagEnvFile, defaultEnvFile, "path of a .env file, skipped if missing")
	flags.StringVar(&cfg.HTTPAddr, FlagHTTPAddr, cfg.HTTPAddr, "HTTP listen address")
	flags.DurationVar(&cfg.ReadTimeout, FlagReadTimeout, cfg.ReadTimeout, "HTTP read timeout")
	flags.DurationVar(&cfg.WriteTimeout, FlagWriteTimeout, cfg.WriteTimeout, "HTTP write timeout")
	flags.DurationVar(&cfg.IdleTimeout, FlagIdleTimeout, cfg.IdleTimeout, "HTTP idle timeout")
	flags.DurationVar(&cfg.ShutdownTimeout, FlagShutdownTimeout, cfg.ShutdownTimeout, "grace period for in-flight requests")
	flags.StringSliceVar(&cfg.CORSAllowedOrigin, FlagCORSOrigins, cfg.CORSAllowedOrigin, "allowed CORS origins")
	flags.StringVar(&cfg.DBDriver, FlagDBDriver, cfg.DBDriver, "database driver: pgx, postgres, sqlx or sqlite")
	flags.StringVar(&cfg.DBDSN, FlagDBDSN, cfg.DBDSN, "database DSN")
	flags.IntVar(&cfg.DBMaxOpenConns, FlagDBMaxOpenConns, cfg.DBMaxOpenConns, "maximum open database connections")
	flags.IntVar(&cfg.DBMaxIdleConns, FlagDBMaxIdleConns, cfg.DBMaxIdleConns, "maximum idle database connections")
	flags.DurationVar(&cfg.DBConnLifetime, FlagDBConnLifetime, cfg.DBConnLifetime, "maximum lifetime of a database connection")
	flags.DurationVar(&cfg.DBConnIdleTime, FlagDBConnIdleTime, cfg.DBConnIdleTime, "maximum idle time of a database connection")
	flags.BoolVar(&cfg.MigrateOnStart, FlagMigrate, cfg.MigrateOnStart, "create missing tables and indexes on start")
	flags.StringVar(&cfg.LogFormat, FlagLogFormat, cfg.LogFormat, "log format: json, text, console or otel")
	flags.StringVar(&cfg.LogLevel, FlagLogLevel, cfg.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&cfg.OTLPEndpoint, FlagOTLPEndpoint, cfg.OTLPEndpoint, "OTLP gRPC endpoint, telemetry export is off if empty")
	flags.StringVar(&cfg.ServiceName, FlagServiceName, cfg.ServiceName, "service name reported to telemetry")

	return l
}

// Load layers the config file, the .env file and the environment under the parsed flags, then validates.
func (l *Loader) Load() (Config, error) {
	changed := map[string]bool{}
	l.flags.Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if l.configFile != "" && fileExists(l.configFile) {
		fc, err := loadFileConfig(l.configFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", l.configFile, err)
		}

		if err = applyFileConfig(l.cfg, fc, changed); err != nil {
			return Config{}, err
		}
	}

	if err := loadDotEnv(l.envFile); err != nil {
		return Config{}, fmt.Errorf("load env file %s: %w", l.envFile, err)
	}

	if err := applyEnvConfig(l.cfg, changed); err != nil {
		return Config{}, err
	}

	if err := l.cfg.Validate(); err != nil {
		return Config{}, err
	}

	return *l.cfg, nil
}
