package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "LIBRARY_"

// loadDotEnv exports the variables of a .env file. Variables already present in the environment win.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// applyEnvConfig copies every LIBRARY_* variable that is set, skipping flags that were set explicitly.
func applyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newSetter(changed)

	s.setString(FlagHTTPAddr, env("HTTP_ADDR"), &cfg.HTTPAddr)
	s.setStrings(FlagCORSOrigins, splitList(env("CORS_ORIGINS")), &cfg.CORSAllowedOrigin)
	s.setString(FlagDBDriver, env("DB_DRIVER"), &cfg.DBDriver)
	s.setString(FlagDBDSN, env("DB_DSN"), &cfg.DBDSN)
	s.setString(FlagLogFormat, env("LOG_FORMAT"), &cfg.LogFormat)
	s.setString(FlagLogLevel, env("LOG_LEVEL"), &cfg.LogLevel)
	s.setString(FlagOTLPEndpoint, env("OTLP_ENDPOINT"), &cfg.OTLPEndpoint)
	s.setString(FlagServiceName, env("SERVICE_NAME"), &cfg.ServiceName)

	if err := s.setIntFromString(FlagDBMaxOpenConns, env("DB_MAX_OPEN_CONNS"), &cfg.DBMaxOpenConns); err != nil {
		return err
	}

	if err := s.setIntFromString(FlagDBMaxIdleConns, env("DB_MAX_IDLE_CONNS"), &cfg.DBMaxIdleConns); err != nil {
		return err
	}

	if err := s.setBoolFromString(FlagMigrate, env("MIGRATE_ON_START"), &cfg.MigrateOnStart); err != nil {
		return err
	}

	durations := []struct {
		flag string
		name string
		dst  *time.Duration
	}{
		{FlagReadTimeout, "READ_TIMEOUT", &cfg.ReadTimeout},
		{FlagWriteTimeout, "WRITE_TIMEOUT", &cfg.WriteTimeout},
		{FlagIdleTimeout, "IDLE_TIMEOUT", &cfg.IdleTimeout},
		{FlagShutdownTimeout, "SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
		{FlagDBConnLifetime, "DB_CONN_LIFETIME", &cfg.DBConnLifetime},
		{FlagDBConnIdleTime, "DB_CONN_IDLE_TIME", &cfg.DBConnIdleTime},
	}

	for _, d := range durations {
		if err := s.setDuration(d.flag, env(d.name), d.dst); err != nil {
			return err
		}
	}

	return nil
}

func env(name string) string {
	return os.Getenv(EnvPrefix + name)
}
