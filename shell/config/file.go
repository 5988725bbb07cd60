package config

import (
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config with TOML friendly types. Durations are strings like "15s".
type fileConfig struct {
	HTTP struct {
		Addr            string   `toml:"addr"`
		ReadTimeout     string   `toml:"read_timeout"`
		WriteTimeout    string   `toml:"write_timeout"`
		IdleTimeout     string   `toml:"idle_timeout"`
		ShutdownTimeout string   `toml:"shutdown_timeout"`
		CORSOrigins     []string `toml:"cors_origins"`
	} `toml:"http"`

	Database struct {
		Driver         string `toml:"driver"`
		DSN            string `toml:"dsn"`
		MaxOpenConns   int    `toml:"max_open_conns"`
		MaxIdleConns   int    `toml:"max_idle_conns"`
		ConnLifetime   string `toml:"conn_lifetime"`
		ConnIdleTime   string `toml:"conn_idle_time"`
		MigrateOnStart *bool  `toml:"migrate_on_start"`
	} `toml:"database"`

	Log struct {
		Format string `toml:"format"`
		Level  string `toml:"level"`
	} `toml:"log"`

	Telemetry struct {
		OTLPEndpoint string `toml:"otlp_endpoint"`
		ServiceName  string `toml:"service_name"`
	} `toml:"telemetry"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig

	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	if err = toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}

	return fc, nil
}

// applyFileConfig copies every value present in fc, skipping flags that were set explicitly.
func applyFileConfig(cfg *Config, fc fileConfig, changed map[string]bool) error {
	s := newSetter(changed)

	s.setString(FlagHTTPAddr, fc.HTTP.Addr, &cfg.HTTPAddr)
	s.setStrings(FlagCORSOrigins, fc.HTTP.CORSOrigins, &cfg.CORSAllowedOrigin)
	s.setString(FlagDBDriver, fc.Database.Driver, &cfg.DBDriver)
	s.setString(FlagDBDSN, fc.Database.DSN, &cfg.DBDSN)
	s.setInt(FlagDBMaxOpenConns, fc.Database.MaxOpenConns, &cfg.DBMaxOpenConns)
	s.setInt(FlagDBMaxIdleConns, fc.Database.MaxIdleConns, &cfg.DBMaxIdleConns)
	s.setBool(FlagMigrate, fc.Database.MigrateOnStart, &cfg.MigrateOnStart)
	s.setString(FlagLogFormat, fc.Log.Format, &cfg.LogFormat)
	s.setString(FlagLogLevel, fc.Log.Level, &cfg.LogLevel)
	s.setString(FlagOTLPEndpoint, fc.Telemetry.OTLPEndpoint, &cfg.OTLPEndpoint)
	s.setString(FlagServiceName, fc.Telemetry.ServiceName, &cfg.ServiceName)

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{FlagReadTimeout, fc.HTTP.ReadTimeout, &cfg.ReadTimeout},
		{FlagWriteTimeout, fc.HTTP.WriteTimeout, &cfg.WriteTimeout},
		{FlagIdleTimeout, fc.HTTP.IdleTimeout, &cfg.IdleTimeout},
		{FlagShutdownTimeout, fc.HTTP.ShutdownTimeout, &cfg.ShutdownTimeout},
		{FlagDBConnLifetime, fc.Database.ConnLifetime, &cfg.DBConnLifetime},
		{FlagDBConnIdleTime, fc.Database.ConnIdleTime, &cfg.DBConnIdleTime},
	}

	for _, d := range durations {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
