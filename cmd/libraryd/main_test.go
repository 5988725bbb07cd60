package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/university-library-go/shell/config"
)

func Test_VersionCmd_ShouldPrintTheVersion(t *testing.T) {
	// arrange
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	// act
	err := root.Execute()

	// assert
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "libraryd "+version())
}

func Test_MigrateCmd_ShouldCreateTheSchema(t *testing.T) {
	// arrange
	dsn := "file:" + filepath.Join(t.TempDir(), "library.db")
	root := newRootCmd()
	var logs bytes.Buffer
	root.SetErr(&logs)
	root.SetArgs([]string{
		"migrate",
		"--" + config.FlagConfigFile, "",
		"--" + config.FlagEnvFile, "",
		"--" + config.FlagDBDriver, config.DriverSQLite,
		"--" + config.FlagDBDSN, dsn,
	})

	// act
	err := root.Execute()

	// assert
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "schema migrated")

	cfg := config.Default()
	cfg.DBDSN = dsn
	store, err := config.OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	books, err := store.Books().GetAll(context.Background())
	assert.NoError(t, err, "Should find the books table")
	assert.Empty(t, books)
}

func Test_MigrateCmd_ShouldFail_WithUnknownDriver(t *testing.T) {
	// arrange
	root := newRootCmd()
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"migrate",
		"--" + config.FlagConfigFile, "",
		"--" + config.FlagEnvFile, "",
		"--" + config.FlagDBDriver, "oracle",
	})

	// act
	err := root.Execute()

	// assert
	assert.ErrorIs(t, err, config.ErrUnknownDriver)
}

func Test_BuildServices_ShouldWireEveryService(t *testing.T) {
	// arrange
	cfg := config.Default()
	cfg.DBDSN = "file:" + filepath.Join(t.TempDir(), "library.db")
	store, err := config.OpenStore(context.Background(), cfg)
	require.NoError(t, err, "error in arranging test data")
	defer func() { _ = store.Close() }()

	obs := newObservability(nil, true)

	// act
	services, err := buildServices(store, obs)

	// assert
	require.NoError(t, err)
	assert.NotNil(t, services.Books)
	assert.NotNil(t, services.Loans)
	assert.NotNil(t, services.Decommission)
	assert.NotNil(t, services.Preview)
	assert.NotNil(t, services.Health)
	assert.NotNil(t, obs.Metrics, "Should export metrics when telemetry is on")
	assert.NotNil(t, obs.Tracing, "Should export traces when telemetry is on")
}
