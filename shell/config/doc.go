// Package config holds the runtime configuration of the library service and builds the
// infrastructure it describes: the database pool behind the storage engine and the OpenTelemetry providers.
//
// Values are layered, later sources winning: Default, the TOML file, a .env file, LIBRARY_* environment
// variables, and finally command line flags that were set explicitly.
package config
