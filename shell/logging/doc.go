// Package logging builds the application logger from its configured format and level.
//
//	json, text  log/slog handlers
//	console     human readable zerolog output
//	otel        the OpenTelemetry slog bridge on the global LoggerProvider
//
// Every logger it returns satisfies both library.Logger and library.ContextualLogger.
package logging
