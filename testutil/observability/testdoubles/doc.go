// Package testdoubles provides spies for the observability interfaces of package library.
//
//   - ContextualLoggerSpy: captures context-aware log calls
//   - MetricsCollectorSpy: captures durations, counters and values with their labels
//   - TracingCollectorSpy: captures started and finished spans
//
// All spies are safe for concurrent use.
package testdoubles
