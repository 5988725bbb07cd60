// Package oteladapters implements the library observability interfaces on top of OpenTelemetry.
//
//   - MetricsCollector maps durations to histograms, counters to counters and values to gauges.
//   - TracingCollector opens one span per operation and maps the operation status to a span status.
//   - SlogBridgeLogger and OTelLogger emit log records correlated with the active span.
//
// All adapters are safe for concurrent use.
package oteladapters
