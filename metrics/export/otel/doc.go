// Package otel publishes console metrics as OpenTelemetry observable instruments.
//
// Counters are grouped by concern and told apart by attributes rather than one
// instrument per counter: startup loads carry an "outcome" (present, absent, malformed,
// unavailable), logins a "result", storage failures an "op". Load latency is exposed as
// cumulative bucket gauges keyed by "le", and when the source is a console the current
// lifecycle state is a 0/1 gauge keyed by "state". One callback reads a snapshot per
// collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate console state.
package otel
