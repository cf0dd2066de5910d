// Package prometheus exposes console counters as a prometheus/client_golang Collector.
//
// [NewPrometheusExporter] wraps a [goConsole.Console]; register the exporter with any
// [prometheus.Registerer], or mount [PrometheusExporter.Handler], which serves a private
// registry holding only console metrics. Counter names are goconsole_*_total; the single
// histogram is goconsole_load_latency_seconds.
//
// # What this package must NOT do
//
//   - Register anything in the global default registry.
//   - Mutate console state.
package prometheus
