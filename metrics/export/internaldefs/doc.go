// Package internaldefs holds the metric names, help strings, and bucket bounds shared by
// the exporters, so the otel and prometheus renditions of a counter always agree.
//
// # What this package must NOT do
//
//   - Import an exporter package.
//   - Perform I/O.
package internaldefs
