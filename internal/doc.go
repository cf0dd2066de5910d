// Package internal holds packages that are private to goConsole.
//
// # Sub-packages
//
//   - logger: zap construction for the goconsole command
//   - mockapi: local admin-login backend for tests and the mock-backend example
//
// # What this package must NOT do
//
//   - Export types that appear in the public goConsole API.
package internal
