// Package session provides the persisted credential slot of the admin console: the
// [Record] model, its JSON codec, and a single-key [Store] over pluggable backends.
//
// # Storage model
//
// Exactly one [Record] is stored under one well-known key. [Store.Save] overwrites it with
// a single backend write, [Store.Clear] deletes it idempotently, and [Store.Load] reads it
// back. A value that cannot be decoded into a well-formed record is reported as absent,
// never as a partial session.
//
// # Backends
//
//   - [BoltBackend]: a bbolt file on the operator's machine (default).
//   - [RedisBackend]: a Redis key, for shared workstations.
//   - [MemoryBackend]: process-local, for tests and throwaway runs.
//
// # What this package must NOT do
//
//   - Import goConsole or access (no upward imports).
//   - Decide which roles are recognized; that belongs to the access controller.
//   - Call the upstream API or interpret the token.
package session
