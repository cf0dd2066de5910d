// Package goConsole is the session core of the restaurant-booking admin console: it
// loads the persisted operator credential once at startup, resolves it into an
// [access.View], and runs the login and logout transitions.
//
// [Console] methods are safe to call from multiple goroutines after [Builder.Build].
//
// # Architecture boundaries
//
// goConsole owns the session cell and the UI-level state machine. Persistence lives in
// the session package, role and route decisions in the access package, and the upstream
// admin-login exchange behind the [Authenticator] interface (implemented by authapi).
//
// # What this package must NOT do
//
//   - Grant any route before the startup load resolves.
//   - Leave an authenticated view in memory after Logout, even when the clear fails.
//   - Persist a record whose role the access policy does not recognize.
//   - Retry storage or upstream calls.
package goConsole
