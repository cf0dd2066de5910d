// Package access derives what the console may show from the current session: the
// navigable route set, the initial route, and a capability check.
//
// # Model
//
// [Role] and [Route] are closed enums. A [Policy] maps each recognized role to a
// [RouteSet] (a 64-bit mask indexed by route ordinal, iterated in drawer order). The
// [Controller] turns a session record into a [View]; it is pure and total.
//
// # Fail closed
//
// An absent record, an empty token, or a role that is not exactly one of the recognized
// values all resolve to the same unauthenticated view: initial route Login, navigable set
// {Login}. There is no partially trusted state.
//
// # What this package must NOT do
//
//   - Perform I/O of any kind.
//   - Import goConsole (no upward imports).
//   - Treat role names case-insensitively or by prefix.
package access
