// Package authapi talks to the upstream admin API: the admin-login exchange that yields a
// session record, and a RoundTripper that signs later calls with the bearer token.
//
// The client never retries. A non-2xx login response is reported as *[APIError], which
// matches [ErrLoginRejected]; a 2xx body that is not a well-formed session record is
// [ErrInvalidResponse].
package authapi
