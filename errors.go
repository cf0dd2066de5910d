package goConsole

import "errors"

var (
	// ErrNotReady is returned while the startup load has not resolved.
	ErrNotReady = errors.New("console not ready")
	// ErrAlreadyAuthenticated is returned by Login when a session is already active.
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	// ErrNotAuthenticated is returned when an operation needs an active session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrRoleNotPermitted is returned when the upstream accepted the credentials but the
	// returned role is not one the console recognizes.
	ErrRoleNotPermitted = errors.New("role not permitted")
	// ErrSessionSaveFailed is returned when a fresh session could not be persisted.
	ErrSessionSaveFailed = errors.New("session save failed")
	// ErrSessionClearFailed is returned when logout could not remove the persisted session.
	ErrSessionClearFailed = errors.New("session clear failed")
	// ErrLoginFailed is returned when the upstream exchange failed.
	ErrLoginFailed = errors.New("login failed")
	// ErrAccessDenied is returned by Open when the route is not navigable.
	ErrAccessDenied = errors.New("access denied")
	// ErrAuthenticatorMissing is returned by Login when no authenticator was configured.
	ErrAuthenticatorMissing = errors.New("authenticator not configured")
)
