package goConsole

import (
	"net"
	"net/url"
)

// LintSeverity grades a [LintWarning].
type LintSeverity uint8

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is a configuration that is valid but probably not intended.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintWarnings is the result of [Config.Lint].
type LintWarnings []LintWarning

// Codes lists the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Code
	}
	return out
}

// BySeverity keeps the warnings at or above min.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	var out LintWarnings
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// Lint inspects a valid config for risky combinations. It never fails.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings

	if u, err := url.Parse(c.Auth.BaseURL); err == nil && u.Scheme == "http" && !isLoopbackHost(u.Hostname()) {
		ws = append(ws, LintWarning{
			Code:     "auth_plaintext_url",
			Severity: LintHigh,
			Message:  "credentials and bearer tokens are sent over plain http",
		})
	}

	if c.Storage.Backend == StorageMemory {
		ws = append(ws, LintWarning{
			Code:     "storage_memory",
			Severity: LintWarn,
			Message:  "sessions are lost when the process exits",
		})
	}

	if c.Access.Policy == "extended" && len(c.Access.Profiles) == 0 {
		ws = append(ws, LintWarning{
			Code:     "policy_extended",
			Severity: LintInfo,
			Message:  "super-admins can also reach Bookings",
		})
	}

	if len(c.Access.Profiles) > 0 {
		ws = append(ws, LintWarning{
			Code:     "policy_custom",
			Severity: LintInfo,
			Message:  "role profiles come from configuration instead of a preset",
		})
	}

	if c.Audit.Enabled && !c.Audit.DropIfFull {
		ws = append(ws, LintWarning{
			Code:     "audit_blocking",
			Severity: LintWarn,
			Message:  "a slow audit sink will block login and logout",
		})
	}

	return ws
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
