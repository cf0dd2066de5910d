package goConsole

import (
	"net/url"
	"sort"
	"time"
)

// SecurityReport summarizes the security-relevant settings a console was built with.
type SecurityReport struct {
	StorageBackend  string
	StorageDurable  bool
	AuthBaseURL     string
	AuthTLS         bool
	AuthTimeout     time.Duration
	Policy          string
	CustomProfiles  bool
	Profiles        map[string][]string
	AuditEnabled    bool
	AuditBlocking   bool
	MetricsEnabled  bool
	LatencyMetrics  bool
	LintHighWarning []string
}

// SecurityReport reports the effective configuration. Profiles lists each role's routes
// as resolved by the active policy.
func (c *Console) SecurityReport() SecurityReport {
	if c == nil {
		return SecurityReport{}
	}

	cfg := c.config
	tls := false
	if u, err := url.Parse(cfg.Auth.BaseURL); err == nil {
		tls = u.Scheme == "https"
	}

	policy := c.controller.Policy()
	profiles := make(map[string][]string, len(policy.Roles()))
	for _, role := range policy.Roles() {
		set, _ := policy.Profile(role)
		routes := set.Routes()
		names := make([]string, len(routes))
		for i, r := range routes {
			names[i] = r.String()
		}
		profiles[role.String()] = names
	}

	high := cfg.Lint().BySeverity(LintHigh).Codes()
	sort.Strings(high)

	return SecurityReport{
		StorageBackend:  cfg.Storage.Backend,
		StorageDurable:  cfg.Storage.Backend != StorageMemory,
		AuthBaseURL:     cfg.Auth.BaseURL,
		AuthTLS:         tls,
		AuthTimeout:     cfg.Auth.Timeout,
		Policy:          policy.Name(),
		CustomProfiles:  len(cfg.Access.Profiles) > 0,
		Profiles:        profiles,
		AuditEnabled:    c.audit != nil,
		AuditBlocking:   c.audit != nil && !cfg.Audit.DropIfFull,
		MetricsEnabled:  c.metrics.Enabled(),
		LatencyMetrics:  c.metrics.LatencyEnabled(),
		LintHighWarning: high,
	}
}
