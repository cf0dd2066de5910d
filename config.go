package goConsole

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MrEthical07/goConsole/access"
	"github.com/MrEthical07/goConsole/session"
)

// Config is the full console configuration. Build it with [DefaultConfig] and override
// fields; the zero value is not valid.
type Config struct {
	Storage StorageConfig
	Auth    AuthConfig
	Access  AccessConfig
	Audit   AuditConfig
	Metrics MetricsConfig
	Log     LogConfig
}

/*
====================================
STORAGE CONFIG
====================================
*/

// Storage backend names accepted by [StorageConfig.Backend].
const (
	StorageBolt   = "bolt"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// StorageConfig selects where the session slot lives.
type StorageConfig struct {
	Backend string // "bolt" (default), "redis", or "memory"
	Key     string

	BoltPath    string
	BoltBucket  string
	BoltTimeout time.Duration

	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

/*
====================================
AUTH CONFIG
====================================
*/

// AuthConfig points at the upstream admin-login endpoint.
type AuthConfig struct {
	BaseURL   string
	LoginPath string
	Timeout   time.Duration
}

/*
====================================
ACCESS CONFIG
====================================
*/

// AccessConfig selects the role profile table. When Profiles is non-empty it replaces
// the preset named by Policy.
type AccessConfig struct {
	Policy   string // "standard" (default) or "extended"
	Profiles map[string][]string
}

/*
====================================
AUDIT / METRICS / LOG CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// LogConfig is consumed by the CLI when it builds its zap logger.
type LogConfig struct {
	Level  string
	Format string // "console" or "json"
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:     StorageBolt,
			Key:         session.DefaultKey,
			BoltPath:    "goconsole.db",
			BoltBucket:  session.DefaultBoltBucket,
			BoltTimeout: time.Second,
			RedisAddr:   "127.0.0.1:6379",
			RedisPrefix: "goconsole",
		},
		Auth: AuthConfig{
			BaseURL:   "https://mpe-backend-server.onrender.com",
			LoginPath: "/api/auth/admin-login",
			Timeout:   15 * time.Second,
		},
		Access: AccessConfig{
			Policy: "standard",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Access.Profiles != nil {
		out.Access.Profiles = make(map[string][]string, len(cfg.Access.Profiles))
		for role, routes := range cfg.Access.Profiles {
			out.Access.Profiles[role] = append([]string(nil), routes...)
		}
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	// Storage
	switch c.Storage.Backend {
	case StorageBolt:
		if strings.TrimSpace(c.Storage.BoltPath) == "" {
			return errors.New("Storage BoltPath must be set for the bolt backend")
		}
		if c.Storage.BoltTimeout < 0 {
			return errors.New("Storage BoltTimeout must be >= 0")
		}
	case StorageRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return errors.New("Storage RedisAddr must be set for the redis backend")
		}
		if c.Storage.RedisDB < 0 {
			return errors.New("Storage RedisDB must be >= 0")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("Storage Key must not be empty")
	}

	// Auth
	u, err := url.Parse(c.Auth.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("Auth BaseURL %q is not an absolute URL", c.Auth.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("Auth BaseURL must use http or https")
	}
	if !strings.HasPrefix(c.Auth.LoginPath, "/") {
		return errors.New("Auth LoginPath must start with /")
	}
	if c.Auth.Timeout <= 0 {
		return errors.New("Auth Timeout must be > 0")
	}

	// Access
	if _, err := c.accessPolicy(); err != nil {
		return err
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}

func (c *Config) accessPolicy() (*access.Policy, error) {
	if len(c.Access.Profiles) > 0 {
		name := c.Access.Policy
		if name == "" {
			name = "custom"
		}
		return access.ParsePolicy(name, c.Access.Profiles)
	}
	return access.PolicyByName(c.Access.Policy)
}
