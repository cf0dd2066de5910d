package goConsole

import (
	"errors"
	"fmt"

	"github.com/MrEthical07/goConsole/access"
	"github.com/MrEthical07/goConsole/authapi"
	"github.com/MrEthical07/goConsole/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder assembles a [Console]. A Builder may be used once.
type Builder struct {
	config Config

	backend session.Backend
	redis   redis.UniversalClient
	auth    Authenticator
	policy  *access.Policy

	logger    *zap.Logger
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBackend supplies the session backend directly; Storage config is then ignored and
// the caller keeps ownership of the backend.
func (b *Builder) WithBackend(backend session.Backend) *Builder {
	b.backend = backend
	return b
}

// WithRedis supplies the client for the redis storage backend instead of dialing
// Storage.RedisAddr. The caller keeps ownership of the client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuthenticator replaces the authapi client built from the Auth config.
func (b *Builder) WithAuthenticator(a Authenticator) *Builder {
	b.auth = a
	return b
}

// WithPolicy replaces the policy selected by the Access config.
func (b *Builder) WithPolicy(p *access.Policy) *Builder {
	b.policy = p
	return b
}

func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, opens storage when no backend was supplied, and
// returns a Console that has not started loading yet.
func (b *Builder) Build() (*Console, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	policy := b.policy
	if policy == nil {
		p, err := cfg.accessPolicy()
		if err != nil {
			return nil, err
		}
		policy = p
	}

	auth := b.auth
	if auth == nil {
		client, err := authapi.NewClient(authapi.Config{
			BaseURL:   cfg.Auth.BaseURL,
			LoginPath: cfg.Auth.LoginPath,
			Timeout:   cfg.Auth.Timeout,
		})
		if err != nil {
			return nil, err
		}
		auth = client
	}

	// -------- SESSION STORE --------
	var closers []func() error
	backend := b.backend
	if backend == nil {
		opened, closer, err := b.openBackend(cfg.Storage)
		if err != nil {
			return nil, err
		}
		backend = opened
		if closer != nil {
			closers = append(closers, closer)
		}
	}

	c := &Console{
		config:     cfg,
		store:      session.NewStore(backend, cfg.Storage.Key),
		controller: access.NewController(policy),
		auth:       auth,
		logger:     logger.Named("console"),
		metrics:    NewMetrics(cfg.Metrics),
		closers:    closers,
		ready:      make(chan struct{}),
	}
	c.audit = newAuditDispatcher(cfg.Audit, b.auditSink, logger)

	b.built = true

	return c, nil
}

func (b *Builder) openBackend(cfg StorageConfig) (session.Backend, func() error, error) {
	switch cfg.Backend {
	case StorageBolt:
		bolt, err := session.OpenBolt(cfg.BoltPath, cfg.BoltBucket, cfg.BoltTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		return bolt, bolt.Close, nil
	case StorageRedis:
		if b.redis != nil {
			return session.NewRedisBackend(b.redis, cfg.RedisPrefix), nil, nil
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:      []string{cfg.RedisAddr},
			DB:         cfg.RedisDB,
			MaxRetries: -1,
		})
		return session.NewRedisBackend(client, cfg.RedisPrefix), client.Close, nil
	case StorageMemory:
		return session.NewMemoryBackend(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
