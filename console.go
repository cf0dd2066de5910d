package goConsole

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MrEthical07/goConsole/access"
	"github.com/MrEthical07/goConsole/authapi"
	"github.com/MrEthical07/goConsole/session"
	"go.uber.org/zap"
)

// Console owns the session cell: the single startup load, the published view, and the
// login and logout transitions. Build one with [New].
type Console struct {
	config     Config
	store      *session.Store
	controller *access.Controller
	auth       Authenticator
	logger     *zap.Logger
	metrics    *Metrics
	audit      *auditDispatcher
	closers    []func() error

	startOnce sync.Once
	ready     chan struct{}

	// opMu serializes Login and Logout; mu guards the published state.
	opMu   sync.Mutex
	mu     sync.RWMutex
	view   access.View
	record *session.Record
}

// Start launches the startup load. Only the first call has any effect. The load is
// detached from ctx: cancelling ctx does not abort it.
func (c *Console) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.startOnce.Do(func() {
		go c.load(context.WithoutCancel(ctx))
	})
}

// Ready is closed once the startup load has resolved.
func (c *Console) Ready() <-chan struct{} {
	return c.ready
}

// Await blocks until the startup load resolves and returns the resulting view. It
// fails only when ctx ends first; load failures resolve to the unauthenticated view.
func (c *Console) Await(ctx context.Context) (access.View, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-c.ready:
		return c.View(), nil
	case <-ctx.Done():
		return access.View{}, ctx.Err()
	}
}

// View returns the current view. Before the load resolves it is the zero
// (Initializing) view, which grants nothing.
func (c *Console) View() access.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// CanAccess gates route against the current view.
func (c *Console) CanAccess(route access.Route) bool {
	return c.controller.CanAccess(c.View(), route)
}

// Open is the navigation gate: it returns the current view when route is navigable and
// [ErrAccessDenied] otherwise. Denials are counted and audited.
func (c *Console) Open(ctx context.Context, route access.Route) (access.View, error) {
	view := c.View()
	if c.controller.CanAccess(view, route) {
		return view, nil
	}

	c.metricInc(MetricAccessDenied)
	c.logger.Info("route denied", zap.Stringer("route", route), zap.Stringer("state", view.State))
	c.emitAudit(ctx, auditEventAccessDenied, false, c.currentUser(), ErrAccessDenied, func(e *AuditEvent) {
		e.Route = route.String()
	})
	if view.State == access.StateInitializing {
		return view, fmt.Errorf("%w: %w", ErrAccessDenied, ErrNotReady)
	}
	return view, fmt.Errorf("%w: %s", ErrAccessDenied, route)
}

// Token returns the bearer token while authenticated. It satisfies authapi.TokenSource.
func (c *Console) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.view.Authenticated || c.record == nil {
		return "", false
	}
	return c.record.Token, true
}

// AuthorizedClient returns an HTTP client that sends the session's bearer token on every
// request. It fails with [ErrNotAuthenticated] when no session is active; requests made
// after a later logout fail with authapi.ErrNoSession.
func (c *Console) AuthorizedClient() (*http.Client, error) {
	if _, ok := c.Token(); !ok {
		return nil, ErrNotAuthenticated
	}
	return authapi.NewAuthorizedClient(c), nil
}

// User returns the operator identity while authenticated.
func (c *Console) User() (session.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.view.Authenticated || c.record == nil {
		return session.User{}, false
	}
	return c.record.User, true
}

// Status summarizes the current view for display.
func (c *Console) Status() Status {
	view := c.View()
	user, _ := c.User()

	menu := view.MenuRoutes()
	names := make([]string, len(menu))
	for i, r := range menu {
		names[i] = r.String()
	}

	st := Status{
		State:    view.State.String(),
		Role:     view.Role.String(),
		UserID:   user.ID,
		UserName: user.Name,
		Email:    user.Email,
		Menu:     names,
	}
	if view.State != access.StateInitializing {
		st.InitialRoute = view.InitialRoute.String()
	}
	return st
}

// Login exchanges credentials upstream, persists the returned record, and publishes the
// authenticated view. It is only valid from the unauthenticated state. A record whose
// role is not recognized is neither saved nor published.
func (c *Console) Login(ctx context.Context, email, password string) (access.View, error) {
	if c.auth == nil {
		return c.View(), ErrAuthenticatorMissing
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	current := c.View()
	switch {
	case current.State == access.StateInitializing:
		return current, ErrNotReady
	case current.Authenticated:
		return current, ErrAlreadyAuthenticated
	}

	rec, err := c.auth.Login(ctx, email, password)
	if err != nil {
		c.metricInc(MetricLoginFailure)
		c.logger.Info("login failed", zap.String("email", email), zap.Error(err))
		c.emitAudit(ctx, auditEventLoginFailure, false, session.User{Email: email}, err, nil)
		return current, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	view := c.controller.Resolve(rec)
	if !view.Authenticated {
		c.metricInc(MetricRoleRejected)
		c.metricInc(MetricLoginFailure)
		c.logger.Warn("login returned unrecognized role", zap.String("email", email), zap.String("role", roleOf(rec)))
		c.emitAudit(ctx, auditEventLoginFailure, false, userOf(rec), ErrRoleNotPermitted, nil)
		return current, fmt.Errorf("%w: %q", ErrRoleNotPermitted, roleOf(rec))
	}

	if err := c.store.Save(ctx, rec); err != nil {
		c.metricInc(MetricSessionSaveFailure)
		c.metricInc(MetricLoginFailure)
		c.logger.Warn("session save failed", zap.Error(err))
		c.emitAudit(ctx, auditEventLoginFailure, false, rec.User, err, nil)
		return current, fmt.Errorf("%w: %w", ErrSessionSaveFailed, err)
	}

	c.publish(view, rec)
	c.metricInc(MetricLoginSuccess)
	c.logger.Info("login", zap.String("user_id", rec.User.ID), zap.Stringer("role", view.Role))
	c.emitAudit(ctx, auditEventLoginSuccess, true, rec.User, nil, nil)

	return view, nil
}

// Logout clears the persisted record and publishes the unauthenticated view. The view
// is dropped even when the clear fails; that failure is returned wrapped in
// [ErrSessionClearFailed] so the caller can report it.
func (c *Console) Logout(ctx context.Context) (access.View, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.View().State == access.StateInitializing {
		return access.View{}, ErrNotReady
	}

	prev := c.currentUser()
	clearErr := c.store.Clear(ctx)

	view := c.controller.Resolve(nil)
	c.publish(view, nil)
	c.metricInc(MetricLogout)

	if clearErr != nil {
		c.metricInc(MetricSessionClearFailure)
		c.logger.Warn("session clear failed", zap.Error(clearErr))
		c.emitAudit(ctx, auditEventLogout, false, prev, clearErr, nil)
		return view, fmt.Errorf("%w: %w", ErrSessionClearFailed, clearErr)
	}

	c.logger.Info("logout", zap.String("user_id", prev.ID))
	c.emitAudit(ctx, auditEventLogout, true, prev, nil, nil)
	return view, nil
}

// Close stops the audit dispatcher and releases storage the console opened itself.
func (c *Console) Close() error {
	if c == nil {
		return nil
	}
	if c.audit != nil {
		c.audit.Close()
	}

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// AuditDropped reports events lost to a full audit buffer.
func (c *Console) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

// MetricsSnapshot copies the console counters.
func (c *Console) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// Policy returns the role profile table in use.
func (c *Console) Policy() *access.Policy {
	return c.controller.Policy()
}

func (c *Console) load(ctx context.Context) {
	start := time.Now()

	rec, status, err := c.store.LoadWithStatus(ctx)
	switch {
	case err != nil:
		c.metricInc(MetricSessionUnavailable)
		c.logger.Warn("session storage unavailable, starting unauthenticated", zap.Error(err))
		rec = nil
	case status == session.StatusMalformed:
		c.metricInc(MetricSessionMalformed)
		c.logger.Warn("stored session is malformed, starting unauthenticated", zap.String("key", c.store.Key()))
	case status == session.StatusAbsent:
		c.metricInc(MetricSessionAbsent)
	default:
		c.metricInc(MetricSessionPresent)
	}

	view := c.controller.Resolve(rec)
	if rec != nil && !view.Authenticated {
		c.metricInc(MetricRoleRejected)
		c.logger.Warn("stored session has unrecognized role", zap.String("role", rec.User.Role))
		rec = nil
	}

	c.publish(view, rec)

	if c.metrics != nil {
		c.metrics.Observe(MetricLoadLatency, time.Since(start))
	}
	c.logger.Debug("session loaded", zap.Stringer("state", view.State), zap.String("status", status.String()))
	c.emitAudit(ctx, auditEventSessionLoaded, err == nil, userOf(rec), err, func(e *AuditEvent) {
		e.Metadata = map[string]string{"status": status.String(), "state": view.State.String()}
	})

	close(c.ready)
}

func (c *Console) publish(view access.View, rec *session.Record) {
	c.mu.Lock()
	c.view = view
	c.record = rec
	c.mu.Unlock()
}

func (c *Console) currentUser() session.User {
	u, _ := c.User()
	return u
}

func (c *Console) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

func roleOf(rec *session.Record) string {
	if rec == nil {
		return ""
	}
	return rec.User.Role
}

func userOf(rec *session.Record) session.User {
	if rec == nil {
		return session.User{}
	}
	return rec.User
}
