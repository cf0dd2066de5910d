package goConsole

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goConsole/access"
	"github.com/MrEthical07/goConsole/authapi"
	"github.com/MrEthical07/goConsole/internal/mockapi"
	"github.com/MrEthical07/goConsole/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type gatedBackend struct {
	session.Backend
	gate chan struct{}
	gets atomic.Int32
}

func (g *gatedBackend) Get(ctx context.Context, key string) ([]byte, error) {
	g.gets.Add(1)
	<-g.gate
	return g.Backend.Get(ctx, key)
}

type flakyBackend struct {
	session.Backend
	setErr error
	delErr error
}

func (f *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Backend.Set(ctx, key, value)
}

func (f *flakyBackend) Delete(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	return f.Backend.Delete(ctx, key)
}

func stubAuth(role string) Authenticator {
	return AuthenticatorFunc(func(ctx context.Context, email, password string) (*session.Record, error) {
		return &session.Record{
			Token: "tok-" + email,
			User:  session.User{ID: "u-1", Email: email, Role: role},
		}, nil
	})
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Storage.Backend = StorageMemory
	return cfg
}

func buildTestConsole(t *testing.T, backend session.Backend, auth Authenticator) *Console {
	t.Helper()
	c, err := New().
		WithConfig(testConfig()).
		WithBackend(backend).
		WithAuthenticator(auth).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func startAndAwait(t *testing.T, c *Console) access.View {
	t.Helper()
	c.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := c.Await(ctx)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	return v
}

func seed(t *testing.T, backend session.Backend, raw string) {
	t.Helper()
	if err := backend.Set(context.Background(), session.DefaultKey, []byte(raw)); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestStartWithoutSessionIsLoginOnly(t *testing.T) {
	c := buildTestConsole(t, session.NewMemoryBackend(), stubAuth("admin"))
	v := startAndAwait(t, c)

	if v != access.Unauthenticated() {
		t.Fatalf("expected unauthenticated view, got %+v", v)
	}
	if got := c.MetricsSnapshot().Counters[MetricSessionAbsent]; got != 1 {
		t.Fatalf("expected one absent load, got %d", got)
	}
	if _, ok := c.Token(); ok {
		t.Fatal("no token expected while unauthenticated")
	}
}

func TestStartWithStoredAdmin(t *testing.T) {
	backend := session.NewMemoryBackend()
	seed(t, backend, `{"token":"t","user":{"_id":"u-9","role":"admin"}}`)

	c := buildTestConsole(t, backend, stubAuth("admin"))
	v := startAndAwait(t, c)

	if v.State != access.StateAuthenticatedAsAdmin || v.InitialRoute != access.RouteDashboard {
		t.Fatalf("unexpected view %+v", v)
	}
	if tok, ok := c.Token(); !ok || tok != "t" {
		t.Fatalf("expected stored token, got %q %v", tok, ok)
	}
	if c.CanAccess(access.RouteAdmins) {
		t.Fatal("admin must not reach Admins")
	}
}

func TestStartWithMalformedSessionFailsClosed(t *testing.T) {
	backend := session.NewMemoryBackend()
	seed(t, backend, `{"token":"t"}`)

	c := buildTestConsole(t, backend, stubAuth("admin"))
	v := startAndAwait(t, c)

	if v != access.Unauthenticated() {
		t.Fatalf("expected unauthenticated view, got %+v", v)
	}
	if got := c.MetricsSnapshot().Counters[MetricSessionMalformed]; got != 1 {
		t.Fatalf("expected malformed metric, got %d", got)
	}
}

func TestStartWithUnknownRoleFailsClosed(t *testing.T) {
	backend := session.NewMemoryBackend()
	seed(t, backend, `{"token":"t","user":{"role":"Super-Admin"}}`)

	c := buildTestConsole(t, backend, stubAuth("admin"))
	v := startAndAwait(t, c)

	if v != access.Unauthenticated() {
		t.Fatalf("expected unauthenticated view, got %+v", v)
	}
	if got := c.MetricsSnapshot().Counters[MetricRoleRejected]; got != 1 {
		t.Fatalf("expected role rejection metric, got %d", got)
	}
	if _, ok := c.Token(); ok {
		t.Fatal("token of an unrecognized role must not be exposed")
	}
}

func TestStartWithRedisDownFailsClosed(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	c := buildTestConsole(t, session.NewRedisBackend(rdb, "gc"), stubAuth("admin"))
	v := startAndAwait(t, c)

	if v != access.Unauthenticated() {
		t.Fatalf("expected unauthenticated view, got %+v", v)
	}
	if got := c.MetricsSnapshot().Counters[MetricSessionUnavailable]; got != 1 {
		t.Fatalf("expected unavailable metric, got %d", got)
	}
}

func TestViewIsInitializingUntilLoadResolves(t *testing.T) {
	backend := &gatedBackend{Backend: session.NewMemoryBackend(), gate: make(chan struct{})}
	seed(t, backend.Backend, `{"token":"t","user":{"role":"super-admin"}}`)
	c := buildTestConsole(t, backend, stubAuth("admin"))

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	c.Start(ctx)

	if v := c.View(); v.State != access.StateInitializing {
		t.Fatalf("expected initializing, got %s", v.State)
	}
	for _, r := range access.AllRoutes() {
		if c.CanAccess(r) {
			t.Fatalf("nothing may be reachable before load, got %s", r)
		}
	}
	if _, err := c.Login(context.Background(), "a@b.c", "x"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, err := c.Open(context.Background(), access.RouteDashboard); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady from Open, got %v", err)
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	if _, err := c.Await(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected caller deadline, got %v", err)
	}
	waitCancel()

	cancel()
	close(backend.gate)

	v := startAndAwait(t, c)
	if v.State != access.StateAuthenticatedAsSuperAdmin {
		t.Fatalf("cancelled start context must not abort the load, got %s", v.State)
	}
	if got := backend.gets.Load(); got != 1 {
		t.Fatalf("expected exactly one load, got %d", got)
	}
}

func TestLoginPersistsAndPublishes(t *testing.T) {
	backend := session.NewMemoryBackend()
	c := buildTestConsole(t, backend, stubAuth("super-admin"))
	startAndAwait(t, c)

	v, err := c.Login(context.Background(), "root@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if v.State != access.StateAuthenticatedAsSuperAdmin || c.View() != v {
		t.Fatalf("unexpected view %+v", v)
	}
	if tok, ok := c.Token(); !ok || tok != "tok-root@example.com" {
		t.Fatalf("unexpected token %q", tok)
	}

	rec, err := session.NewStore(backend, "").Load(context.Background())
	if err != nil || rec == nil || rec.User.Role != "super-admin" {
		t.Fatalf("expected persisted record, got %+v %v", rec, err)
	}

	if _, err := c.Login(context.Background(), "root@example.com", "pw"); !errors.Is(err, ErrAlreadyAuthenticated) {
		t.Fatalf("expected ErrAlreadyAuthenticated, got %v", err)
	}
	if got := c.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("expected one login success, got %d", got)
	}
}

func TestLoginUnknownRoleIsNotSaved(t *testing.T) {
	backend := session.NewMemoryBackend()
	c := buildTestConsole(t, backend, stubAuth("editor"))
	startAndAwait(t, c)

	v, err := c.Login(context.Background(), "e@example.com", "pw")
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Fatalf("expected ErrRoleNotPermitted, got %v", err)
	}
	if v != access.Unauthenticated() {
		t.Fatalf("view must stay unauthenticated, got %+v", v)
	}
	if _, err := backend.Get(context.Background(), session.DefaultKey); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("nothing may be persisted, got %v", err)
	}
}

func TestLoginSaveFailureKeepsView(t *testing.T) {
	backend := &flakyBackend{Backend: session.NewMemoryBackend(), setErr: errors.New("disk full")}
	c := buildTestConsole(t, backend, stubAuth("admin"))
	startAndAwait(t, c)

	v, err := c.Login(context.Background(), "a@example.com", "pw")
	if !errors.Is(err, ErrSessionSaveFailed) || !errors.Is(err, session.ErrStorageUnavailable) {
		t.Fatalf("expected wrapped save failure, got %v", err)
	}
	if v.Authenticated || c.View().Authenticated {
		t.Fatal("view must stay unauthenticated when the save fails")
	}
}

func TestLoginAgainstMockUpstream(t *testing.T) {
	upstream, err := mockapi.New(mockapi.Config{Secret: []byte("0123456789abcdef0123456789abcdef")})
	if err != nil {
		t.Fatalf("mockapi: %v", err)
	}
	if _, err := upstream.AddUser("Ada", "ada@example.com", "Secret#123", "admin"); err != nil {
		t.Fatalf("add user: %v", err)
	}
	ts := httptest.NewServer(upstream)
	defer ts.Close()

	client, err := authapi.NewClient(authapi.Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	c := buildTestConsole(t, session.NewMemoryBackend(), client)
	startAndAwait(t, c)

	_, err = c.Login(context.Background(), "ada@example.com", "wrong")
	if !errors.Is(err, ErrLoginFailed) || !errors.Is(err, authapi.ErrLoginRejected) {
		t.Fatalf("expected rejected login, got %v", err)
	}
	if authapi.Message(err) != "Invalid credentials" {
		t.Fatalf("unexpected operator message %q", authapi.Message(err))
	}

	v, err := c.Login(context.Background(), "ada@example.com", "Secret#123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !v.CanAccess(access.RouteBookings) || v.CanAccess(access.RouteAdmins) {
		t.Fatalf("unexpected admin routes %s", v.Routes)
	}
	if u, ok := c.User(); !ok || u.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestAuthorizedClientFollowsSession(t *testing.T) {
	upstream, err := mockapi.New(mockapi.Config{Secret: []byte("0123456789abcdef0123456789abcdef")})
	if err != nil {
		t.Fatalf("mockapi: %v", err)
	}
	if _, err := upstream.AddUser("Ada", "ada@example.com", "Secret#123", "admin"); err != nil {
		t.Fatalf("add user: %v", err)
	}
	ts := httptest.NewServer(upstream)
	defer ts.Close()

	client, err := authapi.NewClient(authapi.Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	c := buildTestConsole(t, session.NewMemoryBackend(), client)
	startAndAwait(t, c)

	if _, err := c.AuthorizedClient(); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated before login, got %v", err)
	}

	if _, err := c.Login(context.Background(), "ada@example.com", "Secret#123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	hc, err := c.AuthorizedClient()
	if err != nil {
		t.Fatalf("authorized client: %v", err)
	}

	resp, err := hc.Get(ts.URL + mockapi.MePath)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from guarded endpoint, got %d", resp.StatusCode)
	}

	if _, err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := hc.Get(ts.URL + mockapi.MePath); !errors.Is(err, authapi.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestLogoutScenario(t *testing.T) {
	backend := session.NewMemoryBackend()
	seed(t, backend, `{"token":"t","user":{"role":"admin"}}`)

	c := buildTestConsole(t, backend, stubAuth("admin"))
	startAndAwait(t, c)

	v, err := c.Logout(context.Background())
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if v != access.Unauthenticated() || c.View() != v {
		t.Fatalf("expected unauthenticated view, got %+v", v)
	}
	if _, ok := c.Token(); ok {
		t.Fatal("token must be gone after logout")
	}
	if _, err := backend.Get(context.Background(), session.DefaultKey); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("slot must be cleared, got %v", err)
	}

	if _, err := c.Logout(context.Background()); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	restarted := buildTestConsole(t, backend, stubAuth("admin"))
	if v := startAndAwait(t, restarted); v != access.Unauthenticated() {
		t.Fatalf("restart after logout must be unauthenticated, got %+v", v)
	}
}

func TestLogoutClearFailureStillDropsView(t *testing.T) {
	backend := &flakyBackend{Backend: session.NewMemoryBackend(), delErr: errors.New("read-only")}
	seed(t, backend, `{"token":"t","user":{"role":"super-admin"}}`)

	c := buildTestConsole(t, backend, stubAuth("admin"))
	startAndAwait(t, c)

	v, err := c.Logout(context.Background())
	if !errors.Is(err, ErrSessionClearFailed) {
		t.Fatalf("expected ErrSessionClearFailed, got %v", err)
	}
	if v != access.Unauthenticated() || c.View().Authenticated {
		t.Fatal("view must be dropped even when the clear fails")
	}
	if got := c.MetricsSnapshot().Counters[MetricSessionClearFailure]; got != 1 {
		t.Fatalf("expected clear failure metric, got %d", got)
	}
}

func TestOpenDeniedRoute(t *testing.T) {
	backend := session.NewMemoryBackend()
	seed(t, backend, `{"token":"t","user":{"role":"admin"}}`)
	c := buildTestConsole(t, backend, stubAuth("admin"))
	startAndAwait(t, c)

	if _, err := c.Open(context.Background(), access.RouteBookings); err != nil {
		t.Fatalf("admin should open Bookings: %v", err)
	}
	if _, err := c.Open(context.Background(), access.RouteReviews); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if got := c.MetricsSnapshot().Counters[MetricAccessDenied]; got != 1 {
		t.Fatalf("expected one denial, got %d", got)
	}
}

func TestStatusSummary(t *testing.T) {
	backend := session.NewMemoryBackend()
	seed(t, backend, `{"token":"t","user":{"_id":"u-1","name":"Ada","email":"ada@example.com","role":"admin"}}`)
	c := buildTestConsole(t, backend, stubAuth("admin"))
	startAndAwait(t, c)

	st := c.Status()
	if st.State != "authenticated_admin" || st.Role != "admin" || st.UserName != "Ada" || st.InitialRoute != "Dashboard" {
		t.Fatalf("unexpected status %+v", st)
	}
	for _, m := range st.Menu {
		if m == "Login" {
			t.Fatal("menu must not offer Login when authenticated")
		}
	}
}

func TestLoginWithoutAuthenticator(t *testing.T) {
	c := buildTestConsole(t, session.NewMemoryBackend(), nil)
	c.auth = nil
	startAndAwait(t, c)
	if _, err := c.Login(context.Background(), "a@b.c", "x"); !errors.Is(err, ErrAuthenticatorMissing) {
		t.Fatalf("expected ErrAuthenticatorMissing, got %v", err)
	}
}

func TestAuditEventsForLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	sink := NewChannelSink(16)

	c, err := New().
		WithConfig(cfg).
		WithBackend(session.NewMemoryBackend()).
		WithAuthenticator(stubAuth("admin")).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	startAndAwait(t, c)
	if _, err := c.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_ = c.Close()

	want := []string{auditEventSessionLoaded, auditEventLoginSuccess, auditEventLogout}
	for _, typ := range want {
		select {
		case ev := <-sink.Events():
			if ev.EventType != typ {
				t.Fatalf("expected %s, got %s", typ, ev.EventType)
			}
			if ev.ID == "" || ev.Timestamp.IsZero() {
				t.Fatalf("event %s not stamped", typ)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing %s event", typ)
		}
	}
}

func TestBuildOpensConfiguredBolt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.BoltPath = t.TempDir() + "/console.db"

	c, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if v := startAndAwait(t, c); v != access.Unauthenticated() {
		t.Fatalf("fresh bolt file must be unauthenticated, got %+v", v)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(testConfig()).WithAuthenticator(stubAuth("admin"))
	c, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestStartAndAwaitAcceptNilContext(t *testing.T) {
	c := buildTestConsole(t, session.NewMemoryBackend(), stubAuth("admin"))

	var ctx context.Context
	c.Start(ctx)
	v, err := c.Await(ctx)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if v.State != access.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", v.State)
	}
}
