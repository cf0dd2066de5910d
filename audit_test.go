package goConsole

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goConsole/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

type gateSink struct {
	gate    chan struct{}
	entered chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 16),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.gate
}

type panicSink struct{}

func (panicSink) Emit(context.Context, AuditEvent) { panic("sink exploded") }

func TestAuditDisabledNoDispatcher(t *testing.T) {
	if d := newAuditDispatcher(AuditConfig{Enabled: false}, &countingSink{}, nil); d != nil {
		t.Fatal("disabled audit must not start a dispatcher")
	}

	sink := &countingSink{}
	c, err := New().
		WithConfig(testConfig()).
		WithBackend(session.NewMemoryBackend()).
		WithAuthenticator(stubAuth("admin")).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	startAndAwait(t, c)
	_, _ = c.Login(context.Background(), "a@example.com", "pw")
	_ = c.Close()

	if got := sink.count.Load(); got != 0 {
		t.Fatalf("expected no sink calls, got %d", got)
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 16; i++ {
			d.Emit(context.Background(), AuditEvent{EventType: "e"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked with DropIfFull")
	}
	if d.Dropped() == 0 {
		t.Fatal("expected dropped events")
	}
	close(sink.gate)
	d.Close()
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilContextEnds(t *testing.T) {
	sink := newGateSink()
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: false}, sink, nil)

	d.Emit(context.Background(), AuditEvent{EventType: "in-flight"})
	<-sink.entered
	d.Emit(context.Background(), AuditEvent{EventType: "buffered"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	start := time.Now()
	d.Emit(ctx, AuditEvent{EventType: "blocked"})
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("expected emit to block until the context ended")
	}
	if d.Dropped() != 1 {
		t.Fatalf("expected the abandoned event to be counted, got %d", d.Dropped())
	}

	close(sink.gate)
	d.Close()
}

func TestAuditDispatcherStampsEvents(t *testing.T) {
	sink := NewChannelSink(1)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1}, sink, nil)
	d.Emit(context.Background(), AuditEvent{EventType: "logout"})
	d.Close()

	ev := <-sink.Events()
	if ev.ID == "" || ev.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", ev)
	}
}

func TestAuditDispatcherSurvivesPanickingSink(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4, DropIfFull: true}, panicSink{}, zap.New(core))

	d.Emit(context.Background(), AuditEvent{EventType: "login_success"})
	d.Emit(context.Background(), AuditEvent{EventType: "logout"})
	d.Close()

	if d.Dropped() != 2 {
		t.Fatalf("expected both events counted as dropped, got %d", d.Dropped())
	}
	if logs.FilterMessage("audit sink panicked").Len() != 2 {
		t.Fatalf("expected panic to be logged, got %d entries", logs.Len())
	}
}

func TestAuditDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	sink := &countingSink{}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4, DropIfFull: true}, sink, nil)

	d.Emit(context.Background(), AuditEvent{EventType: "e1"})
	d.Close()
	d.Close()
	d.Emit(context.Background(), AuditEvent{EventType: "e2"})

	if got := sink.count.Load(); got != 1 {
		t.Fatalf("expected the queued event to be drained, got %d", got)
	}
}

func TestAuditJSONWriterSinkWritesJSONLines(t *testing.T) {
	buf := &syncBuffer{}
	sink := NewJSONWriterSink(buf)
	sink.Emit(context.Background(), AuditEvent{EventType: "login_success", UserID: "u1", Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: "logout", UserID: "u1", Success: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var ev AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("line is not json: %v", err)
	}
	if ev.EventType != "login_success" || ev.UserID != "u1" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestAuditZapSinkLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewZapSink(zap.New(core))

	sink.Emit(context.Background(), AuditEvent{EventType: "login_success", Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: "login_failure", Error: "login_rejected"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.WarnLevel {
		t.Fatalf("unexpected levels %s %s", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["error"] != "login_rejected" {
		t.Fatalf("expected error field, got %v", entries[1].ContextMap())
	}
}

func TestAuditNoSecretsInEvents(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 32
	cfg.Audit.DropIfFull = false

	const password = "Secret#123"
	const token = "super-secret-bearer"
	auth := AuthenticatorFunc(func(ctx context.Context, email, pw string) (*session.Record, error) {
		return &session.Record{Token: token, User: session.User{ID: "u1", Email: email, Role: "admin"}}, nil
	})

	buf := &syncBuffer{}
	c, err := New().
		WithConfig(cfg).
		WithBackend(session.NewMemoryBackend()).
		WithAuthenticator(auth).
		WithAuditSink(NewJSONWriterSink(buf)).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	startAndAwait(t, c)
	if _, err := c.Login(context.Background(), "a@example.com", password); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_ = c.Close()

	out := buf.String()
	if out == "" {
		t.Fatal("expected audit output")
	}
	for _, needle := range []string{password, token} {
		if strings.Contains(out, needle) {
			t.Fatalf("sensitive value leaked in audit output: %q", needle)
		}
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
