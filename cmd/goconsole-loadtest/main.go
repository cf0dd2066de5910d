package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goConsole/access"
	"github.com/MrEthical07/goConsole/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type slotState struct {
	store *session.Store
	role  access.Role
	mu    sync.Mutex
}

func main() {
	var (
		slots       = flag.Int("slots", 10000, "number of session slots to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (resolve + swap)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gcload", "slot key prefix")
		policyName  = flag.String("policy", "standard", "access policy used to resolve views")
	)
	flag.Parse()

	if *slots <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "slots, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	policy, err := access.PolicyByName(*policyName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	controller := access.NewController(policy)

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	backend := session.NewRedisBackend(client, *prefix)

	states := make([]slotState, *slots)
	fmt.Printf("seeding %d slots...\n", *slots)
	startSeed := time.Now()
	for i := 0; i < *slots; i++ {
		role := roleFor(i)
		states[i].store = session.NewStore(backend, fmt.Sprintf("admin-%d", i))
		states[i].role = role
		if err := states[i].store.Save(ctx, buildRecord(i, role)); err != nil {
			fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	resolveStats := runResolvePhase(ctx, controller, states, *ops, *concurrency)
	swapStats := runSwapPhase(ctx, controller, states, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("resolve", resolveStats)
	printStats("swap", swapStats)
}

// runResolvePhase loads random slots and resolves their views. A slot that does not
// resolve to an authenticated view counts as a failure.
func runResolvePhase(ctx context.Context, controller *access.Controller, states []slotState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				t0 := time.Now()
				rec, err := states[idx].store.Load(ctx)
				view := controller.Resolve(rec)
				d := time.Since(t0)
				if err != nil || !view.Authenticated {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// runSwapPhase flips the role stored in random slots and reads it back. The read must
// observe the write, and the resolved view must carry the new role.
func runSwapPhase(ctx context.Context, controller *access.Controller, states []slotState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				state := &states[idx]

				state.mu.Lock()
				next := flipRole(state.role)
				t0 := time.Now()
				err := state.store.Save(ctx, buildRecord(idx, next))
				var view access.View
				if err == nil {
					var rec *session.Record
					rec, err = state.store.Load(ctx)
					view = controller.Resolve(rec)
				}
				d := time.Since(t0)
				if err == nil && view.Role == next {
					state.role = next
				} else {
					atomic.AddInt64(&failures, 1)
				}
				state.mu.Unlock()

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func buildRecord(i int, role access.Role) *session.Record {
	return &session.Record{
		Token: fmt.Sprintf("token-%d-%s", i, role),
		User: session.User{
			ID:    fmt.Sprintf("u-%d", i),
			Name:  fmt.Sprintf("Operator %d", i),
			Email: fmt.Sprintf("op%d@example.com", i),
			Role:  role.String(),
		},
	}
}

func roleFor(i int) access.Role {
	if i%2 == 0 {
		return access.RoleAdmin
	}
	return access.RoleSuperAdmin
}

func flipRole(r access.Role) access.Role {
	if r == access.RoleAdmin {
		return access.RoleSuperAdmin
	}
	return access.RoleAdmin
}
