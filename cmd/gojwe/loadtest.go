package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goJWE/claims"
	"github.com/MrEthical07/goJWE/jwe"
	promexport "github.com/MrEthical07/goJWE/metrics/export/prometheus"
	"go.uber.org/zap"
)

func (a *app) loadtest(ctx context.Context, args []string) error {
	fs := a.flags("loadtest")
	var (
		tokens      = fs.Int("tokens", 10000, "number of tokens to pre-issue for the verify phase")
		concurrency = fs.Int("concurrency", 64, "number of concurrent workers")
		ops         = fs.Int("ops", 50000, "operations per phase (issue + verify)")
		metricsAddr = fs.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		return errors.New("tokens, concurrency, and ops must be > 0")
	}

	def, err := a.cfg.definition()
	if errors.Is(err, errNoKey) {
		// An ephemeral key under the development id; production mode refuses it at Build.
		def, err = jwe.GenerateKey(a.cfg.Key.DevKeyID, a.cfg.Token.KeyWrapping)
		if err == nil {
			a.logger.Warn("no key configured, using ephemeral development key")
		}
	}
	if err != nil {
		return err
	}

	engine, cleanup, err := a.buildEngine(ctx, def)
	if err != nil {
		return err
	}
	defer cleanup()

	if *metricsAddr != "" {
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           promexport.NewExporter(engine).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Close() }()
		fmt.Fprintf(a.stdout, "serving metrics on %s\n", *metricsAddr)
	}

	aud := a.cfg.Token.Audiences[0]
	pool := make([]string, *tokens)
	fmt.Fprintf(a.stdout, "issuing %d tokens...\n", *tokens)
	startSeed := time.Now()
	for i := range pool {
		token, err := engine.Issue(ctx, subjectClaims(aud, i))
		if err != nil {
			return fmt.Errorf("seed issue failed: %w", err)
		}
		pool[i] = token
	}
	fmt.Fprintf(a.stdout, "seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	issueStats := runPhase(*ops, *concurrency, func(i int, _ *rand.Rand) error {
		_, err := engine.Issue(ctx, subjectClaims(aud, i))
		return err
	})
	verifyStats := runPhase(*ops, *concurrency, func(_ int, r *rand.Rand) error {
		_, err := engine.Verify(ctx, pool[r.Intn(len(pool))])
		return err
	})

	fmt.Fprintln(a.stdout, "---- results ----")
	a.printStats("issue", issueStats)
	a.printStats("verify", verifyStats)
	return nil
}

func subjectClaims(aud string, i int) claims.Set {
	return claims.Set{
		claims.Subject:  fmt.Sprintf("user-%d", i),
		claims.Audience: aud,
	}
}

// runPhase spreads ops calls of fn over concurrency workers.
func runPhase(ops, concurrency int, fn func(i int, r *rand.Rand) error) phaseStats {
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
				t0 := time.Now()
				err := fn(i, r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
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
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	out := phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
	}
	if total > 0 {
		out.opsPerS = float64(len(samples)) / total.Seconds()
	}
	return out
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
	return samples[(len(samples)-1)*p/100]
}

func (a *app) printStats(name string, s phaseStats) {
	fmt.Fprintf(a.stdout, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
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
