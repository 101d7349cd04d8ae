package goJWE

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goJWE/keys"
	"go.uber.org/zap"
)

const (
	testDefinition = `{"kty":"oct","kid":"svc-test","alg":"A256KW","k":"AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8"}`
	devDefinition  = `{"kty":"oct","kid":"development","alg":"A256KW","k":"AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8"}`
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Issuer = "auth.example"
	cfg.Token.Audiences = []string{"billing", "search"}
	cfg.Key.Definition = keys.Definition(testDefinition)
	return cfg
}

func buildTestEngine(t testing.TB, cfg Config, clock *testClock, extra ...func(*Builder)) *Engine {
	t.Helper()

	b := New().
		WithConfig(cfg).
		WithLogger(zap.NewNop())
	if clock != nil {
		b.WithClock(clock.Now)
	}
	for _, fn := range extra {
		fn(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

// flipLast replaces the final character with one whose top base64 bit
// differs, so the decoded authentication tag always changes.
func flipLast(token string) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	last := strings.IndexByte(alphabet, token[len(token)-1])
	return token[:len(token)-1] + string(alphabet[last^0x20])
}
