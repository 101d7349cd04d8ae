package prometheus

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	goJWE "github.com/MrEthical07/goJWE"
	"github.com/MrEthical07/goJWE/claims"
	"github.com/MrEthical07/goJWE/keys"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type fakeSource struct {
	snapshot goJWE.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goJWE.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                   { return f.dropped }

func scrape(t *testing.T, exp *Exporter) string {
	t.Helper()

	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestCollectNothingWhenMetricsDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goJWE.MetricsSnapshot{
			Counters:   map[goJWE.MetricID]uint64{},
			Histograms: map[goJWE.MetricID][]uint64{},
		},
	})

	if n := testutil.CollectAndCount(exp); n != 0 {
		t.Fatalf("expected no metrics, got %d", n)
	}
}

func TestHandlerRendersCountersAndHistograms(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goJWE.MetricsSnapshot{
			Counters: map[goJWE.MetricID]uint64{
				goJWE.MetricIssueSuccess: 7,
			},
			Histograms: map[goJWE.MetricID][]uint64{
				goJWE.MetricVerifyLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := scrape(t, exp)
	for _, want := range []string{
		"gojwe_issue_success_total 7",
		`gojwe_verify_latency_seconds_bucket{le="0.005"} 1`,
		`gojwe_verify_latency_seconds_bucket{le="0.5"} 28`,
		`gojwe_verify_latency_seconds_bucket{le="+Inf"} 36`,
		"gojwe_verify_latency_seconds_count 36",
		"gojwe_audit_dropped_total 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gojwe_issue_latency_seconds") {
		t.Fatalf("expected absent histogram to be skipped, got:\n%s", out)
	}
}

func TestExporterRegistersWithCallerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	exp := NewExporterFromSource(fakeSource{snapshot: goJWE.MetricsSnapshot{
		Counters: map[goJWE.MetricID]uint64{goJWE.MetricTokenRevoked: 3},
	}})
	if err := reg.Register(exp); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP gojwe_token_revoked_total Token ids added to the denylist.
# TYPE gojwe_token_revoked_total counter
gojwe_token_revoked_total 3
`), "gojwe_token_revoked_total"); err != nil {
		t.Fatalf("unexpected gather output: %v", err)
	}
}

func TestExporterReadsLiveEngine(t *testing.T) {
	cfg := goJWE.DefaultConfig()
	cfg.Token.Issuer = "auth.example"
	cfg.Token.Audiences = []string{"billing"}
	cfg.Key.Definition = keys.Definition(`{"kty":"oct","kid":"svc","alg":"A256KW","k":"AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8"}`)

	engine, err := goJWE.New().WithConfig(cfg).WithLogger(zap.NewNop()).WithMetricsEnabled(true).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := engine.Issue(context.Background(), claims.Set{"aud": "billing"}); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	out := scrape(t, NewExporter(engine))
	if !strings.Contains(out, "gojwe_issue_success_total 1") || !strings.Contains(out, "gojwe_key_reified_total 1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
