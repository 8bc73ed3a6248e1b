package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/fpminer/pkg/observability"
)

// newTestMetrics registers on an isolated registry so tests do not collide
// with the global one.
func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(reg), reg
}

func TestMiningMetrics(t *testing.T) {
	m, _ := newTestMetrics(t)
	ctx := context.Background()

	m.OnMineStart(ctx, "in.csv")
	m.OnAttempt(ctx, 1, 0.5, 0, time.Millisecond)
	m.OnAttempt(ctx, 2, 0.45, 3, time.Millisecond)
	m.OnMineComplete(ctx, "in.csv", 3, 10*time.Millisecond, nil)
	m.OnMineComplete(ctx, "bad.csv", 0, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.AttemptsTotal); got != 2 {
		t.Errorf("attempts_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("runs_total{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("runs_total{error} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RunDurationSeconds); got != 1 {
		t.Errorf("run_duration_seconds series = %d, want 1", got)
	}
}

func TestCacheMetrics(t *testing.T) {
	m, _ := newTestMetrics(t)
	ctx := context.Background()

	m.OnCacheMiss(ctx, "result")
	m.OnCacheSet(ctx, "result", 512)
	m.OnCacheHit(ctx, "result")
	m.OnCacheHit(ctx, "result")

	tests := []struct {
		op   string
		want float64
	}{
		{"hit", 2},
		{"miss", 1},
		{"set", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.CacheOpsTotal.WithLabelValues("result", tt.op)); got != tt.want {
			t.Errorf("cache operations_total{op=%s} = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestHTTPMetrics(t *testing.T) {
	m, _ := newTestMetrics(t)
	ctx := context.Background()

	m.OnRequest(ctx, "POST", "/v1/mine")
	if got := testutil.ToFloat64(m.InFlight); got != 1 {
		t.Errorf("in_flight_requests = %v, want 1", got)
	}
	m.OnResponse(ctx, "POST", "/v1/mine", 200, 5*time.Millisecond)

	if got := testutil.ToFloat64(m.InFlight); got != 0 {
		t.Errorf("in_flight_requests = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/v1/mine", "200")); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	_, reg := newTestMetrics(t)
	defer func() {
		if recover() == nil {
			t.Error("New() on the same registry twice should panic")
		}
	}()
	New(reg)
}

func TestRegister(t *testing.T) {
	defer observability.Reset()

	m, _ := newTestMetrics(t)
	m.Register()

	if observability.Mining() != observability.MiningHooks(m) {
		t.Error("Register() should install mining hooks")
	}
	if observability.Cache() != observability.CacheHooks(m) {
		t.Error("Register() should install cache hooks")
	}
	if observability.HTTP() != observability.HTTPHooks(m) {
		t.Error("Register() should install HTTP hooks")
	}
}
