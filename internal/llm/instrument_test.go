package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/profiler/internal/metrics"
)

func TestInstrumented(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := metrics.New()
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 11, OutputTokens: 4}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	p := Instrument(mock, "anthropic", zap.New(core), m)
	tick := time.Unix(0, 0)
	p.now = func() time.Time {
		tick = tick.Add(50 * time.Millisecond)
		return tick
	}

	ctx := WithPurpose(context.Background(), "development-plan")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected rate limit error")
	}

	if got := testutil.ToFloat64(m.LLMRequests.WithLabelValues("anthropic", "ok")); got != 1 {
		t.Errorf("ok requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LLMRequests.WithLabelValues("anthropic", "rate_limit")); got != 1 {
		t.Errorf("rate_limit requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LLMTokens.WithLabelValues("anthropic", "input")); got != 11 {
		t.Errorf("input tokens = %v, want 11", got)
	}

	if logs.FilterMessage("llm call").Len() != 1 || logs.FilterMessage("llm call failed").Len() != 1 {
		t.Fatalf("logs = %v", logs.All())
	}
	entry := logs.FilterMessage("llm call").All()[0].ContextMap()
	if entry["purpose"] != "development-plan" || entry["latency"] != 50*time.Millisecond {
		t.Errorf("log fields = %v", entry)
	}
}
