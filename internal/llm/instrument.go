package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/metrics"
)

type purposeKey struct{}

// WithPurpose tags ctx with what the call is for, e.g. "development-plan".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose set by WithPurpose, or "".
func PurposeFrom(ctx context.Context) string {
	p, _ := ctx.Value(purposeKey{}).(string)
	return p
}

// Instrumented logs every call and records latency, outcome and token
// usage.
type Instrumented struct {
	inner    Provider
	provider string
	log      *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Instrument wraps p. Both log and m may be nil.
func Instrument(p Provider, provider string, log *zap.Logger, m *metrics.Metrics) *Instrumented {
	if log == nil {
		log = zap.NewNop()
	}
	return &Instrumented{inner: p, provider: provider, log: log, metrics: m, now: time.Now}
}

func (i *Instrumented) Generate(ctx context.Context, req Request) (*Response, error) {
	start := i.now()
	resp, err := i.inner.Generate(ctx, req)
	elapsed := i.now().Sub(start)

	var usage Usage
	if resp != nil {
		usage = resp.Usage
	}
	outcome := Outcome(err)
	i.metrics.LLMCall(i.provider, outcome, elapsed, usage.InputTokens, usage.OutputTokens)

	fields := []zap.Field{
		zap.String("provider", i.provider),
		zap.String("model", i.inner.ModelID()),
		zap.String("purpose", PurposeFrom(ctx)),
		zap.String("outcome", outcome),
		zap.Duration("latency", elapsed),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
	}
	if err != nil {
		i.log.Warn("llm call failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	i.log.Debug("llm call", fields...)
	return resp, nil
}

func (i *Instrumented) ModelID() string { return i.inner.ModelID() }
