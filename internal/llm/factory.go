package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/config"
	"github.com/abhisek/profiler/internal/metrics"
)

// Provider names accepted in llm.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// New builds the configured provider wrapped with retries and
// instrumentation. An empty provider name returns (nil, nil): the coach
// then falls back to static advice.
func New(ctx context.Context, cfg config.LLMConfig, log *zap.Logger, m *metrics.Metrics) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "":
		return nil, nil
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Provider, err)
	}

	// Each attempt is measured separately.
	return WithRetry(Instrument(base, cfg.Provider, log, m), cfg.Retry, log), nil
}
