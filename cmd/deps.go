package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/coach"
	"github.com/abhisek/profiler/internal/config"
	"github.com/abhisek/profiler/internal/host"
	"github.com/abhisek/profiler/internal/llm"
	"github.com/abhisek/profiler/internal/logger"
	"github.com/abhisek/profiler/internal/metrics"
	"github.com/abhisek/profiler/internal/store"
)

// deps holds everything a command needs to serve assessments. Close
// releases it in reverse order of construction.
type deps struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	store   *store.Store
	host    *host.Host
}

// loadConfig reads the configuration named by --config and applies --db.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.Path = p
	}
	return cfg, nil
}

// newLogger builds the logger for a command. The terminal UI owns the
// screen, so it always logs to a file and never to the console.
func newLogger(cfg *config.Config, console bool) (*zap.Logger, error) {
	opts := logger.FromConfig(cfg.Log, console)
	if !console && opts.File == "" {
		file, err := logger.DefaultFile()
		if err != nil {
			return nil, err
		}
		opts.File = file
	}
	return logger.New(opts)
}

// buildDeps wires the store, coach and host. console selects whether log
// entries also go to stderr.
func buildDeps(cmd *cobra.Command, console bool) (*deps, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, console)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	d := &deps{cfg: cfg, log: log, metrics: metrics.New()}
	d.store, err = store.Open(ctx, cfg.Store)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	bank, err := assessment.LoadQuestionBankFile(cfg.QuestionsFile)
	if err != nil {
		d.Close()
		return nil, err
	}
	engine, err := assessment.NewEngine(bank)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.host = host.New(engine, d.store.Respondents(), d.store.Results(), host.Options{
		Coach:           newCoach(ctx, cfg, log, d.metrics),
		Metrics:         d.metrics,
		Logger:          log,
		ConsultationURL: cfg.ConsultationURL,
		AdminPassword:   cfg.AdminPassword,
	})
	return d, nil
}

// newCoach builds the plan coach. A missing or broken provider leaves the
// coach on its static plans.
func newCoach(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *coach.Coach {
	provider, err := llm.New(ctx, cfg.LLM, log, m)
	if err != nil {
		log.Warn("llm provider unavailable, using static plans", zap.Error(err))
		provider = nil
	}
	return coach.New(provider, coach.Config{
		Timeout:     cfg.LLM.Timeout,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: coach.DefaultConfig().Temperature,
	}, log)
}

func (d *deps) Close() error {
	var errs []error
	if d.store != nil {
		errs = append(errs, d.store.Close())
	}
	d.log.Sync()
	return errors.Join(errs...)
}
