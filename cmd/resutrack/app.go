package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/resutrack/internal/classifier"
	"github.com/jonathan/resutrack/internal/config"
	"github.com/jonathan/resutrack/internal/llm"
	"github.com/jonathan/resutrack/internal/logger"
	"github.com/jonathan/resutrack/internal/storage"
	"github.com/jonathan/resutrack/internal/tracker"
	"github.com/jonathan/resutrack/internal/validation"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app bundles everything a subcommand needs.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	adapter *storage.Adapter
	store   *tracker.Store
	closers []func() error
}

// loadConfig resolves configuration for cmd. Commands other than serve log
// at warn unless a level is set somewhere.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var file *config.Config
	if rootFlags.configPath != "" {
		loaded, err := config.LoadConfig(rootFlags.configPath)
		if err != nil {
			return config.Config{}, err
		}
		file = loaded
	}

	flags := config.Config{
		Backend:     rootFlags.backend,
		StoreDir:    rootFlags.storeDir,
		SlotKey:     rootFlags.slotKey,
		RedisURL:    rootFlags.redisURL,
		DatabaseURL: rootFlags.databaseURL,
		Classifier:  rootFlags.classifier,
		Model:       rootFlags.model,
		Log:         logger.Config{Level: rootFlags.logLevel, Format: rootFlags.logFormat},
	}

	defaults := config.Defaults()
	if cmd.Name() != "serve" {
		defaults.Log.Level = "warn"
	}
	return config.ResolveWithDefaults(defaults, flags, file, getenv)
}

// openStorage resolves config and connects the storage backend only.
func openStorage(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log, cmd.ErrOrStderr())

	adapter, err := storage.Open(cmd.Context(), storage.Options{
		Backend:     storage.Backend(cfg.Backend),
		Dir:         cfg.StoreDir,
		Key:         cfg.SlotKey,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		Logger:      logger.Component(log, "storage"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &app{cfg: cfg, log: log, adapter: adapter, closers: []func() error{adapter.Close}}, nil
}

// openApp opens storage, builds the classifier and loads the store.
func openApp(cmd *cobra.Command) (*app, error) {
	a, err := openStorage(cmd)
	if err != nil {
		return nil, err
	}

	c, closeClassifier, err := buildClassifier(cmd.Context(), a.cfg, a.log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if closeClassifier != nil {
		a.closers = append(a.closers, closeClassifier)
	}

	a.store = tracker.Open(cmd.Context(), a.adapter,
		tracker.WithClassifier(c),
		tracker.WithLogger(logger.Component(a.log, "tracker")),
		tracker.WithClassifyConcurrency(a.cfg.ClassifyConcurrency),
	)
	return a, nil
}

// Close releases backends in reverse order of opening.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// buildClassifier picks the model-backed or rule-based classifier and wraps
// it with the configured timeout and, for the model, a call-rate limit.
func buildClassifier(ctx context.Context, cfg config.Config, log zerolog.Logger) (classifier.Classifier, func() error, error) {
	mode := cfg.Classifier
	if mode == config.ClassifierAuto || mode == "" {
		mode = config.ClassifierRules
		if cfg.APIKey != "" {
			mode = config.ClassifierLLM
		}
	}

	if mode == config.ClassifierRules {
		log.Debug().Msg("using rule-based link classifier")
		return classifier.WithTimeout(classifier.NewRuleClassifier(), cfg.ClassifyTimeout()), nil, nil
	}

	llmCfg, err := llm.ConfigFromEnv(getenv)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierLite, cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey, logger.Component(log, "llm"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	log.Debug().Str("model", llmCfg.GetModel(llm.TierLite)).Msg("using LLM link classifier")

	var c classifier.Classifier = classifier.NewLLMClassifier(client,
		classifier.WithLogger(logger.Component(log, "classifier")),
	)
	c = classifier.WithRateLimit(c, classifier.NewLimiter(cfg.ClassifyRatePerMinute, 1))
	c = classifier.WithTimeout(c, cfg.ClassifyTimeout())
	return c, client.Close, nil
}

// reportValidation prints one line per rejected field and returns a short
// summary error. Other errors pass through unchanged.
func reportValidation(w io.Writer, err error) error {
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	msgs := verr.Messages()
	fields := verr.FieldNames()
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, msgs[f])
	}
	return fmt.Errorf("entry not saved: %d invalid field(s)", len(fields))
}
