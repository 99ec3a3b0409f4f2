package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/search"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/groq"
)

// newSearchClient builds the search client for one pipeline verb: the
// configured provider with the given model and the verb's retry budget.
func newSearchClient(model string, run config.RunConfig) (*search.Client, error) {
	var provider search.Provider

	switch cfg.Search.Provider {
	case "groq":
		if cfg.Groq.Key == "" {
			return nil, eris.New("groq API key is required (LEADGEN_GROQ_KEY)")
		}
		client := groq.NewClient(cfg.Groq.Key, groq.WithBaseURL(cfg.Groq.BaseURL))
		provider = search.NewGroqProvider(client, model)
	case "anthropic":
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("anthropic API key is required (LEADGEN_ANTHROPIC_KEY)")
		}
		provider = search.NewAnthropicProvider(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
	default:
		return nil, eris.Errorf("unsupported search provider: %s", cfg.Search.Provider)
	}

	return search.New(provider, search.Options{
		Attempts:   run.RetryAttempts,
		RetryDelay: cfg.Search.RetryDelay,
		Throttle:   cfg.Search.RequestDelay,
	}), nil
}

// initStore opens the run-history store. Returns nil when the store cannot
// be opened: run history is best-effort and never blocks a pipeline.
func initStore(ctx context.Context) store.Store {
	st, err := openStore(ctx)
	if err != nil {
		zap.L().Warn("run history disabled", zap.Error(err))
		return nil
	}
	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("run history disabled", zap.Error(err))
		st.Close() //nolint:errcheck
		return nil
	}
	return st
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leadgen.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// closeStore closes st if the pipeline got one.
func closeStore(st store.Store) {
	if st != nil {
		st.Close() //nolint:errcheck
	}
}
