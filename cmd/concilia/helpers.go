package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/viper"

	"github.com/conciliafacil/concilia/internal/accounts"
	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/config"
	"github.com/conciliafacil/concilia/internal/engine"
	"github.com/conciliafacil/concilia/internal/learning"
	"github.com/conciliafacil/concilia/internal/llm"
	"github.com/conciliafacil/concilia/internal/model"
	"github.com/conciliafacil/concilia/internal/service"
	"github.com/conciliafacil/concilia/internal/storage"
)

// app wires the stores and the engine for one command invocation. The engine
// works on in-memory state; the storage collaborator persists it between
// invocations.
type app struct {
	store    service.Storage
	accounts *accounts.Store
	learning *learning.Store
	engine   *engine.Engine
	settings config.Settings
}

// initStorage opens the database and runs migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(defaultDBPath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadApp restores the persisted state. Absent or malformed state degrades
// to defaults rather than failing startup.
func loadApp(ctx context.Context) (*app, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	a := &app{
		store:    store,
		accounts: accounts.NewStore(),
		settings: config.DefaultSettings(),
	}

	a.loadSettings(ctx)

	custom, err := store.GetCustomAccounts(ctx)
	if err != nil {
		slog.Warn("Failed to load custom accounts, starting empty", "error", err)
	} else {
		a.accounts.ReplaceCustomAccounts(custom)
	}
	if err := a.accounts.SetActivePlan(a.settings.ActivePlan); err != nil {
		a.settings.ActivePlan = a.accounts.ActivePlan()
	}

	examples, err := store.GetLearningExamples(ctx)
	if err != nil {
		slog.Warn("Failed to load learning examples, starting empty", "error", err)
		examples = nil
	}
	a.learning = learning.NewStoreWith(examples)

	a.engine = engine.New(a.learning, a.accounts)

	batch, err := store.GetTransactions(ctx)
	if err != nil {
		slog.Warn("Failed to load transaction batch, starting empty", "error", err)
	} else {
		a.engine.SetTransactions(batch)
	}

	events, err := store.GetEvents(ctx)
	if err != nil {
		slog.Warn("Failed to load reconciliation history, starting empty", "error", err)
	} else {
		a.engine.SetEvents(events)
	}

	return a, nil
}

func (a *app) loadSettings(ctx context.Context) {
	if plan, err := a.store.GetSetting(ctx, config.KeyActivePlan); err == nil {
		switch model.AccountPlan(plan) {
		case model.PlanCustom, model.PlanReference:
			a.settings.ActivePlan = model.AccountPlan(plan)
		default:
			slog.Warn("Ignoring malformed active plan setting", "value", plan)
		}
	}
	if theme, err := a.store.GetSetting(ctx, config.KeyTheme); err == nil && theme != "" {
		a.settings.Theme = theme
	}
	if scale, err := a.store.GetSetting(ctx, config.KeyFontScale); err == nil {
		if n, convErr := strconv.Atoi(scale); convErr == nil && n > 0 {
			a.settings.FontScale = n
		}
	}
}

// close releases the database handle.
func (a *app) close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

// persistBatch writes the engine's transactions and history back to storage.
func (a *app) persistBatch(ctx context.Context) error {
	if err := a.store.ReplaceTransactions(ctx, a.engine.Transactions()); err != nil {
		return err
	}
	for _, ev := range a.engine.Events() {
		if err := a.store.SaveEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// persistTransaction writes one transaction plus any new history and
// learning examples.
func (a *app) persistTransaction(ctx context.Context, id string) error {
	txn, err := a.engine.Get(id)
	if err != nil {
		return err
	}
	if err := a.store.SaveTransaction(ctx, txn); err != nil {
		return err
	}
	for _, ev := range a.engine.Events() {
		if err := a.store.SaveEvent(ctx, ev); err != nil {
			return err
		}
	}
	return a.persistLearning(ctx)
}

// persistLearning upserts every in-memory learning example.
func (a *app) persistLearning(ctx context.Context) error {
	for _, ex := range a.learning.All() {
		if err := a.store.SaveLearningExample(ctx, ex); err != nil {
			return err
		}
	}
	return nil
}

// buildClassifier creates the Gemini-backed gateway from config.
func buildClassifier(ctx context.Context) (service.Classifier, error) {
	apiKey := viper.GetString("gemini.api_key")
	if apiKey == "" {
		return nil, common.NewUserError(
			"Gemini API key not configured. Set gemini.api_key in config or CONCILIA_GEMINI_API_KEY",
			common.ErrMissingConfig)
	}

	return llm.New(ctx, llm.Config{
		APIKey:       apiKey,
		SuggestModel: viper.GetString("gemini.suggest_model"),
		ExtractModel: viper.GetString("gemini.extract_model"),
		MaxRetries:   viper.GetInt("gemini.max_retries"),
		RetryDelay:   viper.GetDuration("gemini.retry_delay"),
		RateLimit:    viper.GetInt("gemini.rate_limit"),
	}, slog.Default())
}

// withSpinner runs a network-bound operation behind an indeterminate
// progress spinner on stderr.
func withSpinner(description string, fn func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
	)

	err := fn()

	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	return err
}

// userMessage unwraps the friendly message from an error chain.
func userMessage(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
