package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
)

// Config holds configuration for the classification gateway.
type Config struct {
	APIKey       string
	SuggestModel string
	ExtractModel string
	MaxRetries   int
	RetryDelay   time.Duration
	RateLimit    int
}

// Gateway implements service.Classifier on top of a provider Client. It owns
// prompt construction, rate limiting, retries, strict response decoding, and
// suggestion validation; account selection itself stays with the provider.
type Gateway struct {
	client       Client
	limiter      *rateLimiter
	logger       *slog.Logger
	suggestModel string
	extractModel string
	retryOpts    common.RetryOptions
}

// New creates a Gemini-backed gateway.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: classifier API key not set", common.ErrMissingConfig)
	}
	client, err := newGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient creates a gateway over an existing provider client.
func NewWithClient(client Client, cfg Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SuggestModel == "" {
		cfg.SuggestModel = "gemini-2.5-pro"
	}
	if cfg.ExtractModel == "" {
		cfg.ExtractModel = "gemini-2.5-flash"
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Gateway{
		client:       client,
		limiter:      newRateLimiter(cfg.RateLimit),
		logger:       logger,
		suggestModel: cfg.SuggestModel,
		extractModel: cfg.ExtractModel,
		retryOpts:    retryOpts,
	}
}

// Suggest asks the classifier for account suggestions covering the
// unreconciled subset of transactions. An empty subset never reaches the
// network. Suggestions naming an unknown transaction or account are dropped;
// a partially valid response degrades to a partial suggestion set.
func (g *Gateway) Suggest(ctx context.Context, transactions []model.Transaction, accounts []model.Account, examples []model.LearningExample, documents []model.SupportingDocument) ([]model.Suggestion, error) {
	pending := make([]transactionPayload, 0, len(transactions))
	submitted := make(map[string]bool, len(transactions))
	for _, txn := range transactions {
		if txn.Reconciliation.Status != model.StatusUnreconciled {
			continue
		}
		pending = append(pending, transactionPayload{
			ID:          txn.ID,
			Description: txn.Description,
			Amount:      txn.Amount,
			Type:        string(txn.Type),
		})
		submitted[txn.ID] = true
	}

	if len(pending) == 0 {
		return nil, nil
	}

	prompt := buildSuggestPrompt(pending, accounts, examples)

	raw, err := g.call(ctx, g.suggestModel, prompt, documents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassification, err)
	}

	suggestions, err := decodeSuggestions(raw)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		known[acc.ID] = true
	}

	valid := make([]model.Suggestion, 0, len(suggestions))
	dropped := 0
	for _, s := range suggestions {
		if !submitted[s.TransactionID] || !known[s.AccountID] {
			dropped++
			continue
		}
		valid = append(valid, s)
	}

	g.logger.Info("classification suggestions received",
		"submitted", len(pending),
		"returned", len(suggestions),
		"dropped", dropped)

	return valid, nil
}

// ExtractTransactions parses free-form statement text into raw entries.
func (g *Gateway) ExtractTransactions(ctx context.Context, statementText string) ([]model.RawTransaction, error) {
	if statementText == "" {
		return nil, nil
	}

	raw, err := g.call(ctx, g.extractModel, buildExtractTransactionsPrompt(statementText), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassification, err)
	}

	entries, err := decodeRawTransactions(raw)
	if err != nil {
		return nil, err
	}

	g.logger.Info("statement extracted", "transactions", len(entries))
	return entries, nil
}

// ExtractAccounts parses an arbitrary chart-of-accounts document into
// (id, name) pairs, with one bounded repair attempt on malformed output.
func (g *Gateway) ExtractAccounts(ctx context.Context, fileContent string) ([]model.Account, error) {
	if fileContent == "" {
		return nil, nil
	}

	raw, err := g.call(ctx, g.extractModel, buildExtractAccountsPrompt(fileContent), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassification, err)
	}

	accounts, err := decodeAccounts(raw)
	if err != nil {
		return nil, err
	}

	g.logger.Info("chart of accounts extracted", "accounts", len(accounts))
	return accounts, nil
}

// call runs one provider request under the rate limiter and retry policy.
func (g *Gateway) call(ctx context.Context, modelName, prompt string, documents []model.SupportingDocument) (string, error) {
	if err := g.limiter.wait(ctx); err != nil {
		return "", err
	}

	var response string
	err := common.WithRetry(ctx, func() error {
		raw, callErr := g.client.GenerateJSON(ctx, modelName, prompt, documents)
		if callErr != nil {
			g.logger.Warn("classifier call attempt failed",
				"model", modelName,
				"error", callErr)
			return &common.RetryableError{Err: callErr, Retryable: true}
		}
		response = raw
		return nil
	}, g.retryOpts)

	if err != nil {
		return "", err
	}
	return response, nil
}
