// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/conciliafacil/concilia/internal/model"
)

// Classifier is the boundary to the external best-effort classifier.
// All three capabilities are network-bound and fallible; callers treat
// their inputs as a point-in-time snapshot.
type Classifier interface {
	// Suggest returns account suggestions for the unreconciled subset of
	// transactions. Implementations filter to that subset themselves and
	// must validate every returned suggestion against the supplied
	// transactions and accounts, dropping invalid entries.
	Suggest(ctx context.Context, transactions []model.Transaction, accounts []model.Account, examples []model.LearningExample, documents []model.SupportingDocument) ([]model.Suggestion, error)

	// ExtractTransactions parses free-form statement text into raw entries.
	ExtractTransactions(ctx context.Context, statementText string) ([]model.RawTransaction, error)

	// ExtractAccounts parses an arbitrary chart-of-accounts document.
	ExtractAccounts(ctx context.Context, fileContent string) ([]model.Account, error)
}

// Storage is the external persistence collaborator. Everything here is
// optional state: a missing or malformed value degrades to the zero
// default, never to a failure at startup.
type Storage interface {
	// Learning examples.
	SaveLearningExample(ctx context.Context, example model.LearningExample) error
	DeleteLearningExample(ctx context.Context, id string) error
	GetLearningExamples(ctx context.Context) ([]model.LearningExample, error)

	// Custom chart of accounts.
	ReplaceCustomAccounts(ctx context.Context, accounts []model.Account) error
	GetCustomAccounts(ctx context.Context) ([]model.Account, error)

	// Working transaction batch, replaced wholesale on each import.
	ReplaceTransactions(ctx context.Context, transactions []model.Transaction) error
	SaveTransaction(ctx context.Context, transaction model.Transaction) error
	GetTransactions(ctx context.Context) ([]model.Transaction, error)

	// Reconciliation history.
	SaveEvent(ctx context.Context, event model.ReconciliationEvent) error
	GetEvents(ctx context.Context) ([]model.ReconciliationEvent, error)

	// Settings key-value pairs.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
