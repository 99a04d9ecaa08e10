// Package storage implements the SQLite persistence collaborator. Learned
// examples, custom accounts, the working transaction batch, reconciliation
// history, and settings are each independently persisted; a missing or
// malformed value degrades to its zero default at load time.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is empty", common.ErrMissingConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveLearningExample persists one learned mapping. Saving an example that
// already exists by id is an upsert.
func (s *SQLiteStorage) SaveLearningExample(ctx context.Context, example model.LearningExample) error {
	if example.ID == "" {
		return fmt.Errorf("learning example has no id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learning_examples (id, description, amount, type, account_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			amount = excluded.amount,
			type = excluded.type,
			account_id = excluded.account_id`,
		example.ID, example.Description, example.Amount, string(example.Type), example.AccountID)
	if err != nil {
		return fmt.Errorf("failed to save learning example: %w", err)
	}
	return nil
}

// DeleteLearningExample removes one learned mapping by id.
func (s *SQLiteStorage) DeleteLearningExample(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM learning_examples WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete learning example: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: learning example %s", common.ErrNotFound, id)
	}
	return nil
}

// GetLearningExamples returns all learned mappings in insertion order.
// Malformed rows are skipped with a warning, never surfaced as an error.
func (s *SQLiteStorage) GetLearningExamples(ctx context.Context) ([]model.LearningExample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, type, account_id
		FROM learning_examples ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning examples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var examples []model.LearningExample
	for rows.Next() {
		var ex model.LearningExample
		var typ string
		if err := rows.Scan(&ex.ID, &ex.Description, &ex.Amount, &typ, &ex.AccountID); err != nil {
			slog.Warn("Skipping malformed learning example row", "error", err)
			continue
		}
		ex.Type = model.TransactionType(typ)
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read learning examples: %w", err)
	}
	return examples, nil
}

// ReplaceCustomAccounts swaps the persisted custom chart of accounts for the
// given list. Full replacement, never a merge.
func (s *SQLiteStorage) ReplaceCustomAccounts(ctx context.Context, accounts []model.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_accounts`); err != nil {
		return fmt.Errorf("failed to clear custom accounts: %w", err)
	}
	for _, acc := range accounts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO custom_accounts (id, name, description) VALUES (?, ?, ?)`,
			acc.ID, acc.Name, acc.Description); err != nil {
			return fmt.Errorf("failed to save custom account %s: %w", acc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit custom accounts: %w", err)
	}
	return nil
}

// GetCustomAccounts returns the persisted custom chart of accounts.
func (s *SQLiteStorage) GetCustomAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, '')
		FROM custom_accounts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Description); err != nil {
			slog.Warn("Skipping malformed custom account row", "error", err)
			continue
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read custom accounts: %w", err)
	}
	return accounts, nil
}

// ReplaceTransactions swaps the persisted working batch for the given list.
// Each import replaces the prior batch wholesale.
func (s *SQLiteStorage) ReplaceTransactions(ctx context.Context, transactions []model.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	for _, txn := range transactions {
		if err := upsertTransaction(ctx, tx, txn); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// SaveTransaction upserts a single transaction in the working batch.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, transaction model.Transaction) error {
	return upsertTransaction(ctx, s.db, transaction)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertTransaction(ctx context.Context, db execer, txn model.Transaction) error {
	if txn.ID == "" {
		return fmt.Errorf("transaction has no id")
	}

	var accountID sql.NullString
	if txn.Reconciliation.AccountID != "" {
		accountID = sql.NullString{String: txn.Reconciliation.AccountID, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, description, amount, type, account_id, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			description = excluded.description,
			amount = excluded.amount,
			type = excluded.type,
			account_id = excluded.account_id,
			status = excluded.status`,
		txn.ID, txn.Date, txn.Description, txn.Amount, string(txn.Type),
		accountID, string(txn.Reconciliation.Status))
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
	}
	return nil
}

// GetTransactions returns the persisted working batch in insertion order.
// Rows violating the status/account invariant are repaired to unreconciled
// rather than dropped.
func (s *SQLiteStorage) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, amount, type, account_id, status
		FROM transactions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var typ, status string
		var accountID sql.NullString
		if err := rows.Scan(&txn.ID, &txn.Date, &txn.Description, &txn.Amount, &typ, &accountID, &status); err != nil {
			slog.Warn("Skipping malformed transaction row", "error", err)
			continue
		}
		txn.Type = model.TransactionType(typ)
		txn.Reconciliation = model.Reconciliation{
			AccountID: accountID.String,
			Status:    model.ReconciliationStatus(status),
		}
		if txn.Reconciliation.AccountID == "" {
			txn.Reconciliation.Status = model.StatusUnreconciled
		} else if txn.Reconciliation.Status == model.StatusUnreconciled {
			txn.Reconciliation = model.Reconciliation{Status: model.StatusUnreconciled}
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return transactions, nil
}

// SaveEvent appends one reconciliation event to the history.
func (s *SQLiteStorage) SaveEvent(ctx context.Context, event model.ReconciliationEvent) error {
	if event.ID == "" {
		return fmt.Errorf("event has no id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO events (id, timestamp, description, account_id, account_name, method)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.UTC().Format(time.RFC3339Nano), event.Description,
		event.AccountID, event.AccountName, string(event.Method))
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// GetEvents returns the reconciliation history in insertion order, which is
// chronological because events are appended as they happen. Sorting by the
// RFC3339Nano text would misorder fractional and whole-second timestamps
// inside the same second.
func (s *SQLiteStorage) GetEvents(ctx context.Context) ([]model.ReconciliationEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, description, account_id, account_name, method
		FROM events ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.ReconciliationEvent
	for rows.Next() {
		var ev model.ReconciliationEvent
		var ts, method string
		if err := rows.Scan(&ev.ID, &ts, &ev.Description, &ev.AccountID, &ev.AccountName, &method); err != nil {
			slog.Warn("Skipping malformed event row", "error", err)
			continue
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			slog.Warn("Skipping event with malformed timestamp", "id", ev.ID, "error", err)
			continue
		}
		ev.Timestamp = parsed
		ev.Method = model.ReconciliationStatus(method)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// GetSetting returns a setting value, or ErrNotFound when the key is absent.
func (s *SQLiteStorage) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: setting %s", common.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a setting value.
func (s *SQLiteStorage) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key is empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}
