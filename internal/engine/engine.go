// Package engine implements the reconciliation state machine that governs
// how transactions move between unreconciled, automatic, and manual states.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
	"github.com/conciliafacil/concilia/internal/service"
	"github.com/google/uuid"
)

// Engine owns the in-memory transaction batch and enforces the precedence
// contract: manual reconciliations are never clobbered by automation.
type Engine struct {
	txns     map[string]*model.Transaction
	order    []string
	events   []model.ReconciliationEvent
	learner  Learner
	resolver AccountResolver
	mu       sync.Mutex
}

// New creates an engine with no transactions loaded.
func New(learner Learner, resolver AccountResolver) *Engine {
	return &Engine{
		txns:     make(map[string]*model.Transaction),
		learner:  learner,
		resolver: resolver,
	}
}

// SetTransactions replaces the working batch wholesale. Imports never merge
// with a prior batch.
func (e *Engine) SetTransactions(batch []model.Transaction) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.txns = make(map[string]*model.Transaction, len(batch))
	e.order = make([]string, 0, len(batch))
	for i := range batch {
		txn := batch[i]
		e.txns[txn.ID] = &txn
		e.order = append(e.order, txn.ID)
	}
}

// Transactions returns the batch in import order.
func (e *Engine) Transactions() []model.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.Transaction, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.txns[id])
	}
	return out
}

// Get returns a single transaction by id.
func (e *Engine) Get(id string) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn, ok := e.txns[id]
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return *txn, nil
}

// ApplyManual records a user decision for one transaction. A non-empty
// accountID moves it to MANUAL and emits a learning example built from the
// transaction's description and signed amount. An empty accountID is the
// manual unset: back to UNRECONCILED, no example emitted. Re-applying the
// same account is a no-op and leaves the history untouched.
func (e *Engine) ApplyManual(id, accountID string) error {
	e.mu.Lock()
	txn, ok := e.txns[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	if accountID == "" {
		txn.Reconciliation = model.Reconciliation{Status: model.StatusUnreconciled}
		e.mu.Unlock()
		slog.Info("reconciliation cleared", "transaction_id", id)
		return nil
	}

	if txn.Reconciliation.Status == model.StatusManual && txn.Reconciliation.AccountID == accountID {
		e.mu.Unlock()
		return nil
	}

	txn.Reconciliation = model.Reconciliation{AccountID: accountID, Status: model.StatusManual}
	example := model.NewLearningExampleFor(*txn, accountID)
	e.appendEvent(*txn, model.StatusManual)
	e.mu.Unlock()

	if e.learner != nil {
		if _, added := e.learner.Record(example); added {
			slog.Info("learning example recorded",
				"description", example.Description,
				"account_id", example.AccountID)
		}
	}

	slog.Info("transaction reconciled manually",
		"transaction_id", id,
		"account_id", accountID)
	return nil
}

// ApplySuggestions applies classifier suggestions to transactions that are
// still UNRECONCILED. Suggestions for manual, already-automatic, or unknown
// transactions are dropped silently. Returns the number applied.
func (e *Engine) ApplySuggestions(suggestions []model.Suggestion) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	applied := 0
	for _, s := range suggestions {
		txn, ok := e.txns[s.TransactionID]
		if !ok {
			continue
		}
		if txn.Reconciliation.Status != model.StatusUnreconciled {
			continue
		}
		txn.Reconciliation = model.Reconciliation{AccountID: s.AccountID, Status: model.StatusAutomatic}
		e.appendEvent(*txn, model.StatusAutomatic)
		applied++
	}

	if applied > 0 {
		slog.Info("suggestions applied", "applied", applied, "offered", len(suggestions))
	}
	return applied
}

// UpdateDescription edits a transaction's description. The edit is
// independent of reconciliation state and leaves it untouched.
func (e *Engine) UpdateDescription(id, description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn, ok := e.txns[id]
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	txn.Description = description
	return nil
}

// Reconcile captures a snapshot of the current batch, asks the classifier
// for suggestions, and applies them under the UNRECONCILED-only guard. The
// guard is what makes a stale response harmless: any transaction the user
// handled while the call was in flight is skipped.
func (e *Engine) Reconcile(ctx context.Context, classifier service.Classifier, accounts []model.Account, examples []model.LearningExample, documents []model.SupportingDocument) (int, error) {
	snapshot := e.Transactions()
	if len(snapshot) == 0 {
		return 0, common.ErrNoTransactions
	}

	suggestions, err := classifier.Suggest(ctx, snapshot, accounts, examples, documents)
	if err != nil {
		if errors.Is(err, common.ErrClassification) || errors.Is(err, common.ErrInvalidResponse) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", common.ErrClassification, err)
	}

	return e.ApplySuggestions(suggestions), nil
}

// Events returns the reconciliation history in chronological order.
func (e *Engine) Events() []model.ReconciliationEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.ReconciliationEvent, len(e.events))
	copy(out, e.events)
	return out
}

// SetEvents seeds previously persisted history.
func (e *Engine) SetEvents(events []model.ReconciliationEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = make([]model.ReconciliationEvent, len(events))
	copy(e.events, events)
}

// appendEvent must be called with the lock held.
func (e *Engine) appendEvent(txn model.Transaction, method model.ReconciliationStatus) {
	event := model.ReconciliationEvent{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Description: txn.Description,
		AccountID:   txn.Reconciliation.AccountID,
		Method:      method,
	}
	if e.resolver != nil {
		if acc, err := e.resolver.Find(txn.Reconciliation.AccountID); err == nil {
			event.AccountName = acc.Name
		}
	}
	e.events = append(e.events, event)
}

// Stats summarizes the batch for the status view.
type Stats struct {
	Total             int
	Reconciled        int
	PendingDebitTotal float64
}

// ReconciledPercent returns the reconciled share as 0-100.
func (s Stats) ReconciledPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Reconciled) / float64(s.Total) * 100
}

// Stats computes summary figures over the current batch. Pending amount
// counts only unreconciled debits, the open expenses a user cares about.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	var stats Stats
	stats.Total = len(e.order)
	for _, id := range e.order {
		txn := e.txns[id]
		if txn.IsReconciled() {
			stats.Reconciled++
		} else if txn.Type == model.TypeDebit {
			stats.PendingDebitTotal += txn.Amount
		}
	}
	return stats
}
