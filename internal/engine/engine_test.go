package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/learning"
	"github.com/conciliafacil/concilia/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *learning.Store) {
	t.Helper()
	store := learning.NewStore()
	return New(store, nil), store
}

func testBatch() []model.Transaction {
	return []model.Transaction{
		{
			ID:             "tx-1",
			Date:           "2024-03-01",
			Description:    "ENERGY CO",
			Amount:         150.00,
			Type:           model.TypeDebit,
			Reconciliation: model.Reconciliation{Status: model.StatusUnreconciled},
		},
		{
			ID:             "tx-2",
			Date:           "2024-03-02",
			Description:    "CUSTOMER PAYMENT",
			Amount:         2500.00,
			Type:           model.TypeCredit,
			Reconciliation: model.Reconciliation{Status: model.StatusUnreconciled},
		},
		{
			ID:             "tx-3",
			Date:           "2024-03-03",
			Description:    "OFFICE RENT",
			Amount:         1200.00,
			Type:           model.TypeDebit,
			Reconciliation: model.Reconciliation{Status: model.StatusUnreconciled},
		},
	}
}

func TestSetTransactionsReplacesBatch(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())
	require.Len(t, e.Transactions(), 3)

	e.SetTransactions([]model.Transaction{testBatch()[0]})
	txns := e.Transactions()
	require.Len(t, txns, 1, "import replaces, never merges")
	assert.Equal(t, "tx-1", txns[0].ID)
}

func TestStatusAndAccountInvariant(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))
	require.NoError(t, e.ApplyManual("tx-1", ""))

	for _, txn := range e.Transactions() {
		unreconciled := txn.Reconciliation.Status == model.StatusUnreconciled
		noAccount := txn.Reconciliation.AccountID == ""
		assert.Equal(t, unreconciled, noAccount,
			"accountId empty iff status unreconciled (tx %s)", txn.ID)
	}
}

func TestApplyManualSetsManualAndRecordsExample(t *testing.T) {
	e, store := newTestEngine(t)
	e.SetTransactions(testBatch())

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))

	txn, err := e.Get("tx-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusManual, txn.Reconciliation.Status)
	assert.Equal(t, "4.02.01.01.001", txn.Reconciliation.AccountID)

	examples := store.All()
	require.Len(t, examples, 1)
	assert.Equal(t, "ENERGY CO", examples[0].Description)
	assert.InDelta(t, -150.00, examples[0].Amount, 0.001)
	assert.Equal(t, model.TypeDebit, examples[0].Type)
	assert.Equal(t, "4.02.01.01.001", examples[0].AccountID)
}

func TestApplyManualTwiceIsIdempotent(t *testing.T) {
	e, store := newTestEngine(t)
	e.SetTransactions(testBatch())

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))
	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))

	txn, err := e.Get("tx-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusManual, txn.Reconciliation.Status)
	assert.Equal(t, 1, store.Len(), "duplicate example suppressed")
	assert.Len(t, e.Events(), 1, "re-applying the same account records no event")

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.002"))
	assert.Len(t, e.Events(), 2, "a different account is a real change")
}

func TestApplyManualUnset(t *testing.T) {
	e, store := newTestEngine(t)
	e.SetTransactions(testBatch())

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))
	require.NoError(t, e.ApplyManual("tx-1", ""))

	txn, err := e.Get("tx-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnreconciled, txn.Reconciliation.Status)
	assert.Empty(t, txn.Reconciliation.AccountID)
	assert.Equal(t, 1, store.Len(), "unset emits no example")
}

func TestApplyManualUnknownTransaction(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())
	assert.ErrorIs(t, e.ApplyManual("missing", "4.01"), common.ErrNotFound)
}

func TestApplySuggestionsOnlyTouchesUnreconciled(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))

	applied := e.ApplySuggestions([]model.Suggestion{
		{TransactionID: "tx-1", AccountID: "9.99"}, // manual, must not move
		{TransactionID: "tx-2", AccountID: "3.01.01.01.001"},
		{TransactionID: "tx-3", AccountID: "4.02.01.02.001"},
		{TransactionID: "ghost", AccountID: "4.01"}, // unknown, dropped
	})
	assert.Equal(t, 2, applied)

	manual, _ := e.Get("tx-1")
	assert.Equal(t, model.StatusManual, manual.Reconciliation.Status)
	assert.Equal(t, "4.02.01.01.001", manual.Reconciliation.AccountID)

	auto, _ := e.Get("tx-2")
	assert.Equal(t, model.StatusAutomatic, auto.Reconciliation.Status)
}

func TestApplySuggestionsIsStableUnderRepetition(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	suggestions := []model.Suggestion{{TransactionID: "tx-2", AccountID: "3.01.01.01.001"}}
	assert.Equal(t, 1, e.ApplySuggestions(suggestions))
	assert.Equal(t, 0, e.ApplySuggestions(suggestions), "already automatic, dropped")

	conflicting := []model.Suggestion{{TransactionID: "tx-2", AccountID: "9.99"}}
	assert.Equal(t, 0, e.ApplySuggestions(conflicting))

	txn, _ := e.Get("tx-2")
	assert.Equal(t, "3.01.01.01.001", txn.Reconciliation.AccountID)
}

func TestManualEscalatesAutomaticButNeverTheReverse(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	e.ApplySuggestions([]model.Suggestion{{TransactionID: "tx-3", AccountID: "4.02.01.02.001"}})
	require.NoError(t, e.ApplyManual("tx-3", "4.02.01.02.002"))

	txn, _ := e.Get("tx-3")
	assert.Equal(t, model.StatusManual, txn.Reconciliation.Status)
	assert.Equal(t, "4.02.01.02.002", txn.Reconciliation.AccountID)

	e.ApplySuggestions([]model.Suggestion{{TransactionID: "tx-3", AccountID: "4.02.01.02.001"}})
	txn, _ = e.Get("tx-3")
	assert.Equal(t, model.StatusManual, txn.Reconciliation.Status, "manual is sticky")
	assert.Equal(t, "4.02.01.02.002", txn.Reconciliation.AccountID)
}

func TestUpdateDescriptionLeavesReconciliationAlone(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))
	require.NoError(t, e.UpdateDescription("tx-1", "ENERGY CO MARCH BILL"))

	txn, _ := e.Get("tx-1")
	assert.Equal(t, "ENERGY CO MARCH BILL", txn.Description)
	assert.Equal(t, model.StatusManual, txn.Reconciliation.Status)
	assert.Equal(t, "4.02.01.01.001", txn.Reconciliation.AccountID)

	assert.ErrorIs(t, e.UpdateDescription("missing", "x"), common.ErrNotFound)
}

func TestReconcileAppliesClassifierSuggestions(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	classifier := &MockClassifier{
		SuggestFunc: func(_ context.Context, txns []model.Transaction, _ []model.Account, _ []model.LearningExample, _ []model.SupportingDocument) ([]model.Suggestion, error) {
			require.Len(t, txns, 3, "engine passes the full snapshot; the gateway filters")
			return []model.Suggestion{
				{TransactionID: "tx-1", AccountID: "4.02.01.01.001"},
			}, nil
		},
	}

	applied, err := e.Reconcile(context.Background(), classifier, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	txn, _ := e.Get("tx-1")
	assert.Equal(t, model.StatusAutomatic, txn.Reconciliation.Status)
}

func TestReconcileFailureLeavesStateUntouched(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	classifier := &MockClassifier{
		SuggestFunc: func(context.Context, []model.Transaction, []model.Account, []model.LearningExample, []model.SupportingDocument) ([]model.Suggestion, error) {
			return nil, errors.New("network down")
		},
	}

	_, err := e.Reconcile(context.Background(), classifier, nil, nil, nil)
	require.ErrorIs(t, err, common.ErrClassification)

	for _, txn := range e.Transactions() {
		assert.Equal(t, model.StatusUnreconciled, txn.Reconciliation.Status)
	}
}

func TestReconcilePreservesResponseErrors(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	classifier := &MockClassifier{
		SuggestFunc: func(context.Context, []model.Transaction, []model.Account, []model.LearningExample, []model.SupportingDocument) ([]model.Suggestion, error) {
			return nil, fmt.Errorf("%w: suggestion 0 is missing a field", common.ErrInvalidResponse)
		},
	}

	_, err := e.Reconcile(context.Background(), classifier, nil, nil, nil)
	require.ErrorIs(t, err, common.ErrInvalidResponse)
	assert.NotErrorIs(t, err, common.ErrClassification)
}

func TestReconcileEmptyBatch(t *testing.T) {
	e, _ := newTestEngine(t)
	classifier := &MockClassifier{}

	_, err := e.Reconcile(context.Background(), classifier, nil, nil, nil)
	assert.ErrorIs(t, err, common.ErrNoTransactions)
	assert.Equal(t, 0, classifier.Calls())
}

func TestStaleResponseAfterManualAction(t *testing.T) {
	// Simulates a late-arriving classifier response: the user reconciled
	// tx-1 manually while the call was in flight. The suggestion for tx-1
	// must be dropped; the other still lands.
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	stale := []model.Suggestion{
		{TransactionID: "tx-1", AccountID: "9.99"},
		{TransactionID: "tx-2", AccountID: "3.01.01.01.001"},
	}

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))
	assert.Equal(t, 1, e.ApplySuggestions(stale))

	txn, _ := e.Get("tx-1")
	assert.Equal(t, "4.02.01.01.001", txn.Reconciliation.AccountID)
}

func TestEventsRecordHistory(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))
	e.ApplySuggestions([]model.Suggestion{{TransactionID: "tx-2", AccountID: "3.01.01.01.001"}})
	require.NoError(t, e.ApplyManual("tx-1", "")) // unset records nothing

	events := e.Events()
	require.Len(t, events, 2)
	assert.Equal(t, model.StatusManual, events[0].Method)
	assert.Equal(t, "ENERGY CO", events[0].Description)
	assert.Equal(t, model.StatusAutomatic, events[1].Method)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestStats(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTransactions(testBatch())

	stats := e.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 0, stats.Reconciled)
	assert.InDelta(t, 1350.00, stats.PendingDebitTotal, 0.001)
	assert.InDelta(t, 0.0, stats.ReconciledPercent(), 0.001)

	require.NoError(t, e.ApplyManual("tx-1", "4.02.01.01.001"))
	stats = e.Stats()
	assert.Equal(t, 1, stats.Reconciled)
	assert.InDelta(t, 1200.00, stats.PendingDebitTotal, 0.001)
	assert.InDelta(t, 100.0/3.0, stats.ReconciledPercent(), 0.01)
}
