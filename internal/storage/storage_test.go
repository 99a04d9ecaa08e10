package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
	"github.com/conciliafacil/concilia/internal/testutil"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	require.NoError(t, db.Storage.Migrate(context.Background()))
}

func TestLearningExampleRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)

	first := model.LearningExample{
		ID: "ex-1", Description: "ENERGY CO", Amount: -150.00,
		Type: model.TypeDebit, AccountID: "3.01.01",
	}
	second := model.LearningExample{
		ID: "ex-2", Description: "CUSTOMER PAYMENT", Amount: 2500.00,
		Type: model.TypeCredit, AccountID: "4.01.01",
	}
	db.SeedLearningExamples([]model.LearningExample{first, second})

	examples, err := db.Storage.GetLearningExamples(context.Background())
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, first, examples[0])
	assert.Equal(t, second, examples[1])
}

func TestDeleteLearningExample(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	db.SeedLearningExamples([]model.LearningExample{{
		ID: "ex-1", Description: "ENERGY CO", Amount: -150.00,
		Type: model.TypeDebit, AccountID: "3.01.01",
	}})
	require.NoError(t, db.Storage.DeleteLearningExample(ctx, "ex-1"))

	examples, err := db.Storage.GetLearningExamples(ctx)
	require.NoError(t, err)
	assert.Empty(t, examples)

	err = db.Storage.DeleteLearningExample(ctx, "ex-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReplaceCustomAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Storage.ReplaceCustomAccounts(ctx, []model.Account{
		{ID: "1.01", Name: "Caixa"},
		{ID: "1.02", Name: "Bancos", Description: "Conta movimento"},
	}))

	require.NoError(t, db.Storage.ReplaceCustomAccounts(ctx, []model.Account{
		{ID: "2.01", Name: "Fornecedores"},
	}))

	accounts, err := db.Storage.GetCustomAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "2.01", accounts[0].ID)
}

func TestReplaceCustomAccountsWithEmptyListClears(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Storage.ReplaceCustomAccounts(ctx, []model.Account{{ID: "1.01", Name: "Caixa"}}))
	require.NoError(t, db.Storage.ReplaceCustomAccounts(ctx, nil))

	accounts, err := db.Storage.GetCustomAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestTransactionBatchRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)

	batch := []model.Transaction{
		{
			ID: "tx-1", Date: "2024-03-01", Description: "ENERGY CO",
			Amount: 150.00, Type: model.TypeDebit,
			Reconciliation: model.Reconciliation{AccountID: "3.01.01", Status: model.StatusManual},
		},
		{
			ID: "tx-2", Date: "2024-03-02", Description: "CUSTOMER PAYMENT",
			Amount: 2500.00, Type: model.TypeCredit,
			Reconciliation: model.Reconciliation{Status: model.StatusUnreconciled},
		},
	}
	db.SeedTransactions(batch)

	loaded, err := db.Storage.GetTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, batch, loaded)
}

func TestReplaceTransactionsDropsPriorBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)

	db.SeedTransactions([]model.Transaction{
		{ID: "tx-old", Date: "2024-01-01", Description: "OLD", Amount: 1,
			Type: model.TypeDebit, Reconciliation: model.Reconciliation{Status: model.StatusUnreconciled}},
	})
	db.SeedTransactions([]model.Transaction{
		{ID: "tx-new", Date: "2024-02-01", Description: "NEW", Amount: 2,
			Type: model.TypeCredit, Reconciliation: model.Reconciliation{Status: model.StatusUnreconciled}},
	})

	loaded, err := db.Storage.GetTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "tx-new", loaded[0].ID)
}

func TestSaveTransactionUpdatesSingleRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	txn := model.Transaction{
		ID: "tx-1", Date: "2024-03-01", Description: "ENERGY CO",
		Amount: 150.00, Type: model.TypeDebit,
		Reconciliation: model.Reconciliation{Status: model.StatusUnreconciled},
	}
	db.SeedTransactions([]model.Transaction{txn})

	txn.Reconciliation = model.Reconciliation{AccountID: "3.01.01", Status: model.StatusAutomatic}
	require.NoError(t, db.Storage.SaveTransaction(ctx, txn))

	loaded, err := db.Storage.GetTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, model.StatusAutomatic, loaded[0].Reconciliation.Status)
	assert.Equal(t, "3.01.01", loaded[0].Reconciliation.AccountID)
}

func TestEventRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	first := model.ReconciliationEvent{
		ID:          "ev-1",
		Timestamp:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Description: "ENERGY CO",
		AccountID:   "3.01.01",
		AccountName: "Despesas com Energia Elétrica",
		Method:      model.StatusManual,
	}
	second := model.ReconciliationEvent{
		ID:          "ev-2",
		Timestamp:   time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		Description: "CUSTOMER PAYMENT",
		AccountID:   "4.01.01",
		Method:      model.StatusAutomatic,
	}

	require.NoError(t, db.Storage.SaveEvent(ctx, first))
	require.NoError(t, db.Storage.SaveEvent(ctx, second))

	events, err := db.Storage.GetEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, first.Timestamp, events[0].Timestamp)
	assert.Equal(t, model.StatusManual, events[0].Method)
	assert.Equal(t, "ev-2", events[1].ID)
}

func TestGetEventsKeepsOrderWithinSameSecond(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	// A whole-second timestamp and a fractional one in the same second sort
	// the wrong way around as RFC3339Nano text ('Z' > '.'); insertion order
	// must win.
	whole := model.ReconciliationEvent{
		ID:        "ev-whole",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC),
		Method:    model.StatusManual,
	}
	fractional := model.ReconciliationEvent{
		ID:        "ev-frac",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 5, 500_000_000, time.UTC),
		Method:    model.StatusAutomatic,
	}

	require.NoError(t, db.Storage.SaveEvent(ctx, whole))
	require.NoError(t, db.Storage.SaveEvent(ctx, fractional))

	events, err := db.Storage.GetEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev-whole", events[0].ID)
	assert.Equal(t, "ev-frac", events[1].ID)
}

func TestSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := db.Storage.GetSetting(ctx, "active_plan")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, db.Storage.SetSetting(ctx, "active_plan", "custom"))
	value, err := db.Storage.GetSetting(ctx, "active_plan")
	require.NoError(t, err)
	assert.Equal(t, "custom", value)

	require.NoError(t, db.Storage.SetSetting(ctx, "active_plan", "reference"))
	value, err = db.Storage.GetSetting(ctx, "active_plan")
	require.NoError(t, err)
	assert.Equal(t, "reference", value)
}
