package learning

import (
	"testing"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func example(desc string, amount float64, accountID string) model.LearningExample {
	typ := model.TypeCredit
	if amount < 0 {
		typ = model.TypeDebit
	}
	return model.LearningExample{
		Description: desc,
		Amount:      amount,
		Type:        typ,
		AccountID:   accountID,
	}
}

func TestRecordAssignsIDAndDeduplicates(t *testing.T) {
	store := NewStore()

	first, added := store.Record(example("ENERGY CO", -150.00, "4.02.01.01.001"))
	require.True(t, added)
	assert.NotEmpty(t, first.ID)

	again, added := store.Record(example("ENERGY CO", -150.00, "4.02.01.01.001"))
	assert.False(t, added, "identical tuple must be discarded")
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, store.Len())
}

func TestRecordKeepsConflictingExamplesForSameDescription(t *testing.T) {
	store := NewStore()

	_, added := store.Record(example("ENERGY CO", -150.00, "4.02.01.01.001"))
	require.True(t, added)
	_, added = store.Record(example("ENERGY CO", -150.00, "4.02.02.01.001"))
	require.True(t, added, "dedup is by full value, not by description")
	_, added = store.Record(example("ENERGY CO", -98.50, "4.02.01.01.001"))
	require.True(t, added)

	assert.Equal(t, 3, store.Len())
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	store := NewStore()
	store.Record(example("A", -1, "4.01"))
	store.Record(example("B", -2, "4.02"))
	store.Record(example("C", 3, "3.01"))

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Description)
	assert.Equal(t, "B", all[1].Description)
	assert.Equal(t, "C", all[2].Description)
}

func TestRemove(t *testing.T) {
	store := NewStore()
	ex, _ := store.Record(example("A", -1, "4.01"))

	require.NoError(t, store.Remove(ex.ID))
	assert.Equal(t, 0, store.Len())

	assert.ErrorIs(t, store.Remove(ex.ID), common.ErrNotFound)
}

func TestNewStoreWithKeepsSeededIDs(t *testing.T) {
	seed := []model.LearningExample{
		{ID: "seed-1", Description: "A", Amount: -1, Type: model.TypeDebit, AccountID: "4.01"},
	}
	store := NewStoreWith(seed)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "seed-1", all[0].ID)

	// Seeding is a copy, not aliasing.
	seed[0].Description = "mutated"
	assert.Equal(t, "A", store.All()[0].Description)
}
