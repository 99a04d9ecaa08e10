package statement

import (
	"math"

	"github.com/conciliafacil/concilia/internal/model"
	"github.com/google/uuid"
)

// Filter bounds an import by inclusive ISO dates. Empty strings mean
// unbounded; comparison is lexicographic, which is correct for YYYY-MM-DD.
type Filter struct {
	StartDate string
	EndDate   string
}

func (f Filter) includes(date string) bool {
	if f.StartDate != "" && date < f.StartDate {
		return false
	}
	if f.EndDate != "" && date > f.EndDate {
		return false
	}
	return true
}

// Normalize converts raw entries into canonical transactions: a fresh unique
// id, a non-negative magnitude with the sign moved into the type, and an
// unreconciled initial state. Entries outside the filter are dropped before
// ids are assigned.
func Normalize(raw []model.RawTransaction, filter Filter) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(raw))
	for _, entry := range raw {
		if !filter.includes(entry.Date) {
			continue
		}

		typ := model.TypeCredit
		if entry.Amount < 0 {
			typ = model.TypeDebit
		}

		transactions = append(transactions, model.Transaction{
			ID:             "tx-" + uuid.NewString(),
			Date:           entry.Date,
			Description:    entry.Description,
			Amount:         math.Abs(entry.Amount),
			Type:           typ,
			Reconciliation: model.Reconciliation{Status: model.StatusUnreconciled},
		})
	}
	return transactions
}
