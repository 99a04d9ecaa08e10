// Package export renders the reconciled subset of a transaction batch into
// double-entry journal representations in several output encodings.
package export

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
)

// Entry is one double-entry journal line derived from a reconciled
// transaction and the designated counterpart account.
type Entry struct {
	Date          string
	Description   string
	DebitAccount  string
	CreditAccount string
	Amount        float64
}

// BuildJournal derives journal entries from the reconciled subset of a batch.
// The counterpart account takes the bank side of every entry: a DEBIT
// transaction debits the reconciled account and credits the counterpart, a
// CREDIT transaction does the reverse.
func BuildJournal(transactions []model.Transaction, counterpart string) ([]Entry, error) {
	if counterpart == "" {
		return nil, common.ErrNoCounterpart
	}

	entries := make([]Entry, 0, len(transactions))
	for _, txn := range transactions {
		if !txn.IsReconciled() {
			continue
		}

		entry := Entry{
			Date:        txn.Date,
			Description: txn.Description,
			Amount:      txn.Amount,
		}
		if txn.Type == model.TypeDebit {
			entry.DebitAccount = txn.Reconciliation.AccountID
			entry.CreditAccount = counterpart
		} else {
			entry.DebitAccount = counterpart
			entry.CreditAccount = txn.Reconciliation.AccountID
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, common.ErrNothingToExport
	}
	return entries, nil
}

// formatAmount renders a monetary value with two decimal places and a comma
// as the decimal separator.
func formatAmount(amount float64) string {
	return strings.Replace(decimal.NewFromFloat(amount).StringFixed(2), ".", ",", 1)
}
