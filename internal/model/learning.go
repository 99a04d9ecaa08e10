package model

// LearningExample is a user-confirmed (description, amount, type) → account
// mapping derived from a manual reconciliation. Amount is signed: negative
// for debits, positive for credits.
type LearningExample struct {
	ID          string
	Description string
	Amount      float64
	Type        TransactionType
	AccountID   string
}

// SameValues reports whether two examples carry identical values, ignoring
// their generated IDs. The learning store dedupes on this, not on description
// alone, so conflicting historical corrections may co-exist.
func (e LearningExample) SameValues(other LearningExample) bool {
	return e.Description == other.Description &&
		e.Amount == other.Amount &&
		e.Type == other.Type &&
		e.AccountID == other.AccountID
}

// NewLearningExampleFor builds the example recorded when a transaction is
// manually reconciled to an account.
func NewLearningExampleFor(t Transaction, accountID string) LearningExample {
	return LearningExample{
		Description: t.Description,
		Amount:      t.SignedAmount(),
		Type:        t.Type,
		AccountID:   accountID,
	}
}
