// Package model defines the core domain models used throughout the application.
package model

// TransactionType indicates the direction of a bank transaction.
type TransactionType string

// Transaction type constants.
const (
	TypeDebit  TransactionType = "DEBIT"
	TypeCredit TransactionType = "CREDIT"
)

// ReconciliationStatus indicates how a transaction was matched to an account.
type ReconciliationStatus string

// Reconciliation status constants.
const (
	// StatusUnreconciled is the only initial status; it always pairs with a nil account.
	StatusUnreconciled ReconciliationStatus = "UNRECONCILED"
	// StatusAutomatic is set when a classifier suggestion is applied.
	StatusAutomatic ReconciliationStatus = "AUTOMATIC"
	// StatusManual is set by direct user action and is never overwritten by automation.
	StatusManual ReconciliationStatus = "MANUAL"
)

// Reconciliation holds a transaction's current match against the chart of accounts.
// Invariant: AccountID == "" exactly when Status == StatusUnreconciled.
type Reconciliation struct {
	AccountID string
	Status    ReconciliationStatus
}

// RawTransaction is a statement entry before normalization. Amount keeps the
// sign from the source: negative for debits, positive for credits.
type RawTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Transaction represents a single normalized bank transaction.
type Transaction struct {
	ID             string
	Date           string // ISO calendar date, YYYY-MM-DD
	Description    string
	Amount         float64 // non-negative magnitude; direction lives in Type
	Type           TransactionType
	Reconciliation Reconciliation
}

// SignedAmount returns the amount with its original statement sign restored.
func (t Transaction) SignedAmount() float64 {
	if t.Type == TypeDebit {
		return -t.Amount
	}
	return t.Amount
}

// IsReconciled reports whether the transaction has been matched to an account.
func (t Transaction) IsReconciled() bool {
	return t.Reconciliation.Status != StatusUnreconciled
}
