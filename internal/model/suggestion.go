package model

import "time"

// Suggestion is a single classifier proposal mapping a transaction to an
// account. Suggestions only ever apply to unreconciled transactions.
type Suggestion struct {
	TransactionID string `json:"transactionId"`
	AccountID     string `json:"accountId"`
}

// ReconciliationEvent records one applied reconciliation for the history view.
type ReconciliationEvent struct {
	ID          string
	Timestamp   time.Time
	Description string
	AccountID   string
	AccountName string
	Method      ReconciliationStatus // StatusAutomatic or StatusManual
}
