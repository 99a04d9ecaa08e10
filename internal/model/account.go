package model

// AccountPlan identifies which chart of accounts is active.
type AccountPlan string

const (
	// PlanReference is the built-in SPED reference chart of accounts.
	PlanReference AccountPlan = "reference"
	// PlanCustom is the user-supplied chart of accounts.
	PlanCustom AccountPlan = "custom"
)

// Account represents a single ledger account from a chart of accounts.
// Accounts are immutable once loaded.
type Account struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
