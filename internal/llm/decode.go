package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
)

// cleanResponse strips the Markdown code fences some models wrap around
// JSON despite instructions.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// repairArray applies the one bounded repair heuristic allowed on malformed
// responses: truncate to the span between the first array-open token and the
// last object-close token, then close the array. The caller re-validates.
func repairArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	lastBrace := strings.LastIndex(s, "}")
	if start == -1 || lastBrace <= start {
		return "", false
	}
	return s[start:lastBrace+1] + "]", true
}

type suggestionWire struct {
	TransactionID *string `json:"transactionId"`
	AccountID     *string `json:"accountId"`
}

// decodeSuggestions strictly decodes a classification response. Every entry
// must carry both fields as strings.
func decodeSuggestions(raw string) ([]model.Suggestion, error) {
	var wire []suggestionWire
	if err := json.Unmarshal([]byte(cleanResponse(raw)), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidResponse, err)
	}

	suggestions := make([]model.Suggestion, 0, len(wire))
	for i, w := range wire {
		if w.TransactionID == nil || w.AccountID == nil {
			return nil, fmt.Errorf("%w: suggestion %d is missing a field", common.ErrInvalidResponse, i)
		}
		suggestions = append(suggestions, model.Suggestion{
			TransactionID: *w.TransactionID,
			AccountID:     *w.AccountID,
		})
	}
	return suggestions, nil
}

type rawTransactionWire struct {
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
}

// decodeRawTransactions strictly decodes a statement-extraction response.
// A single incomplete entry rejects the whole batch.
func decodeRawTransactions(raw string) ([]model.RawTransaction, error) {
	var wire []rawTransactionWire
	if err := json.Unmarshal([]byte(cleanResponse(raw)), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidResponse, err)
	}

	entries := make([]model.RawTransaction, 0, len(wire))
	for i, w := range wire {
		if w.Date == nil || w.Description == nil || w.Amount == nil {
			return nil, fmt.Errorf("%w: extracted entry %d is missing a field", common.ErrInvalidResponse, i)
		}
		entries = append(entries, model.RawTransaction{
			Date:        *w.Date,
			Description: *w.Description,
			Amount:      *w.Amount,
		})
	}
	return entries, nil
}

type accountWire struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// decodeAccounts strictly decodes a chart-of-accounts extraction response,
// falling back to the bounded repair heuristic before giving up.
func decodeAccounts(raw string) ([]model.Account, error) {
	cleaned := cleanResponse(raw)

	accounts, err := decodeAccountsStrict(cleaned)
	if err == nil {
		return accounts, nil
	}

	repaired, ok := repairArray(cleaned)
	if !ok {
		return nil, err
	}
	accounts, repairErr := decodeAccountsStrict(repaired)
	if repairErr != nil {
		return nil, err
	}
	return accounts, nil
}

func decodeAccountsStrict(s string) ([]model.Account, error) {
	var wire []accountWire
	if err := json.Unmarshal([]byte(s), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidResponse, err)
	}

	accounts := make([]model.Account, 0, len(wire))
	for i, w := range wire {
		if w.ID == nil || w.Name == nil {
			return nil, fmt.Errorf("%w: account %d is missing a field", common.ErrInvalidResponse, i)
		}
		accounts = append(accounts, model.Account{ID: *w.ID, Name: *w.Name})
	}
	return accounts, nil
}
