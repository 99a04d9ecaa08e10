package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conciliafacil/concilia/internal/model"
)

// transactionPayload is the slimmed-down transaction view sent to the
// classifier: no reconciliation state, no dates.
type transactionPayload struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

// buildSuggestPrompt assembles the reconciliation prompt. Learning examples
// come first and are framed as golden rules so they outrank the general
// account list; the final pick is still the classifier's call.
func buildSuggestPrompt(transactions []transactionPayload, accounts []model.Account, examples []model.LearningExample) string {
	var b strings.Builder

	b.WriteString("You are an expert accounting assistant. Suggest the correct ledger account for each of the bank transactions below, based on the chart of accounts provided.\n\n")

	if len(examples) > 0 {
		b.WriteString("Use the following rules, derived from the user's manual corrections, as the highest priority for reconciliation. These are golden rules and must be followed:\n")
		for _, ex := range examples {
			name := ""
			for _, acc := range accounts {
				if acc.ID == ex.AccountID {
					name = " (" + acc.Name + ")"
					break
				}
			}
			fmt.Fprintf(&b, "- For transactions with a description similar to %q, use account %s%s\n", ex.Description, ex.AccountID, name)
		}
		b.WriteString("\n")
	}

	b.WriteString("Chart of accounts available (the rules above take priority):\n")
	for _, acc := range accounts {
		fmt.Fprintf(&b, "- %s: %s\n", acc.ID, acc.Name)
	}

	payload, _ := json.MarshalIndent(transactions, "", "  ")
	b.WriteString("\nTransactions to reconcile:\n")
	b.Write(payload)

	b.WriteString(`

Analyze each transaction and return the id of the most appropriate account from the chart of accounts.
Respond with a JSON array of objects, each containing "transactionId" and "accountId".

Example response:
[
  { "transactionId": "tx-12345-0", "accountId": "4.02.01.01.002" },
  { "transactionId": "tx-12345-1", "accountId": "2.01.01.01.001" }
]`)

	return b.String()
}

// buildExtractTransactionsPrompt asks for raw statement entries as strict JSON.
func buildExtractTransactionsPrompt(statementText string) string {
	return fmt.Sprintf(`Analyze the following bank statement and extract the transactions. Return a JSON array of objects where each object represents one transaction and has the keys "date" (format "YYYY-MM-DD"), "description" (a clean description), and "amount" (a number, negative for debits, positive for credits).

Return ONLY valid raw JSON. Do not wrap the response in code fences.

Statement:
%s`, statementText)
}

// buildExtractAccountsPrompt asks for (id, name) pairs from an arbitrary
// chart-of-accounts document.
func buildExtractAccountsPrompt(fileContent string) string {
	return fmt.Sprintf(`You are an accounting specialist. Analyze the following text, which contains a chart of accounts, and extract every account into JSON. The text format may vary (CSV, list, etc.). Return a JSON array of objects where each object has the keys "id" (the account code) and "name" (the account name).

Example input lines:
"1.01.01.01.001, Caixa Geral"
"Ativo Circulante;1.01"

File content:
%s`, fileContent)
}
