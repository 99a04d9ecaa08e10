// Package llm implements the classification gateway: the abstract boundary
// to the external LLM classifier that suggests accounts for transactions,
// extracts transactions from free-form statement text, and parses arbitrary
// chart-of-accounts documents.
package llm
