package engine

import (
	"context"
	"sync"

	"github.com/conciliafacil/concilia/internal/model"
)

// MockClassifier is a test double for the external classifier boundary.
type MockClassifier struct {
	SuggestFunc  func(ctx context.Context, transactions []model.Transaction, accounts []model.Account, examples []model.LearningExample, documents []model.SupportingDocument) ([]model.Suggestion, error)
	calls        int
	lastExamples []model.LearningExample
	mu           sync.Mutex
}

// Suggest delegates to SuggestFunc and records the call.
func (m *MockClassifier) Suggest(ctx context.Context, transactions []model.Transaction, accounts []model.Account, examples []model.LearningExample, documents []model.SupportingDocument) ([]model.Suggestion, error) {
	m.mu.Lock()
	m.calls++
	m.lastExamples = examples
	m.mu.Unlock()

	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, transactions, accounts, examples, documents)
	}
	return nil, nil
}

// ExtractTransactions is unused by the engine tests.
func (m *MockClassifier) ExtractTransactions(_ context.Context, _ string) ([]model.RawTransaction, error) {
	return nil, nil
}

// ExtractAccounts is unused by the engine tests.
func (m *MockClassifier) ExtractAccounts(_ context.Context, _ string) ([]model.Account, error) {
	return nil, nil
}

// Calls returns how many times Suggest was invoked.
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastExamples returns the learning examples from the most recent call.
func (m *MockClassifier) LastExamples() []model.LearningExample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastExamples
}
