// Package learning holds the append-only store of user-confirmed
// description→account examples that feed back into automated suggestions.
package learning

import (
	"fmt"
	"sync"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
	"github.com/google/uuid"
)

// Store keeps learning examples in insertion order. Examples are deduplicated
// by full value equality only, so two corrections for the same description but
// different accounts co-exist; resolving that ambiguity is the classifier's
// business, not the store's.
type Store struct {
	examples []model.LearningExample
	mu       sync.RWMutex
}

// NewStore creates an empty learning store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWith seeds a store with previously persisted examples, keeping
// their order and ids.
func NewStoreWith(examples []model.LearningExample) *Store {
	s := &Store{examples: make([]model.LearningExample, len(examples))}
	copy(s.examples, examples)
	return s
}

// Record appends an example unless an identical one already exists. It
// returns whether the example was newly added, assigning a fresh id on add.
func (s *Store) Record(example model.LearningExample) (model.LearningExample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.examples {
		if existing.SameValues(example) {
			return existing, false
		}
	}

	if example.ID == "" {
		example.ID = uuid.NewString()
	}
	s.examples = append(s.examples, example)
	return example, true
}

// All returns the examples in insertion order.
func (s *Store) All() []model.LearningExample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LearningExample, len(s.examples))
	copy(out, s.examples)
	return out
}

// Remove deletes the example with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ex := range s.examples {
		if ex.ID == id {
			s.examples = append(s.examples[:i], s.examples[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("learning example %s: %w", id, common.ErrNotFound)
}

// Len returns the number of stored examples.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.examples)
}
