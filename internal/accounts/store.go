// Package accounts holds the chart-of-accounts store: a read-only reference
// plan, a replaceable custom plan, and the active-plan selector.
package accounts

import (
	"fmt"
	"sync"

	"github.com/conciliafacil/concilia/internal/common"
	"github.com/conciliafacil/concilia/internal/model"
)

// Store manages the two account plans. Switching the active plan never
// touches existing reconciliations; a reconciled account id missing from
// the newly active plan is simply reported as not found by lookups.
type Store struct {
	reference []model.Account
	custom    []model.Account
	active    model.AccountPlan
	mu        sync.RWMutex
}

// NewStore creates a store with the built-in reference plan active.
func NewStore() *Store {
	return &Store{
		reference: ReferencePlan(),
		active:    model.PlanReference,
	}
}

// ActivePlan returns the currently selected plan.
func (s *Store) ActivePlan() model.AccountPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActivePlan switches between the reference and custom plans.
func (s *Store) SetActivePlan(plan model.AccountPlan) error {
	if plan != model.PlanReference && plan != model.PlanCustom {
		return fmt.Errorf("unknown account plan %q", plan)
	}
	s.mu.Lock()
	s.active = plan
	s.mu.Unlock()
	return nil
}

// ActiveAccounts returns a copy of the active plan's account list.
func (s *Store) ActiveAccounts() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.reference
	if s.active == model.PlanCustom {
		src = s.custom
	}
	out := make([]model.Account, len(src))
	copy(out, src)
	return out
}

// CustomAccounts returns a copy of the custom plan regardless of selection.
func (s *Store) CustomAccounts() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Account, len(s.custom))
	copy(out, s.custom)
	return out
}

// ReplaceCustomAccounts swaps the custom plan in full. There is no merge.
func (s *Store) ReplaceCustomAccounts(list []model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom = make([]model.Account, len(list))
	copy(s.custom, list)
}

// RemoveCustomAccount deletes one account from the custom plan.
func (s *Store) RemoveCustomAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, acc := range s.custom {
		if acc.ID == id {
			s.custom = append(s.custom[:i], s.custom[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("custom account %s: %w", id, common.ErrNotFound)
}

// ClearCustomAccounts empties the custom plan.
func (s *Store) ClearCustomAccounts() {
	s.mu.Lock()
	s.custom = nil
	s.mu.Unlock()
}

// Find looks an account up in the active plan.
func (s *Store) Find(id string) (model.Account, error) {
	for _, acc := range s.ActiveAccounts() {
		if acc.ID == id {
			return acc, nil
		}
	}
	return model.Account{}, fmt.Errorf("account %s: %w", id, common.ErrNotFound)
}
