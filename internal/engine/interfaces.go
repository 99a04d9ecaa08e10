package engine

import "github.com/conciliafacil/concilia/internal/model"

// Learner receives the examples emitted by manual reconciliations.
// The learning store's Record satisfies this.
type Learner interface {
	Record(example model.LearningExample) (model.LearningExample, bool)
}

// AccountResolver looks up account metadata for history events. A failed
// lookup is not an error here; dangling ids are surfaced as name-less events.
type AccountResolver interface {
	Find(id string) (model.Account, error)
}
