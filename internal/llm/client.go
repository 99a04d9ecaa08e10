package llm

import (
	"context"

	"github.com/conciliafacil/concilia/internal/model"
)

// Client is the low-level provider boundary. Implementations send one prompt
// (plus optional supporting documents) and return the raw response text,
// which the gateway decodes and validates.
type Client interface {
	GenerateJSON(ctx context.Context, modelName, prompt string, documents []model.SupportingDocument) (string, error)
}
