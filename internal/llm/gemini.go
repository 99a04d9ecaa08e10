package llm

import (
	"context"
	"fmt"

	"github.com/conciliafacil/concilia/internal/model"
	"google.golang.org/genai"
)

// geminiClient implements Client against the Gemini API.
type geminiClient struct {
	client *genai.Client
}

func newGeminiClient(ctx context.Context, apiKey string) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{client: client}, nil
}

// GenerateJSON sends the prompt with JSON-only output requested. Text
// documents travel as additional text parts, binary ones as inline blobs.
func (g *geminiClient) GenerateJSON(ctx context.Context, modelName, prompt string, documents []model.SupportingDocument) (string, error) {
	parts := []*genai.Part{{Text: prompt}}

	for _, doc := range documents {
		if doc.IsText() {
			parts = append(parts, &genai.Part{
				Text: fmt.Sprintf("Supporting document %q:\n%s", doc.Name, doc.Content),
			})
			continue
		}

		data, err := doc.DecodeBinary()
		if err != nil {
			return "", err
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: doc.MIMEType,
				Data:     data,
			},
		})
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", modelName)
	}
	return text, nil
}
