package workflow

import (
	"context"
	"fmt"
	"strings"

	"legalflow/internal/llm"
)

const classifyPrompt = `Classify the following user query:
- "case_search" if searching for similar legal cases.
- "verdict_prediction" if seeking a verdict prediction.
- "document_generation" if the query is regarding any kind of drafting or creation of a document.
- "perform_action" if the query is regarding summarizing or translating a document.

Query: %q
Output (case_search or verdict_prediction or document_generation or perform_action):`

const languageCodePrompt = `You are a helpful assistant that extracts the target language from a user's translation request.

Example queries and expected output:
- "translate this to Hindi" -> hi
- "I want my document translated into French" -> fr
- "please translate my PDF to Arabic" -> ar
- "can you convert this into Japanese?" -> ja

If no language is mentioned, return "en" for English.

Now extract the language code from this query:
%q

Respond only with the 2-letter ISO 639-1 language code.`

// Classifier maps free text onto the closed label set with a single LLM call.
type Classifier struct {
	provider llm.Provider
}

// NewClassifier creates a classifier backed by the given provider.
func NewClassifier(provider llm.Provider) *Classifier {
	return &Classifier{provider: provider}
}

// Classify returns the label for the request text. Empty input short-circuits
// to LabelUnknown without touching the completion endpoint.
func (c *Classifier) Classify(ctx context.Context, req *Request) (Label, error) {
	input := strings.TrimSpace(req.UserInput)
	if input == "" {
		return LabelUnknown, nil
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(classifyPrompt, input)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return LabelUnknown, fmt.Errorf("classification call failed: %w", err)
	}

	return ParseLabel(strings.ToLower(strings.TrimSpace(resp.Content))), nil
}

// ExtractLanguageCode pulls the 2-letter target-language code out of a
// translation request, defaulting to English.
func (c *Classifier) ExtractLanguageCode(ctx context.Context, query string) (string, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(languageCodePrompt, query)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("language extraction call failed: %w", err)
	}

	code := strings.ToLower(strings.TrimSpace(resp.Content))
	if len(code) != 2 {
		return "en", nil
	}
	return code, nil
}
