// Package workflow routes a free-text legal query to one of four task
// handlers: case search, verdict prediction, document generation, and
// document summarization/translation. Routing is a single LLM classification
// followed by a table dispatch; each handler is a short sequential pipeline
// of external-service calls.
package workflow

import "context"

// Label is the classification assigned to a query. The set is closed; any
// classifier output outside it maps to LabelUnknown.
type Label string

const (
	LabelCaseSearch         Label = "case_search"
	LabelVerdictPrediction  Label = "verdict_prediction"
	LabelDocumentGeneration Label = "document_generation"
	LabelPerformAction      Label = "perform_action"
	LabelUnknown            Label = "unknown"
)

// ParseLabel maps raw classifier output onto the closed label set.
func ParseLabel(s string) Label {
	switch Label(s) {
	case LabelCaseSearch, LabelVerdictPrediction, LabelDocumentGeneration, LabelPerformAction:
		return Label(s)
	default:
		return LabelUnknown
	}
}

// Request is one inbound query. A single explicit type; handlers never see
// anything else.
type Request struct {
	// UserInput is the free-text query. Required.
	UserInput string `json:"user_input"`

	// TargetLanguage optionally names the translation target as a 2-letter
	// code. When empty the perform-action handler extracts it from the text.
	TargetLanguage string `json:"targetLanguage,omitempty"`

	// Document optionally names the stored object a perform-action request
	// operates on. Upload responses carry this name; passing it forward
	// avoids the latest-upload fallback, which races under concurrent use.
	Document string `json:"document,omitempty"`

	// Classification is written once by Run before dispatch.
	Classification Label `json:"classification,omitempty"`
}

// Handler executes one task pipeline for a routed request.
type Handler interface {
	Handle(ctx context.Context, req *Request) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

func (f HandlerFunc) Handle(ctx context.Context, req *Request) (any, error) {
	return f(ctx, req)
}
