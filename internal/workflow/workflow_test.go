package workflow

import (
	"context"
	"errors"
	"testing"

	"legalflow/internal/llm"
)

// stubProvider returns a fixed completion and counts calls.
type stubProvider struct {
	content string
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func TestParseLabelClosedSet(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"case_search", LabelCaseSearch},
		{"verdict_prediction", LabelVerdictPrediction},
		{"document_generation", LabelDocumentGeneration},
		{"perform_action", LabelPerformAction},
		{"unknown", LabelUnknown},
		{"", LabelUnknown},
		{"case search", LabelUnknown},
		{"CASE_SEARCH", LabelUnknown},
		{"something else entirely", LabelUnknown},
	}

	for _, tt := range tests {
		if got := ParseLabel(tt.in); got != tt.want {
			t.Errorf("ParseLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyEmptyInputSkipsLLM(t *testing.T) {
	stub := &stubProvider{content: "case_search"}
	c := NewClassifier(stub)

	for _, input := range []string{"", "   ", "\n\t"} {
		label, err := c.Classify(context.Background(), &Request{UserInput: input})
		if err != nil {
			t.Fatalf("Classify(%q): %v", input, err)
		}
		if label != LabelUnknown {
			t.Errorf("Classify(%q) = %q, want unknown", input, label)
		}
	}

	if stub.calls != 0 {
		t.Errorf("expected zero completion calls for empty input, got %d", stub.calls)
	}
}

func TestClassifyNormalizesResponse(t *testing.T) {
	stub := &stubProvider{content: "  Verdict_Prediction\n"}
	c := NewClassifier(stub)

	label, err := c.Classify(context.Background(), &Request{UserInput: "what verdict should I expect?"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if label != LabelVerdictPrediction {
		t.Errorf("expected verdict_prediction, got %q", label)
	}
}

func TestClassifyUnexpectedResponseIsUnknown(t *testing.T) {
	stub := &stubProvider{content: "I think this is about contracts."}
	c := NewClassifier(stub)

	label, err := c.Classify(context.Background(), &Request{UserInput: "some query"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if label != LabelUnknown {
		t.Errorf("expected unknown, got %q", label)
	}
}

func TestRunDispatchesToRegisteredHandler(t *testing.T) {
	stub := &stubProvider{content: "case_search"}
	w := New(NewClassifier(stub))

	var handled *Request
	w.Register(LabelCaseSearch, HandlerFunc(func(ctx context.Context, req *Request) (any, error) {
		handled = req
		return "ok", nil
	}))

	req := &Request{UserInput: "find cases like mine"}
	result, err := w.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != "ok" {
		t.Errorf("unexpected result %v", result)
	}
	if handled == nil {
		t.Fatal("handler was not invoked")
	}
	if req.Classification != LabelCaseSearch {
		t.Errorf("expected classification recorded on request, got %q", req.Classification)
	}
}

func TestRunUnknownLabelHasNoRoute(t *testing.T) {
	stub := &stubProvider{content: "gibberish"}
	w := New(NewClassifier(stub))
	w.Register(LabelCaseSearch, HandlerFunc(func(ctx context.Context, req *Request) (any, error) {
		t.Fatal("handler must not run for unknown label")
		return nil, nil
	}))

	_, err := w.Run(context.Background(), &Request{UserInput: "some query"})
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
}

func TestRunRegisterUnknownIgnored(t *testing.T) {
	stub := &stubProvider{content: "nonsense"}
	w := New(NewClassifier(stub))
	w.Register(LabelUnknown, HandlerFunc(func(ctx context.Context, req *Request) (any, error) {
		return "should never run", nil
	}))

	_, err := w.Run(context.Background(), &Request{UserInput: "some query"})
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("expected ErrNoRoute even with unknown handler registered, got %v", err)
	}
}

func TestRunPropagatesClassifierError(t *testing.T) {
	stub := &stubProvider{err: errors.New("api down")}
	w := New(NewClassifier(stub))

	_, err := w.Run(context.Background(), &Request{UserInput: "some query"})
	if err == nil {
		t.Fatal("expected error from failing classifier")
	}
}

func TestExtractLanguageCode(t *testing.T) {
	tests := []struct {
		response string
		want     string
	}{
		{"hi", "hi"},
		{" FR \n", "fr"},
		{"english", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		stub := &stubProvider{content: tt.response}
		c := NewClassifier(stub)
		got, err := c.ExtractLanguageCode(context.Background(), "translate my document")
		if err != nil {
			t.Fatalf("ExtractLanguageCode: %v", err)
		}
		if got != tt.want {
			t.Errorf("response %q: got %q, want %q", tt.response, got, tt.want)
		}
	}
}
