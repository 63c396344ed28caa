package docgen

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"legalflow/internal/blobstore"
	"legalflow/internal/llm"
	"legalflow/internal/workflow"
)

type scriptedProvider struct {
	responses []string
	calls     int
}

func (s *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if s.calls >= len(s.responses) {
		return nil, errors.New("no scripted response left")
	}
	content := s.responses[s.calls]
	s.calls++
	return &llm.CompletionResponse{Content: content}, nil
}

func (s *scriptedProvider) Name() string { return "scripted" }

const ndaTemplate = `NON-DISCLOSURE AGREEMENT

This agreement dated {AGREEMENT_DATE} is between {DISCLOSING_PARTIES}
(the Disclosing Parties) and {RECEIVING_PARTIES} (the Receiving Parties).
It commences on {COMMENCEMENT_DATE} and runs for {TERM_YEARS} years.
Signed on {AGREEMENT_DATE}.`

const extractionJSON = `{
  "AGREEMENT_DATE": "2026-01-15",
  "COMMENCEMENT_DATE": "2026-02-01",
  "TERM_YEARS": "3",
  "DISCLOSING_PARTIES": ["Acme Corp"],
  "RECEIVING_PARTIES": ["Beta LLC", "Gamma Inc"]
}`

func newTemplateStore(t *testing.T) blobstore.Store {
	t.Helper()
	store, err := blobstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if err := store.Upload(context.Background(), "NDA.txt", strings.NewReader(ndaTemplate), "text/plain"); err != nil {
		t.Fatalf("seeding template: %v", err)
	}
	if err := store.Upload(context.Background(), "BUSINESS_PARTNERSHIP.txt", strings.NewReader("{PARTNER_NAMES}"), "text/plain"); err != nil {
		t.Fatalf("seeding template: %v", err)
	}
	return store
}

func TestHandleGeneratesDocument(t *testing.T) {
	store := newTemplateStore(t)
	provider := &scriptedProvider{responses: []string{"NDA", extractionJSON}}
	h := New(provider, store, "gpt-4o")

	out, err := h.Handle(context.Background(), &workflow.Request{
		UserInput: "Draft an NDA between Acme Corp and Beta LLC starting February 2026",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	result, ok := out.(*Result)
	if !ok {
		t.Fatalf("expected *Result, got %T", out)
	}
	if result.DocumentType != "NDA" {
		t.Errorf("unexpected document type: %q", result.DocumentType)
	}
	if !strings.HasPrefix(result.DocumentName, "generated_") {
		t.Errorf("unexpected document name: %q", result.DocumentName)
	}

	rc, err := store.Download(context.Background(), result.DocumentName)
	if err != nil {
		t.Fatalf("downloading generated document: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	text := string(data)

	if strings.Contains(text, "{") {
		t.Errorf("generated document still has placeholders:\n%s", text)
	}
	if !strings.Contains(text, "between Acme Corp") {
		t.Errorf("disclosing parties not filled:\n%s", text)
	}
	if !strings.Contains(text, "Beta LLC, Gamma Inc") {
		t.Errorf("list values not joined with comma:\n%s", text)
	}
	if !strings.Contains(text, "Signed on 2026-01-15") {
		t.Errorf("repeated placeholder not filled:\n%s", text)
	}
}

func TestHandleNormalizesDocumentType(t *testing.T) {
	store := newTemplateStore(t)
	provider := &scriptedProvider{responses: []string{"business partnership template", `{"PARTNER_NAMES": ["A", "B"]}`}}
	h := New(provider, store, "gpt-4o")

	out, err := h.Handle(context.Background(), &workflow.Request{UserInput: "draft a partnership agreement"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if out.(*Result).DocumentType != "BUSINESS_PARTNERSHIP_TEMPLATE" {
		t.Errorf("unexpected document type: %q", out.(*Result).DocumentType)
	}
}

func TestHandleNoMatchingTemplate(t *testing.T) {
	store := newTemplateStore(t)
	provider := &scriptedProvider{responses: []string{"EMPLOYMENT_CONTRACT_FOR_EXECUTIVES"}}
	h := New(provider, store, "gpt-4o")

	_, err := h.Handle(context.Background(), &workflow.Request{UserInput: "draft an employment contract"})
	if !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("expected ErrNoTemplate, got %v", err)
	}
}

func TestHandleInvalidExtractionJSON(t *testing.T) {
	store := newTemplateStore(t)
	provider := &scriptedProvider{responses: []string{"NDA", "sorry, I cannot do that"}}
	h := New(provider, store, "gpt-4o")

	if _, err := h.Handle(context.Background(), &workflow.Request{UserInput: "draft an NDA"}); err == nil {
		t.Fatal("expected error for non-JSON extraction response")
	}
}

func TestBestTemplateMatch(t *testing.T) {
	templates := []string{"NDA", "BUSINESS_PARTNERSHIP"}

	tests := []struct {
		docType string
		want    string
	}{
		{"NDA", "NDA"},
		{"NDA_AGREEMENT", ""},
		{"nda", "NDA"},
		{"BUSINESS_PARTNERSHIP_TEMPLATE", "BUSINESS_PARTNERSHIP"},
		{"BUSINESS_PARTNERSHIP", "BUSINESS_PARTNERSHIP"},
		{"ZZZZZZZZZZZZZZZZZZZZZZZ", ""},
	}
	for _, tt := range tests {
		if got := bestTemplateMatch(tt.docType, templates); got != tt.want {
			t.Errorf("bestTemplateMatch(%q) = %q, want %q", tt.docType, got, tt.want)
		}
	}
}

func TestBestTemplateMatchIgnoresCase(t *testing.T) {
	if got := bestTemplateMatch("NDA", []string{"nda", "business_partnership"}); got != "nda" {
		t.Errorf("expected lowercase template to match, got %q", got)
	}
}

func TestSimilarityCutoff(t *testing.T) {
	if s := similarity("NDA", "NDA"); s != 1 {
		t.Errorf("identical strings should score 1, got %f", s)
	}
	if s := similarity("abcd", "abXd"); s != 0.75 {
		t.Errorf("one edit over four chars should score 0.75, got %f", s)
	}
	if s := similarity("", ""); s != 1 {
		t.Errorf("two empty strings should score 1, got %f", s)
	}
}

func TestExtractPlaceholders(t *testing.T) {
	got := extractPlaceholders("{A} and {B}, then {A} again")
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("unexpected placeholders: %v", got)
	}
	if got := extractPlaceholders("no tokens here"); len(got) != 0 {
		t.Errorf("expected no placeholders, got %v", got)
	}
}

func TestFillTemplateMissingKeyAndIdempotence(t *testing.T) {
	text := "Between {X} and {Y}."
	values := map[string]any{"X": "Acme"}
	placeholders := []string{"X", "Y"}

	filled := fillTemplate(text, values, placeholders)
	if filled != "Between Acme and ." {
		t.Errorf("missing key should render empty, got %q", filled)
	}
	if again := fillTemplate(filled, values, placeholders); again != filled {
		t.Errorf("filling again changed the text: %q", again)
	}
}
