// Package action applies an operation to an uploaded document: summarizing it
// into structured legal details, or translating it to a requested language.
package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"legalflow/internal/blobstore"
	"legalflow/internal/docai"
	"legalflow/internal/llm"
	"legalflow/internal/translator"
	"legalflow/internal/workflow"
)

// ErrUnknownAction is returned when the query names neither summarize nor
// translate.
var ErrUnknownAction = errors.New("invalid query: include 'summarize' or 'translate to <language>'")

const summaryPromptFormat = `Extract key legal details from the following contract text:

**Contract Text:**
%s

Return the result as a JSON object with keys: "parties", "dates", "financial_terms", "confidentiality", "termination", "governing_law".`

// TextExtractor pulls text out of a document reachable at a signed URL.
type TextExtractor interface {
	Analyze(ctx context.Context, url string, mode docai.Mode) (*docai.Result, error)
}

// Translator detects and translates document text.
type Translator interface {
	Detect(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, target string) (string, error)
}

// LanguageExtractor resolves the target language code named in a query.
type LanguageExtractor interface {
	ExtractLanguageCode(ctx context.Context, query string) (string, error)
}

// Summary is the structured output of the summarize action.
type Summary struct {
	Parties         any `json:"parties"`
	Dates           any `json:"dates"`
	FinancialTerms  any `json:"financial_terms"`
	Confidentiality any `json:"confidentiality"`
	Termination     any `json:"termination"`
	GoverningLaw    any `json:"governing_law"`
}

// Translation is the output of the translate action. SourceLanguage is empty
// when the document was already in the target language.
type Translation struct {
	Message        string `json:"message,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	TranslatedText string `json:"translated_text"`
}

// Handler dispatches summarize/translate actions against the document store.
type Handler struct {
	provider   llm.Provider
	store      blobstore.Store
	extractor  TextExtractor
	translator Translator
	languages  LanguageExtractor
	glossary   translator.Glossary
	model      string
}

// New creates a perform-action handler.
func New(provider llm.Provider, store blobstore.Store, extractor TextExtractor, translator Translator, languages LanguageExtractor, glossary translator.Glossary, model string) *Handler {
	return &Handler{
		provider:   provider,
		store:      store,
		extractor:  extractor,
		translator: translator,
		languages:  languages,
		glossary:   glossary,
		model:      model,
	}
}

func (h *Handler) Handle(ctx context.Context, req *workflow.Request) (any, error) {
	docName, err := h.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Printf("action: operating on document %s", docName)

	localPath, err := h.downloadDocument(ctx, docName)
	if err != nil {
		return nil, fmt.Errorf("failed to download document %s: %w", docName, err)
	}
	defer os.Remove(localPath)

	query := strings.ToLower(req.UserInput)
	switch {
	case strings.Contains(query, "summarize") || strings.Contains(query, "summarise"):
		return h.summarize(ctx, docName)
	case strings.Contains(query, "translate"):
		target, err := h.targetLanguage(ctx, req)
		if err != nil {
			return nil, err
		}
		return h.translate(ctx, docName, localPath, target)
	default:
		return nil, ErrUnknownAction
	}
}

// resolveDocument prefers the document named in the request; only when the
// caller did not name one does it fall back to the most recent upload.
func (h *Handler) resolveDocument(ctx context.Context, req *workflow.Request) (string, error) {
	if req.Document != "" {
		return req.Document, nil
	}
	name, err := h.store.MostRecent(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve document: %w", err)
	}
	return name, nil
}

// downloadDocument fetches the document through a short-lived signed URL and
// stages it in a temp file. Callers must remove the file when done.
func (h *Handler) downloadDocument(ctx context.Context, docName string) (string, error) {
	rc, err := h.store.Download(ctx, docName)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	localPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(docName))
	f, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(localPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(localPath)
		return "", err
	}
	return localPath, nil
}

func (h *Handler) summarize(ctx context.Context, docName string) (*Summary, error) {
	url, err := h.store.SignedURL(ctx, docName, blobstore.DefaultSignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign document URL: %w", err)
	}

	result, err := h.extractor.Analyze(ctx, url, docai.ModeLayout)
	if err != nil {
		return nil, fmt.Errorf("document analysis failed: %w", err)
	}
	text := result.Text()
	if text == "" {
		return nil, errors.New("no text extracted from document")
	}
	log.Printf("action: extracted %d characters from %s", len(text), docName)

	resp, err := h.provider.Complete(ctx, llm.CompletionRequest{
		Model: h.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "You are a legal document assistant."},
			{Role: llm.RoleUser, Content: fmt.Sprintf(summaryPromptFormat, text)},
		},
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("summary generation failed: %w", err)
	}

	var summary Summary
	if err := llm.ExtractJSON(resp.Content, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary response: %w", err)
	}
	return &summary, nil
}

func (h *Handler) targetLanguage(ctx context.Context, req *workflow.Request) (string, error) {
	if req.TargetLanguage != "" {
		return req.TargetLanguage, nil
	}
	return h.languages.ExtractLanguageCode(ctx, req.UserInput)
}

// translate re-uploads the staged file under the document's own name so
// document analysis reads the same bytes the caller acted on, extracts its
// text, and translates unless the document is already in the target language.
// The overwrite keeps the store unchanged: no extra object, no moved
// most-recent pointer.
func (h *Handler) translate(ctx context.Context, docName, localPath, target string) (*Translation, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open staged document: %w", err)
	}
	uploadErr := h.store.Upload(ctx, docName, f, "application/octet-stream")
	f.Close()
	if uploadErr != nil {
		return nil, fmt.Errorf("failed to upload document: %w", uploadErr)
	}

	url, err := h.store.SignedURL(ctx, docName, blobstore.DefaultSignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign document URL: %w", err)
	}
	result, err := h.extractor.Analyze(ctx, url, docai.ModeRead)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from document: %w", err)
	}
	text := result.Text()
	if text == "" {
		return nil, errors.New("failed to extract text from document")
	}

	detected, err := h.translator.Detect(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to detect source language: %w", err)
	}
	log.Printf("action: detected language %s, target %s", detected, target)

	if detected == target {
		return &Translation{
			Message:        "Document is already in the target language.",
			TranslatedText: text,
		}, nil
	}

	translated, err := h.translator.Translate(ctx, text, target)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	translated = h.glossary.Apply(translated)

	return &Translation{SourceLanguage: detected, TranslatedText: translated}, nil
}
