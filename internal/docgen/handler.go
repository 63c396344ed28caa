// Package docgen drafts legal documents by matching a user request to a
// stored template, extracting entities with the LLM, and filling placeholder
// tokens.
package docgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"

	"legalflow/internal/blobstore"
	"legalflow/internal/llm"
	"legalflow/internal/workflow"
)

// ErrNoTemplate is returned when no stored template name clears the fuzzy
// match cutoff for the classified document type.
var ErrNoTemplate = errors.New("no matching template found")

const classifyDocTypePrompt = "Identify the most appropriate document type that is being asked for in the user query. " +
	"Only return the document type name with no extra text. " +
	"If it is a non disclosure agreement then return NDA. " +
	"Valid template names should have NDA or Business Partnership in them."

const extractionPromptFormat = `The input is: %s. The following is a description of a %s.

Extract and classify:
1. **DISCLOSING_PARTIES**
2. **RECEIVING_PARTIES**
3. **AGREEMENT_DATE** (YYYY-MM-DD)
4. **COMMENCEMENT_DATE** (YYYY-MM-DD)
5. **TERM_YEARS**

Format the output strictly in JSON:
{
    "AGREEMENT_DATE": "YYYY-MM-DD",
    "COMMENCEMENT_DATE": "YYYY-MM-DD",
    "TERM_YEARS": "X",
    "DISCLOSING_PARTIES": ["Name1"],
    "RECEIVING_PARTIES": ["Name2"]
}`

// Result names the generated document stored back in the blob store.
type Result struct {
	DocumentName string `json:"document_name"`
	DocumentType string `json:"document_type"`
}

// Handler runs the document-generation pipeline over a template store.
type Handler struct {
	provider  llm.Provider
	templates blobstore.Store
	model     string
}

// New creates a document-generation handler reading templates from and
// writing generated documents to the given store.
func New(provider llm.Provider, templates blobstore.Store, model string) *Handler {
	return &Handler{provider: provider, templates: templates, model: model}
}

func (h *Handler) Handle(ctx context.Context, req *workflow.Request) (any, error) {
	docType, err := h.classifyDocumentType(ctx, req.UserInput)
	if err != nil {
		return nil, fmt.Errorf("document classification failed: %w", err)
	}
	log.Printf("docgen: classified document type: %s", docType)

	templateName, err := h.matchTemplate(ctx, docType)
	if err != nil {
		return nil, err
	}
	log.Printf("docgen: selected template %s", templateName)

	text, err := h.downloadTemplate(ctx, templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template %s: %w", templateName, err)
	}

	placeholders := extractPlaceholders(text)
	if len(placeholders) == 0 {
		return nil, fmt.Errorf("template %s has no placeholders", templateName)
	}

	values, err := h.extractEntities(ctx, req.UserInput, docType)
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}

	filled := fillTemplate(text, values, placeholders)

	outName := "generated_" + uuid.New().String() + path.Ext(templateName)
	if err := h.templates.Upload(ctx, outName, strings.NewReader(filled), "text/plain"); err != nil {
		return nil, fmt.Errorf("failed to save generated document: %w", err)
	}
	log.Printf("docgen: document saved: %s", outName)

	return &Result{DocumentName: outName, DocumentType: docType}, nil
}

func (h *Handler) classifyDocumentType(ctx context.Context, query string) (string, error) {
	resp, err := h.provider.Complete(ctx, llm.CompletionRequest{
		Model: h.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: classifyDocTypePrompt},
			{Role: llm.RoleUser, Content: query},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	docType := strings.ToUpper(strings.TrimSpace(resp.Content))
	docType = strings.ReplaceAll(docType, " ", "_")
	if docType == "" {
		return "", errors.New("empty classification response")
	}
	return docType, nil
}

// matchTemplate lists the stored templates and fuzzy-matches the classified
// type against their base names.
func (h *Handler) matchTemplate(ctx context.Context, docType string) (string, error) {
	objects, err := h.templates.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list templates: %w", err)
	}

	byBase := make(map[string]string, len(objects))
	bases := make([]string, 0, len(objects))
	for _, obj := range objects {
		base := strings.TrimSuffix(obj.Name, path.Ext(obj.Name))
		byBase[base] = obj.Name
		bases = append(bases, base)
	}

	best := bestTemplateMatch(docType, bases)
	if best == "" {
		return "", fmt.Errorf("%w for %s", ErrNoTemplate, docType)
	}
	return byBase[best], nil
}

func (h *Handler) downloadTemplate(ctx context.Context, name string) (string, error) {
	rc, err := h.templates.Download(ctx, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (h *Handler) extractEntities(ctx context.Context, query, docType string) (map[string]any, error) {
	resp, err := h.provider.Complete(ctx, llm.CompletionRequest{
		Model: h.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(extractionPromptFormat, query, docType)},
		},
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var values map[string]any
	if err := llm.ExtractJSON(resp.Content, &values); err != nil {
		return nil, err
	}
	return values, nil
}
