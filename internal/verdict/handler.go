// Package verdict predicts the likely outcome of a legal case by extracting
// structured case details, retrieving relevant laws and similar past cases
// from vector indexes, and asking the LLM for a reasoned verdict.
package verdict

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"legalflow/internal/embeddings"
	"legalflow/internal/llm"
	"legalflow/internal/vectordb"
	"legalflow/internal/workflow"
)

const topK = 5

var (
	// ErrNoRelevantLaws is returned when the legal-knowledge index has no
	// matches for the case description.
	ErrNoRelevantLaws = errors.New("no relevant laws found")

	// ErrNoSimilarCases is returned when the past-cases index has no matches
	// for the case description.
	ErrNoSimilarCases = errors.New("no similar cases found")
)

const extractPrompt = `Extract key details from the following legal case text:
- Case Description
- Involved Parties
- Jurisdiction
- Alleged Violations

Respond in this JSON format:
{
    "case_description": "...",
    "involved_parties": "...",
    "jurisdiction": "...",
    "alleged_violations": "..."
}

Case: "%s"`

const verdictPrompt = `A legal case was submitted with the following details:
Case Description: %s
Relevant Laws:
%s
Similar Past Cases:
%s

Based on the above, predict the most likely verdict and explain why.`

// CaseDetails holds the structured fields the LLM extracts from a case text.
type CaseDetails struct {
	CaseDescription   string `json:"case_description"`
	InvolvedParties   string `json:"involved_parties"`
	Jurisdiction      string `json:"jurisdiction"`
	AllegedViolations string `json:"alleged_violations"`
}

// Result is the full prediction output, including the evidence the verdict
// was grounded on.
type Result struct {
	CaseDescription   string `json:"case_description"`
	InvolvedParties   string `json:"involved_parties"`
	Jurisdiction      string `json:"jurisdiction"`
	AllegedViolations string `json:"alleged_violations"`
	Verdict           string `json:"verdict"`
	RelevantLaws      string `json:"relevant_laws"`
	SimilarCases      string `json:"similar_cases"`
}

// Handler runs the verdict-prediction pipeline.
type Handler struct {
	provider  llm.Provider
	embedder  embeddings.Embedder
	knowledge vectordb.Index
	cases     vectordb.Index
	model     string
}

// New creates a verdict handler over the legal-knowledge and past-cases
// indexes.
func New(provider llm.Provider, embedder embeddings.Embedder, knowledge, cases vectordb.Index, model string) *Handler {
	return &Handler{
		provider:  provider,
		embedder:  embedder,
		knowledge: knowledge,
		cases:     cases,
		model:     model,
	}
}

func (h *Handler) Handle(ctx context.Context, req *workflow.Request) (any, error) {
	details, err := h.extractDetails(ctx, req.UserInput)
	if err != nil {
		return nil, fmt.Errorf("failed to extract case details: %w", err)
	}
	if details.CaseDescription == "" {
		details.CaseDescription = "No description available"
	}
	log.Printf("verdict: case description: %s", details.CaseDescription)

	vector, err := embeddings.EmbedOne(ctx, h.embedder, details.CaseDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if vector == nil {
		return nil, errors.New("failed to generate embeddings: empty response")
	}

	// Both indexes are queried before either result set is checked, so a
	// missing-laws error never hides an index outage on the cases side.
	laws, err := h.knowledge.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("legal-knowledge query failed: %w", err)
	}
	cases, err := h.cases.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("past-cases query failed: %w", err)
	}
	log.Printf("verdict: found %d relevant laws, %d similar cases", len(laws), len(cases))

	if len(laws) == 0 {
		return nil, ErrNoRelevantLaws
	}
	if len(cases) == 0 {
		return nil, ErrNoSimilarCases
	}

	lawsText := formatLaws(laws)
	casesText := formatCases(cases)

	verdict, err := h.generateVerdict(ctx, details.CaseDescription, lawsText, casesText)
	if err != nil {
		return nil, fmt.Errorf("verdict generation failed: %w", err)
	}

	return &Result{
		CaseDescription:   details.CaseDescription,
		InvolvedParties:   orDefault(details.InvolvedParties, "Unknown parties"),
		Jurisdiction:      orDefault(details.Jurisdiction, "Unknown jurisdiction"),
		AllegedViolations: orDefault(details.AllegedViolations, "Unknown violations"),
		Verdict:           verdict,
		RelevantLaws:      lawsText,
		SimilarCases:      casesText,
	}, nil
}

func (h *Handler) extractDetails(ctx context.Context, caseInput string) (*CaseDetails, error) {
	log.Printf("verdict: extracting case details")
	resp, err := h.provider.Complete(ctx, llm.CompletionRequest{
		Model: h.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(extractPrompt, caseInput)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}

	var details CaseDetails
	if err := llm.ExtractJSON(resp.Content, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (h *Handler) generateVerdict(ctx context.Context, description, laws, cases string) (string, error) {
	resp, err := h.provider.Complete(ctx, llm.CompletionRequest{
		Model: h.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(verdictPrompt, description, laws, cases)},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func formatLaws(matches []vectordb.Match) string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, "Title: "+orDefault(m.Metadata["title"], "No Title"))
	}
	return strings.Join(lines, "\n")
}

func formatCases(matches []vectordb.Match) string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines,
			"Title: "+orDefault(m.Metadata["title"], "No Title")+
				"\nSummary: "+orDefault(m.Metadata["summary_chunk"], "No Summary"))
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
