// Package casesearch finds stored cases similar to a free-text query by
// embedding the query and searching the case vector index.
package casesearch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"legalflow/internal/embeddings"
	"legalflow/internal/vectordb"
	"legalflow/internal/workflow"
)

const topK = 5

// chunkDelimiter splits a vector record ID into document name and chunk
// number, e.g. "smith-v-jones_chunk_2".
const chunkDelimiter = "_chunk_"

// CaseResult is one matched case with its aggregated summary text.
type CaseResult struct {
	CaseName string `json:"case_name"`
	Summary  string `json:"summary"`
}

// Handler runs the case-search pipeline: embed, query, group by document.
type Handler struct {
	embedder embeddings.Embedder
	index    vectordb.Index
}

// New creates a case-search handler over the given case index.
func New(embedder embeddings.Embedder, index vectordb.Index) *Handler {
	return &Handler{embedder: embedder, index: index}
}

func (h *Handler) Handle(ctx context.Context, req *workflow.Request) (any, error) {
	log.Printf("casesearch: generating embedding for query")
	vector, err := embeddings.EmbedOne(ctx, h.embedder, req.UserInput)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if vector == nil {
		log.Printf("casesearch: no embedding returned for query")
		return []CaseResult{}, nil
	}

	log.Printf("casesearch: querying index %s", h.index.Name())
	matches, err := h.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("case index query failed: %w", err)
	}
	if len(matches) == 0 {
		log.Printf("casesearch: no matches found")
		return []CaseResult{}, nil
	}

	return groupByDocument(matches), nil
}

// groupByDocument merges chunk matches that share a document-name prefix,
// concatenating their chunk texts in match order. Result order follows the
// first-seen match of each document.
func groupByDocument(matches []vectordb.Match) []CaseResult {
	var order []string
	chunks := make(map[string][]string)

	for _, match := range matches {
		docName := match.ID
		if i := strings.LastIndex(match.ID, chunkDelimiter); i >= 0 {
			docName = match.ID[:i]
		}

		summary := match.Metadata["chunk"]
		if summary == "" {
			summary = "No summary available"
		}

		if _, seen := chunks[docName]; !seen {
			order = append(order, docName)
		}
		chunks[docName] = append(chunks[docName], summary)
	}

	results := make([]CaseResult, 0, len(order))
	for _, docName := range order {
		results = append(results, CaseResult{
			CaseName: docName,
			Summary:  strings.Join(chunks[docName], " "),
		})
	}
	return results
}
