package vectordb

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemStore holds a chromem-go database hosting one collection per index
// name. It serves local and development runs in place of a hosted vector
// database.
type ChromemStore struct {
	db *chromem.DB
}

// NewChromemStore creates an empty in-memory chromem store.
func NewChromemStore() *ChromemStore {
	return &ChromemStore{db: chromem.NewDB()}
}

// Index returns the Index for the given collection name, creating the
// collection if it does not exist yet.
func (s *ChromemStore) Index(name string) (*ChromemIndex, error) {
	col, err := s.db.GetOrCreateCollection(name, nil, rejectEmbedding)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return &ChromemIndex{collection: col, name: name}, nil
}

// Persist saves the store's data to the given file path.
func (s *ChromemStore) Persist(path string) error {
	return s.db.ExportToFile(path, true, "")
}

// Load restores the store's data from the given file path.
func (s *ChromemStore) Load(path string) error {
	if err := s.db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}
	return nil
}

// rejectEmbedding is the embedding func handed to chromem. All records carry
// precomputed embeddings and queries are done by vector, so chromem should
// never need to embed anything itself.
func rejectEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("index stores precomputed embeddings only")
}

// ChromemIndex implements Index on top of a chromem-go collection.
type ChromemIndex struct {
	collection *chromem.Collection
	name       string
}

func (c *ChromemIndex) Name() string {
	return c.name
}

func (c *ChromemIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	count := c.collection.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	if topK > count {
		topK = count
	}

	results, err := c.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query on %s: %w", c.name, err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{ID: r.ID, Score: r.Similarity, Metadata: r.Metadata}
	}
	return matches, nil
}

func (c *ChromemIndex) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(records))
	for i, r := range records {
		content := r.Metadata["chunk"]
		if content == "" {
			content = r.ID
		}
		docs[i] = chromem.Document{
			ID:        r.ID,
			Content:   content,
			Embedding: r.Embedding,
			Metadata:  r.Metadata,
		}
	}

	return c.collection.AddDocuments(ctx, docs, 1)
}
