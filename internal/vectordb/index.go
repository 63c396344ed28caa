package vectordb

import "context"

// Index is a named vector index queried by embedding. All retrieval is
// delegated to the backing store; this package only shapes requests and
// responses.
type Index interface {
	// Query returns the topK nearest neighbours of vector, with metadata.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)

	// Upsert adds or replaces records in the index.
	Upsert(ctx context.Context, records []Record) error

	// Name returns the index name.
	Name() string
}
