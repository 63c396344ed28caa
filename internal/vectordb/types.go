package vectordb

// Match is a single ranked result from a vector index query.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// Record is a vector plus metadata to be upserted into an index.
type Record struct {
	ID        string
	Embedding []float32
	Metadata  map[string]string
}
