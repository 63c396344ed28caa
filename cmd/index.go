package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"legalflow/internal/config"
	"legalflow/internal/embeddings"
	"legalflow/internal/progress"
	"legalflow/internal/vectordb"
)

// chunkSize is the target chunk length in characters. Chunks break on
// paragraph boundaries, so actual sizes vary.
const chunkSize = 2000

var (
	indexDir    string
	indexTarget string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed a document corpus into a vector index",
	Long: `Reads text files from a directory, splits them into chunks, embeds each
chunk and upserts it into the chosen vector index. Chunk IDs follow the
<document>_chunk_<n> convention the search handlers group by.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		idxCfg, err := targetIndex(cfg)
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return err
		}
		idx, err := createIndexesFromConfig(cfg)
		if err != nil {
			return err
		}

		var target vectordb.Index
		switch idxCfg.Name {
		case cfg.Vector.Knowledge.Name:
			target = idx.knowledge
		case cfg.Vector.Cases.Name:
			target = idx.cases
		default:
			target = idx.search
		}

		if err := indexCorpus(cmd.Context(), embedder, target, indexDir, indexTarget); err != nil {
			return err
		}

		if idx.chromem != nil {
			if err := os.MkdirAll(filepath.Dir(cfg.Vector.Path), 0755); err != nil {
				return fmt.Errorf("creating vector store directory: %w", err)
			}
			if err := idx.chromem.Persist(cfg.Vector.Path); err != nil {
				return fmt.Errorf("persisting vector store: %w", err)
			}
		}
		return nil
	},
}

func targetIndex(cfg *config.Config) (config.IndexConfig, error) {
	switch indexTarget {
	case "knowledge":
		return cfg.Vector.Knowledge, nil
	case "cases":
		return cfg.Vector.Cases, nil
	case "search":
		return cfg.Vector.Search, nil
	default:
		return config.IndexConfig{}, fmt.Errorf("unknown index %q: must be one of knowledge, cases, search", indexTarget)
	}
}

// indexCorpus chunks every regular file under dir and upserts its embeddings.
func indexCorpus(ctx context.Context, embedder embeddings.Embedder, target vectordb.Index, dir, kind string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading corpus directory: %w", err)
	}

	type pending struct {
		id       string
		text     string
		metadata map[string]string
	}
	var chunks []pending

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		docName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		for i, chunk := range splitChunks(string(data)) {
			chunks = append(chunks, pending{
				id:       fmt.Sprintf("%s_chunk_%d", docName, i+1),
				text:     chunk,
				metadata: chunkMetadata(kind, docName, chunk),
			})
		}
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no documents found in %s", dir)
	}

	reporter := progress.NewReporter()
	reporter.Start(len(chunks))
	defer reporter.Finish()

	for i, chunk := range chunks {
		vector, err := embeddings.EmbedOne(ctx, embedder, chunk.text)
		if err != nil {
			return fmt.Errorf("embedding %s: %w", chunk.id, err)
		}
		if vector == nil {
			continue
		}
		err = target.Upsert(ctx, []vectordb.Record{{
			ID:        chunk.id,
			Embedding: vector,
			Metadata:  chunk.metadata,
		}})
		if err != nil {
			return fmt.Errorf("upserting %s: %w", chunk.id, err)
		}
		reporter.Update(i+1, chunk.id)
	}
	return nil
}

// chunkMetadata shapes metadata the way each handler reads it back: the
// search handler concatenates "chunk" fields, the verdict handler formats
// "title" and "summary_chunk" fields.
func chunkMetadata(kind, docName, chunk string) map[string]string {
	switch kind {
	case "knowledge":
		return map[string]string{"title": docName}
	case "cases":
		return map[string]string{"title": docName, "summary_chunk": chunk}
	default:
		return map[string]string{"chunk": chunk}
	}
}

// splitChunks breaks text into roughly chunkSize pieces on paragraph
// boundaries. A single oversized paragraph becomes its own chunk.
func splitChunks(text string) []string {
	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var current strings.Builder

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > chunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func init() {
	indexCmd.Flags().StringVar(&indexDir, "dir", "", "directory containing the documents to index (required)")
	indexCmd.Flags().StringVar(&indexTarget, "index", "search", "target index: knowledge, cases or search")
	indexCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(indexCmd)
}
