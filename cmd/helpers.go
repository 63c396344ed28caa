package cmd

import (
	"context"
	"fmt"
	"os"

	"legalflow/internal/action"
	"legalflow/internal/blobstore"
	"legalflow/internal/casesearch"
	"legalflow/internal/config"
	"legalflow/internal/docai"
	"legalflow/internal/docgen"
	"legalflow/internal/embeddings"
	"legalflow/internal/llm"
	"legalflow/internal/translator"
	"legalflow/internal/vectordb"
	"legalflow/internal/verdict"
	"legalflow/internal/workflow"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `legalflow init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Endpoint, cfg.Model)
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	model := embeddings.OpenAIModel(cfg.EmbeddingModel)
	switch cfg.Provider {
	case config.ProviderAzure:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderAzure))
		if apiKey == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_API_KEY environment variable is required for azure embeddings")
		}
		return embeddings.NewAzureEmbedder(apiKey, cfg.Endpoint, model), nil
	default:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, model), nil
	}
}

// indexes bundles the three vector indexes the handlers query. For the
// chromem backend it also carries the store so callers can persist it.
type indexes struct {
	knowledge vectordb.Index
	cases     vectordb.Index
	search    vectordb.Index
	chromem   *vectordb.ChromemStore
}

// createIndexesFromConfig opens the configured vector backend.
func createIndexesFromConfig(cfg *config.Config) (*indexes, error) {
	switch cfg.Vector.Backend {
	case config.BackendPinecone:
		apiKey := os.Getenv("PINECONE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("PINECONE_API_KEY environment variable is required for the pinecone backend")
		}
		return &indexes{
			knowledge: vectordb.NewPineconeIndex(apiKey, cfg.Vector.Knowledge.Host, cfg.Vector.Knowledge.Name),
			cases:     vectordb.NewPineconeIndex(apiKey, cfg.Vector.Cases.Host, cfg.Vector.Cases.Name),
			search:    vectordb.NewPineconeIndex(apiKey, cfg.Vector.Search.Host, cfg.Vector.Search.Name),
		}, nil
	case config.BackendChromem:
		store := vectordb.NewChromemStore()
		if _, err := os.Stat(cfg.Vector.Path); err == nil {
			if err := store.Load(cfg.Vector.Path); err != nil {
				return nil, fmt.Errorf("loading vector store from %s: %w", cfg.Vector.Path, err)
			}
		}
		idx := &indexes{chromem: store}
		var err error
		if idx.knowledge, err = store.Index(cfg.Vector.Knowledge.Name); err != nil {
			return nil, err
		}
		if idx.cases, err = store.Index(cfg.Vector.Cases.Name); err != nil {
			return nil, err
		}
		if idx.search, err = store.Index(cfg.Vector.Search.Name); err != nil {
			return nil, err
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Vector.Backend)
	}
}

// createDocumentStore opens the blob store holding uploaded documents.
func createDocumentStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	return blobstore.New(ctx, blobstore.Config{
		Type:      cfg.Storage.Type,
		LocalPath: cfg.Storage.Path,
		Bucket:    cfg.Storage.Bucket,
		Prefix:    cfg.Storage.Prefix,
		Region:    cfg.Storage.Region,
	})
}

// createTemplateStore opens the blob store holding document templates.
func createTemplateStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	bucket := cfg.Storage.TemplateBucket
	if bucket == "" {
		bucket = cfg.Storage.Bucket
	}
	return blobstore.New(ctx, blobstore.Config{
		Type:      cfg.Storage.Type,
		LocalPath: bucket,
		Bucket:    bucket,
		Region:    cfg.Storage.Region,
	})
}

// buildWorkflow wires the classifier and all four handlers.
func buildWorkflow(ctx context.Context, cfg *config.Config) (*workflow.Workflow, blobstore.Store, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	idx, err := createIndexesFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	documents, err := createDocumentStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening document store: %w", err)
	}
	templates, err := createTemplateStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening template store: %w", err)
	}

	docaiClient := docai.NewClient(cfg.DocAI.Endpoint, os.Getenv("AZURE_DOC_INTELLIGENCE_KEY"))
	translatorClient := translator.NewClient(cfg.Translator.Endpoint, os.Getenv("AZURE_TRANSLATOR_KEY"), cfg.Translator.Region)
	glossary := translator.LoadGlossary(cfg.GlossaryPath)

	classifier := workflow.NewClassifier(provider)
	wf := workflow.New(classifier)
	wf.Register(workflow.LabelCaseSearch, casesearch.New(embedder, idx.search))
	wf.Register(workflow.LabelVerdictPrediction, verdict.New(provider, embedder, idx.knowledge, idx.cases, cfg.Model))
	wf.Register(workflow.LabelDocumentGeneration, docgen.New(provider, templates, cfg.Model))
	wf.Register(workflow.LabelPerformAction, action.New(provider, documents, docaiClient, translatorClient, classifier, glossary, cfg.Model))

	return wf, documents, nil
}
