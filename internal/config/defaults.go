package config

// DefaultConfig returns a Config with sensible defaults: a local chromem
// vector store and a local blob store, suitable for development without any
// cloud credentials.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Model:          "gpt-4o",
		EmbeddingModel: "text-embedding-ada-002",
		Vector: VectorConfig{
			Backend:   BackendChromem,
			Path:      ".legalflow/vectors",
			Knowledge: IndexConfig{Name: "law-kb"},
			Cases:     IndexConfig{Name: "past-cases"},
			Search:    IndexConfig{Name: "case-search"},
		},
		Storage: StorageConfig{
			Type:           "local",
			Path:           ".legalflow/documents",
			TemplateBucket: ".legalflow/templates",
		},
		Translator: TranslatorConfig{
			Endpoint: "https://api.cognitive.microsofttranslator.com",
		},
		GlossaryPath: "glossary.json",
		Port:         8080,
	}
}
