package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderAzure  ProviderType = "azure"
)

// VectorBackend identifies where vector indexes live.
type VectorBackend string

const (
	BackendPinecone VectorBackend = "pinecone"
	BackendChromem  VectorBackend = "chromem"
)

// Config is the top-level legalflow configuration, corresponding to
// .legalflow.yml.
type Config struct {
	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Endpoint       string       `yaml:"endpoint" koanf:"endpoint"`
	Model          string       `yaml:"model" koanf:"model"`
	EmbeddingModel string       `yaml:"embedding_model" koanf:"embedding_model"`

	Vector     VectorConfig     `yaml:"vector" koanf:"vector"`
	Storage    StorageConfig    `yaml:"storage" koanf:"storage"`
	DocAI      ServiceConfig    `yaml:"docai" koanf:"docai"`
	Translator TranslatorConfig `yaml:"translator" koanf:"translator"`

	GlossaryPath string `yaml:"glossary_path" koanf:"glossary_path"`
	Port         int    `yaml:"port" koanf:"port"`
}

// IndexConfig names one vector index. Host is only used by the pinecone
// backend, which addresses each index by its own host URL.
type IndexConfig struct {
	Name string `yaml:"name" koanf:"name"`
	Host string `yaml:"host" koanf:"host"`
}

// VectorConfig selects the vector backend and the three indexes the
// handlers query.
type VectorConfig struct {
	Backend   VectorBackend `yaml:"backend" koanf:"backend"`
	Path      string        `yaml:"path" koanf:"path"`
	Knowledge IndexConfig   `yaml:"knowledge" koanf:"knowledge"`
	Cases     IndexConfig   `yaml:"cases" koanf:"cases"`
	Search    IndexConfig   `yaml:"search" koanf:"search"`
}

// StorageConfig selects the blob store backing documents and templates.
type StorageConfig struct {
	Type           string `yaml:"type" koanf:"type"`
	Path           string `yaml:"path" koanf:"path"`
	Bucket         string `yaml:"bucket" koanf:"bucket"`
	TemplateBucket string `yaml:"template_bucket" koanf:"template_bucket"`
	Prefix         string `yaml:"prefix" koanf:"prefix"`
	Region         string `yaml:"region" koanf:"region"`
}

// ServiceConfig points at an external HTTP service. Its API key comes from
// the environment, never from the config file.
type ServiceConfig struct {
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
}

// TranslatorConfig points at the translation service.
type TranslatorConfig struct {
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
	Region   string `yaml:"region" koanf:"region"`
}
