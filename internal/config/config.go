package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LEGALFLOW_*). Nested keys use a double
// underscore: LEGALFLOW_STORAGE__BUCKET maps to storage.bucket.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: LEGALFLOW_PROVIDER -> provider, etc.
	if err := k.Load(env.Provider("LEGALFLOW_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "LEGALFLOW_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderAzure:  true,
}

// validBackends is the set of recognized vector backend values.
var validBackends = map[VectorBackend]bool{
	BackendPinecone: true,
	BackendChromem:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, azure", c.Provider)
	}
	if c.Provider == ProviderAzure && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required for the azure provider")
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}

	if !validBackends[c.Vector.Backend] {
		return fmt.Errorf("invalid vector backend %q: must be one of pinecone, chromem", c.Vector.Backend)
	}
	if c.Vector.Backend == BackendChromem && c.Vector.Path == "" {
		return fmt.Errorf("vector.path is required for the chromem backend")
	}
	if c.Vector.Backend == BackendPinecone {
		for _, idx := range []struct {
			label string
			cfg   IndexConfig
		}{
			{"vector.knowledge", c.Vector.Knowledge},
			{"vector.cases", c.Vector.Cases},
			{"vector.search", c.Vector.Search},
		} {
			if idx.cfg.Host == "" {
				return fmt.Errorf("%s.host is required for the pinecone backend", idx.label)
			}
		}
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for local storage")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("invalid storage type %q: must be one of local, s3", c.Storage.Type)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAzure:
		return "AZURE_OPENAI_API_KEY"
	default:
		return ""
	}
}
