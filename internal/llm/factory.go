package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a completion provider based on the given provider type.
// Supported provider types: "openai", "azure".
func NewProvider(providerType, endpoint, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "azure":
		apiKey := os.Getenv("AZURE_OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_API_KEY environment variable is not set")
		}
		if endpoint == "" {
			return nil, fmt.Errorf("llm endpoint is required for the azure provider")
		}
		return NewAzureProvider(apiKey, endpoint, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
