package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .legalflow.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to legalflow! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "azure"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Azure needs a resource endpoint.
	if cfg.Provider == ProviderAzure {
		endpointPrompt := promptui.Prompt{
			Label: "Azure OpenAI endpoint (https://<resource>.openai.azure.com)",
		}
		endpoint, err := endpointPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("endpoint: %w", err)
		}
		cfg.Endpoint = endpoint
	}

	// 3. Model names.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model (deployment name on azure)",
		Default: cfg.Model,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 4. Vector backend.
	backendPrompt := promptui.Select{
		Label: "Vector index backend",
		Items: []string{
			"chromem  — embedded, persisted on disk",
			"pinecone — managed, needs PINECONE_API_KEY and index hosts",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("vector backend: %w", err)
	}
	if backendIdx == 1 {
		cfg.Vector.Backend = BackendPinecone
		for _, idx := range []*IndexConfig{&cfg.Vector.Knowledge, &cfg.Vector.Cases, &cfg.Vector.Search} {
			hostPrompt := promptui.Prompt{
				Label: fmt.Sprintf("Pinecone host for index %s", idx.Name),
			}
			if idx.Host, err = hostPrompt.Run(); err != nil {
				return nil, fmt.Errorf("index host: %w", err)
			}
		}
	}

	// 5. Document storage.
	storagePrompt := promptui.Select{
		Label: "Document storage",
		Items: []string{
			"local — directory on this machine",
			"s3    — bucket, uses the standard AWS credential chain",
		},
	}
	storageIdx, _, err := storagePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}
	if storageIdx == 1 {
		cfg.Storage.Type = "s3"
		bucketPrompt := promptui.Prompt{Label: "S3 bucket for documents"}
		if cfg.Storage.Bucket, err = bucketPrompt.Run(); err != nil {
			return nil, fmt.Errorf("bucket: %w", err)
		}
		templatePrompt := promptui.Prompt{
			Label:   "S3 bucket for templates",
			Default: cfg.Storage.Bucket,
		}
		if cfg.Storage.TemplateBucket, err = templatePrompt.Run(); err != nil {
			return nil, fmt.Errorf("template bucket: %w", err)
		}
		regionPrompt := promptui.Prompt{Label: "AWS region", Default: "us-east-1"}
		if cfg.Storage.Region, err = regionPrompt.Run(); err != nil {
			return nil, fmt.Errorf("region: %w", err)
		}
	}

	// 6. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			if _, err := strconv.Atoi(s); err != nil {
				return fmt.Errorf("port must be a number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running legalflow serve.\n", envVar)
		}
	}

	// Save to .legalflow.yml.
	configPath := ".legalflow.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
