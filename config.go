package agentdock

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the upstream AI backend settings and the host used to
// build agent endpoints. It is resolved once at process start; a
// missing endpoint or key does not prevent startup, but every Create
// fails with ErrBackendNotConfigured until both are present.
type Config struct {
	// BackendEndpoint is the Azure OpenAI resource endpoint.
	BackendEndpoint string `yaml:"backend_endpoint"`

	// BackendKey is the Azure OpenAI API key.
	BackendKey string `yaml:"backend_key"`

	// DefaultDeployment is used when a spec omits the deployment name.
	DefaultDeployment string `yaml:"default_deployment"`

	// APIVersion is passed through to the agent containers.
	APIVersion string `yaml:"api_version"`

	// Host is the hostname agents are reached at from this process.
	Host string `yaml:"host"`
}

const (
	defaultDeployment = "gpt-4o-mini"
	defaultAPIVersion = "2024-02-15-preview"
	defaultHost       = "localhost"
)

// LoadConfig builds a Config from an optional YAML file and the
// environment. A .env file in the working directory is loaded first if
// present. Environment variables override file values.
func LoadConfig(path string) (Config, error) {
	// Missing .env is fine; it is a development convenience.
	_ = godotenv.Load()

	cfg := Config{
		DefaultDeployment: defaultDeployment,
		APIVersion:        defaultAPIVersion,
		Host:              defaultHost,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		cfg.BackendEndpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_KEY"); v != "" {
		cfg.BackendKey = v
	}
	if v := os.Getenv("AZURE_DEPLOYMENT_NAME"); v != "" {
		cfg.DefaultDeployment = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}
	if v := os.Getenv("AGENTDOCK_HOST"); v != "" {
		cfg.Host = v
	}

	if cfg.DefaultDeployment == "" {
		cfg.DefaultDeployment = defaultDeployment
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}

	return cfg, nil
}

// BackendConfigured reports whether the upstream AI backend endpoint
// and credential are both present.
func (c Config) BackendConfigured() bool {
	return c.BackendEndpoint != "" && c.BackendKey != ""
}
