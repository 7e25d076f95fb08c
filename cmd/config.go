package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lmoreno/pbigen/internal/azdo"
	"github.com/lmoreno/pbigen/internal/llm"
)

// createAdapter builds the model adapter from the defaults plus whatever
// the caller overrides. An empty model falls through to the catalog default.
func createAdapter(model string, maxTokens int) (llm.Adapter, error) {
	config := llm.DefaultConfig()
	config.Model = model
	if maxTokens > 0 {
		config.MaxTokens = maxTokens
	}
	return llm.NewAnthropicAPIAdapter(config)
}

// fileConfig is the .pbigen.yaml structure shared by all commands.
// Secrets never live here; they come from the environment.
type fileConfig struct {
	Model     string `yaml:"model,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`

	Azure struct {
		Organization  string `yaml:"organization,omitempty"`
		Project       string `yaml:"project,omitempty"`
		IterationPath string `yaml:"iteration_path,omitempty"`
		AreaPath      string `yaml:"area_path,omitempty"`
	} `yaml:"azure,omitempty"`
}

// loadFileConfig reads the config file, checking the explicit path, then
// .pbigen.yaml in the current directory, then ~/.pbigen.yaml. A missing file
// is not an error.
func loadFileConfig(explicit string) (*fileConfig, string, error) {
	path := explicit
	if path == "" {
		if _, err := os.Stat(".pbigen.yaml"); err == nil {
			path = ".pbigen.yaml"
		} else if home, err := os.UserHomeDir(); err == nil {
			homePath := filepath.Join(home, ".pbigen.yaml")
			if _, err := os.Stat(homePath); err == nil {
				path = homePath
			}
		}
	}

	if path == "" {
		return &fileConfig{}, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, path, nil
}

// azureConfig builds the board connection from the file config.
func (c *fileConfig) azureConfig() azdo.Config {
	return azdo.Config{
		Organization: c.Azure.Organization,
		Project:      c.Azure.Project,
	}
}

// configPath returns where setup writes the config.
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pbigen.yaml"
	}
	return filepath.Join(home, ".pbigen.yaml")
}
