package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_content.yaml
var defaultContent []byte

// Default returns the built-in content tables.
func Default() (*Tables, error) {
	return Parse(defaultContent)
}

// Load reads content tables from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOrDefault loads path, or the built-in tables when path is empty.
func LoadOrDefault(path string) (*Tables, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes, indexes and validates content tables.
func Parse(data []byte) (*Tables, error) {
	expanded := expandEnvVars(string(data))

	var tables Tables
	if err := yaml.Unmarshal([]byte(expanded), &tables); err != nil {
		return nil, fmt.Errorf("failed to parse content YAML: %w", err)
	}

	tables.Index()
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}

	return &tables, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		value := os.Getenv(parts[0])
		if value == "" && len(parts) == 2 {
			return parts[1]
		}
		return value
	})
}
