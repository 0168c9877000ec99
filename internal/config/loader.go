package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "minio-stack.yaml"

// Load reads a configuration file, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Parameters, error) {
	p, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return p, nil
}

// LoadWithoutValidation loads a configuration file without validation.
// This is useful for tooling that needs to read partially valid configs.
func LoadWithoutValidation(path string) (*Parameters, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return prepare(data)
}

// LoadFromBytes loads and validates a configuration from bytes.
func LoadFromBytes(data []byte) (*Parameters, error) {
	p, err := prepare(data)
	if err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return p, nil
}

// FromEnv builds parameters purely from environment variables, for callers
// that run without a configuration file.
func FromEnv() (*Parameters, error) {
	p := &Parameters{}
	if err := p.ApplyEnv(); err != nil {
		return nil, err
	}
	p.ApplyDefaults()

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return p, nil
}

func prepare(data []byte) (*Parameters, error) {
	p, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyEnv(); err != nil {
		return nil, err
	}
	p.ApplyDefaults()
	return p, nil
}

// parse parses YAML data into Parameters.
func parse(data []byte) (*Parameters, error) {
	var p Parameters
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &p, nil
}

// FindConfigFile searches for a config file in the current directory and
// then walks up the directory tree.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for {
		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("config file %s not found", DefaultConfigFilename)
}

// Save writes parameters to a file with mode 0600. Optional fields equal to
// their default are omitted; name, namespace and the credential store are
// always written.
func Save(p *Parameters, path string) error {
	data, err := yaml.Marshal(p.withoutDefaults())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
