package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DataDirName is the directory under the user's home
	DataDirName = ".donna"
	// ConfigFile is the config file name
	ConfigFile = "config.yaml"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs     FileSystem
	getenv func(string) string
}

// NewLoader creates a production Loader using the real filesystem and environment
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}, getenv: os.Getenv}
}

// NewLoaderWithFS creates a Loader with a custom filesystem and an empty environment (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs, getenv: func(string) string { return "" }}
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// Load reads configuration from path, or from ~/.donna/config.yaml when
// path is empty, merges it over defaults and applies environment overrides.
// Returns default config if the file doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	homeDir, homeErr := l.fs.UserHomeDir()
	if homeErr == nil {
		cfg.DataDir = filepath.Join(homeDir, DataDirName)
	}

	if path == "" && homeErr == nil {
		path = filepath.Join(homeDir, DataDirName, ConfigFile)
	}

	if path != "" {
		data, err := l.fs.ReadFile(path)
		switch {
		case err == nil:
			// Decode directly into the default config so present keys
			// overwrite defaults and missing keys leave them untouched.
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Use defaults if file doesn't exist
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	l.applyEnv(cfg)

	if strings.HasPrefix(cfg.DataDir, "~") && homeErr == nil {
		cfg.DataDir = filepath.Join(homeDir, cfg.DataDir[1:])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv lets the environment override secrets and the active model.
func (l *Loader) applyEnv(cfg *Config) {
	if v := l.getenv("DONNA_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := l.getenv("GROQ_API_KEY"); v != "" {
		cfg.Groq.APIKey = v
	}
	if v := l.getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := l.getenv("OLLAMA_HOST"); v != "" {
		cfg.Ollama.Host = v
	}
	if v := l.getenv("DONNA_MODEL"); v != "" {
		switch cfg.Backend {
		case BackendGroq:
			cfg.Groq.Model = v
		case BackendGemini:
			cfg.Gemini.Model = v
		default:
			cfg.Ollama.Model = v
		}
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DataDirName, ConfigFile), nil
}

// Load is a convenience function using the default loader
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}
