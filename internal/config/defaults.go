package config

// Backend names.
const (
	BackendOllama = "ollama"
	BackendGroq   = "groq"
	BackendGemini = "gemini"
)

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via the YAML file
// and then via environment variables.
// NOTE: Values in the config file override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	// Backend selects the model provider: ollama, groq or gemini.
	Backend string `yaml:"backend"`
	// DataDir holds feedback files and the log. Defaults to ~/.donna.
	DataDir string `yaml:"data_dir"`

	Ollama OllamaConfig `yaml:"ollama"`
	Groq   GroqConfig   `yaml:"groq"`
	Gemini GeminiConfig `yaml:"gemini"`
	Safety SafetyConfig `yaml:"safety"`
	Agent  AgentConfig  `yaml:"agent"`
	Tools  ToolsConfig  `yaml:"tools"`
}

type OllamaConfig struct {
	Host        string  `yaml:"host"`        // Default: http://localhost:11434
	Model       string  `yaml:"model"`       // Default: llama3:8b
	Temperature float64 `yaml:"temperature"` // Default: 0.2
	Timeout     int     `yaml:"timeout"`     // Default: 300 (seconds)
}

type GroqConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`       // Default: llama-3.3-70b-versatile
	Temperature float64 `yaml:"temperature"` // Default: 0.3
	BaseURL     string  `yaml:"base_url"`    // Default: https://api.groq.com/openai/v1
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: gemini-2.5-flash
}

type SafetyConfig struct {
	RedKeywords      []string `yaml:"red_keywords"`        // Default: rm, sudo, del, >
	AutoApproveGreen bool     `yaml:"auto_approve_green"`  // Default: true
	MaxRedPerSession int      `yaml:"max_red_per_session"` // Default: 10
}

type AgentConfig struct {
	MaxSteps      int    `yaml:"max_steps"`      // Default: 15
	Critic        bool   `yaml:"critic"`         // Default: false
	DefaultRoute  string `yaml:"default_route"`  // Default: coder
	ContextWindow int    `yaml:"context_window"` // Default: 3 shared-log entries
	ContextChars  int    `yaml:"context_chars"`  // Default: 500
}

type ToolsConfig struct {
	ShellTimeout   int `yaml:"shell_timeout"`    // Default: 120 (seconds)
	MaxOutputChars int `yaml:"max_output_chars"` // Default: 8000
	FindLimit      int `yaml:"find_limit"`       // Default: 50
	MaxFileSize    int `yaml:"max_file_size"`    // Default: 5 * 1024 * 1024
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendOllama,
		Ollama: OllamaConfig{
			Host:        "http://localhost:11434",
			Model:       "llama3:8b",
			Temperature: 0.2,
			Timeout:     300,
		},
		Groq: GroqConfig{
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.3,
			BaseURL:     "https://api.groq.com/openai/v1",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Safety: SafetyConfig{
			RedKeywords:      []string{"rm", "sudo", "del", ">"},
			AutoApproveGreen: true,
			MaxRedPerSession: 10,
		},
		Agent: AgentConfig{
			MaxSteps:      15,
			DefaultRoute:  "coder",
			ContextWindow: 3,
			ContextChars:  500,
		},
		Tools: ToolsConfig{
			ShellTimeout:   120,
			MaxOutputChars: 8000,
			FindLimit:      50,
			MaxFileSize:    5 * 1024 * 1024,
		},
	}
}
