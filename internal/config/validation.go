package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	switch c.Backend {
	case BackendOllama, BackendGroq, BackendGemini:
	default:
		errs = append(errs, fmt.Sprintf("backend must be one of ollama, groq, gemini (got %q)", c.Backend))
	}

	// Backend settings
	if c.Ollama.Host == "" {
		errs = append(errs, "ollama.host must not be empty")
	}
	if c.Ollama.Model == "" {
		errs = append(errs, "ollama.model must not be empty")
	}
	if c.Ollama.Temperature < 0 || c.Ollama.Temperature > 2 {
		errs = append(errs, "ollama.temperature must be between 0 and 2")
	}
	if c.Ollama.Timeout < 1 {
		errs = append(errs, "ollama.timeout must be >= 1")
	}
	if c.Groq.Temperature < 0 || c.Groq.Temperature > 2 {
		errs = append(errs, "groq.temperature must be between 0 and 2")
	}
	if c.Backend == BackendGroq && c.Groq.APIKey == "" {
		errs = append(errs, "groq.api_key is required for the groq backend (or set GROQ_API_KEY)")
	}
	if c.Backend == BackendGemini && c.Gemini.APIKey == "" {
		errs = append(errs, "gemini.api_key is required for the gemini backend (or set GEMINI_API_KEY)")
	}

	// Safety
	if c.Safety.MaxRedPerSession < 0 {
		errs = append(errs, "safety.max_red_per_session must be >= 0")
	}

	// Agent
	if c.Agent.MaxSteps < 1 {
		errs = append(errs, "agent.max_steps must be >= 1")
	}
	if c.Agent.DefaultRoute != "coder" && c.Agent.DefaultRoute != "sysadmin" {
		errs = append(errs, "agent.default_route must be coder or sysadmin")
	}
	if c.Agent.ContextWindow < 1 {
		errs = append(errs, "agent.context_window must be >= 1")
	}
	if c.Agent.ContextChars < 1 {
		errs = append(errs, "agent.context_chars must be >= 1")
	}

	// Tools
	if c.Tools.ShellTimeout < 1 {
		errs = append(errs, "tools.shell_timeout must be >= 1")
	}
	if c.Tools.MaxOutputChars < 1 {
		errs = append(errs, "tools.max_output_chars must be >= 1")
	}
	if c.Tools.FindLimit < 1 {
		errs = append(errs, "tools.find_limit must be >= 1")
	}
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
