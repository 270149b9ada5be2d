package config

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "llama3",
			BaseURL:     "http://localhost:11434/v1",
			TimeoutSecs: 120,
		},
		Memory: MemoryConfig{
			MaxHistory:       5,
			SummaryThreshold: 20,
			AutoSummarize:    true,
		},
		Agent: AgentConfig{
			PromptName:    "none",
			Temperature:   0.7,
			TopP:          0.9,
			MaxTokens:     0,
			ContextWindow: 4096,
		},
	}
}
