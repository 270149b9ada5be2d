package config

// Config is the top-level application configuration.
type Config struct {
	LLM         LLMConfig    `json:"llm"`
	FallbackLLM *LLMConfig   `json:"fallback_llm,omitempty"`
	Memory      MemoryConfig `json:"memory"`
	Agent       AgentConfig  `json:"agent"`
}

// LLMConfig describes one completion endpoint.
type LLMConfig struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	APIKey      string `json:"api_key,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
	TimeoutSecs int    `json:"timeout_secs"`
}

// MemoryConfig controls the conversation memory manager.
type MemoryConfig struct {
	// MaxHistory is the count of most recent messages always submitted
	// verbatim. Zero is valid: stateless mode, system prompt only.
	MaxHistory int `json:"max_history"`
	// SummaryThreshold is the message count past the summary boundary
	// that triggers summarization.
	SummaryThreshold int  `json:"summary_threshold"`
	AutoSummarize    bool `json:"auto_summarize"`
}

// AgentConfig holds the agent prompt selection and generation parameters.
type AgentConfig struct {
	PromptName    string  `json:"prompt_name"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	MaxTokens     int     `json:"max_tokens"`     // 0 means unlimited
	ContextWindow int     `json:"context_window"` // num_ctx hint for the model
}
