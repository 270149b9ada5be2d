package llm

// Message roles used throughout the application.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message as sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the input for one completion call. Exactly one attempt is made
// per call; retry policy belongs to the caller.
type Request struct {
	Model         string    `json:"model"`
	Messages      []Message `json:"messages"`
	SystemPrompt  string    `json:"system_prompt,omitempty"`
	Temperature   float64   `json:"temperature"`
	TopP          float64   `json:"top_p"`
	MaxTokens     int       `json:"max_tokens"`     // 0 means unlimited
	ContextWindow int       `json:"context_window"` // 0 means provider default
}

// Response is the generated completion.
type Response struct {
	Content    string `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      Usage  `json:"usage"`
}

// Usage tracks token consumption reported by the endpoint.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ErrorKind classifies completion failures.
type ErrorKind int

const (
	// ErrorUnknown covers failures that fit no other class.
	ErrorUnknown ErrorKind = iota
	// ErrorConnection means the endpoint was unreachable, including timeouts.
	ErrorConnection
	// ErrorModel means the endpoint was reached but rejected the request
	// (unknown model, bad parameters, non-2xx status).
	ErrorModel
	// ErrorMalformed means the endpoint answered with data the client
	// could not parse or that carried no completion.
	ErrorMalformed
)

// UserLabel returns the prefix shown to the user for this failure class.
func (k ErrorKind) UserLabel() string {
	switch k {
	case ErrorConnection:
		return "Request Error"
	case ErrorModel:
		return "HTTP Error"
	case ErrorMalformed:
		return "Malformed Response"
	default:
		return "Unexpected Error"
	}
}
