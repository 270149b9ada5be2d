package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// defaultOllamaURL is the OpenAI-compatible endpoint of a local Ollama server.
const defaultOllamaURL = "http://localhost:11434/v1"

// OpenAIProvider implements Provider against any OpenAI-compatible API.
// This is the path to Ollama, LM Studio and vLLM via BaseURL.
type OpenAIProvider struct {
	client       openai.Client
	name         string
	defaultModel string
}

// OpenAIConfig holds configuration for the OpenAI-compatible provider.
type OpenAIConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint.
// An empty BaseURL targets a local Ollama server.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "ollama" // local servers ignore the key but the SDK wants one
	}

	name := cfg.Name
	if name == "" {
		name = "ollama"
	}
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}

	return &OpenAIProvider{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		name:         name,
		defaultModel: model,
	}
}

func (p *OpenAIProvider) Name() string         { return p.name }
func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

func (p *OpenAIProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: p.convertMessages(req),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}

	var opts []option.RequestOption
	if req.ContextWindow > 0 {
		// Context size hint honored by Ollama-style servers, ignored elsewhere.
		opts = append(opts, option.WithJSONSet("num_ctx", int64(req.ContextWindow)))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &Error{Kind: ErrorMalformed, Message: "completion response contained no choices"}
	}

	choice := resp.Choices[0]
	return &Response{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}

func (p *OpenAIProvider) convertMessages(req *Request) []openai.ChatCompletionMessageParamUnion {
	var msgs []openai.ChatCompletionMessageParamUnion

	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(req.SystemPrompt))
	}

	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case RoleUser:
			msgs = append(msgs, openai.UserMessage(m.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		}
	}
	return msgs
}

func classifyOpenAIError(err error) *Error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	cerr := &Error{Err: err, Message: msg}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		cerr.Kind = ErrorConnection
	case strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline") ||
		strings.Contains(lower, "dial tcp"):
		cerr.Kind = ErrorConnection
	case strings.Contains(lower, "unmarshal") ||
		strings.Contains(lower, "invalid character") ||
		strings.Contains(lower, "unexpected end of json"):
		cerr.Kind = ErrorMalformed
	case strings.Contains(lower, "status code") ||
		strings.Contains(lower, "404") ||
		strings.Contains(lower, "400") ||
		strings.Contains(lower, "model") ||
		strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "500") ||
		strings.Contains(lower, "502") ||
		strings.Contains(lower, "503"):
		cerr.Kind = ErrorModel
	default:
		cerr.Kind = ErrorUnknown
	}
	return cerr
}
