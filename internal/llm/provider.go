package llm

import "context"

// Provider is the interface all completion backends must implement.
type Provider interface {
	// Complete sends one completion request and returns the generated text.
	// A single attempt is made; failures come back as a classified *Error.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g. "ollama", "anthropic").
	Name() string

	// DefaultModel returns the model used when the request names none.
	DefaultModel() string
}

// Error wraps a completion failure with its classification.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
