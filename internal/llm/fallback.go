package llm

import (
	"context"
	"errors"
	"log"
)

// FallbackProvider tries providers in order, moving on when the failure
// class suggests a different endpoint could still answer.
type FallbackProvider struct {
	providers []Provider
}

// NewFallbackProvider creates a provider chain. The first provider is primary.
func NewFallbackProvider(providers ...Provider) *FallbackProvider {
	return &FallbackProvider{providers: providers}
}

func (f *FallbackProvider) Name() string {
	if len(f.providers) > 0 {
		return f.providers[0].Name() + "+fallback"
	}
	return "fallback"
}

func (f *FallbackProvider) DefaultModel() string {
	if len(f.providers) > 0 {
		return f.providers[0].DefaultModel()
	}
	return ""
}

func (f *FallbackProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	var lastErr error
	for _, p := range f.providers {
		resp, err := p.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
		log.Printf("[fallback] provider %s failed: %v, trying next", p.Name(), err)
	}
	return nil, lastErr
}

// isRetryable returns true for failures that warrant trying another provider.
// A cancelled turn is never retried elsewhere.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		return true
	}
	// A rejected request would be rejected again; unreachable or garbled
	// endpoints are worth another try elsewhere.
	return cerr.Kind != ErrorModel
}
