package chat

import (
	"context"
	"strings"

	"recall/internal/config"
	"recall/internal/llm"
	"recall/internal/store"
)

// summarizeSystem replaces the agent prompt during condensation requests.
const summarizeSystem = "You are a conversation summarizer. Create a brief, factual summary."

const summarizeInstruction = "Summarize the following conversation in a few sentences to preserve context. Keep names, decisions, and open threads:"

// Summarizer condenses a session's older history into a single summary
// message via a model call. It is a background data-quality concern: its
// failures are absorbed by the caller, never surfaced to the user.
type Summarizer struct {
	provider llm.Provider
}

// NewSummarizer creates a summarizer backed by the given provider.
func NewSummarizer(provider llm.Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

// Due reports whether the session has crossed the summarization threshold:
// auto-summarization is on and at least SummaryThreshold messages have
// accumulated past the summary boundary.
func (s *Summarizer) Due(sess *store.Session, mem config.MemoryConfig) bool {
	if !mem.AutoSummarize || mem.SummaryThreshold <= 0 {
		return false
	}
	return len(sess.Messages)-summaryBoundary(sess) >= mem.SummaryThreshold
}

// Run condenses every message between the summary boundary and the
// protected recent window. The prior summary, if any, is folded into the
// request so summaries supersede rather than stack. A nil result with nil
// error means nothing was eligible; the trigger re-fires next turn.
func (s *Summarizer) Run(ctx context.Context, sess *store.Session, cfg *config.Config) (*store.Summary, error) {
	begin := summaryBoundary(sess)
	end := len(sess.Messages) - cfg.Memory.MaxHistory
	if end <= begin {
		// Threshold crossed but everything eligible sits inside the
		// protected window, which is never condensed.
		return nil, nil
	}

	var sb strings.Builder
	if sess.Summary != nil {
		sb.WriteString("Summary of earlier conversation:\n")
		sb.WriteString(sess.Summary.Content)
		sb.WriteString("\n\n")
	}
	for _, m := range sess.Messages[begin:end] {
		sb.WriteString(capitalize(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}

	req := &llm.Request{
		Model:        cfg.LLM.Model,
		SystemPrompt: summarizeSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: summarizeInstruction + "\n\n" + sb.String()},
		},
		MaxTokens:     1024,
		Temperature:   0.3,
		ContextWindow: cfg.Agent.ContextWindow,
	}

	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	return &store.Summary{Content: resp.Content, Boundary: end}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
