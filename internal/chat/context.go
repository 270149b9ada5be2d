package chat

import (
	"recall/internal/config"
	"recall/internal/llm"
	"recall/internal/store"
)

// summaryBoundary returns the sequence position marking the newest message
// already condensed into the active summary. Positions below it are never
// resubmitted.
func summaryBoundary(sess *store.Session) int {
	if sess.Summary == nil {
		return 0
	}
	return sess.Summary.Boundary
}

// BuildContext assembles exactly what is sent to the model for one turn:
// the agent system prompt, the active summary (if any), then the most
// recent min(maxHistory, available) messages after the summary boundary,
// oldest first. With maxHistory of 0 only the prompt and summary go out.
func BuildContext(sess *store.Session, mem config.MemoryConfig, systemPrompt string) []llm.Message {
	var msgs []llm.Message

	if systemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	}
	if sess.Summary != nil {
		msgs = append(msgs, llm.Message{
			Role:    llm.RoleSystem,
			Content: "Previous conversation summary: " + sess.Summary.Content,
		})
	}

	window := sess.Messages
	if b := summaryBoundary(sess); b < len(window) {
		window = window[b:]
	} else {
		window = nil
	}
	if mem.MaxHistory < len(window) {
		window = window[len(window)-mem.MaxHistory:]
	}

	for _, m := range window {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	return msgs
}
