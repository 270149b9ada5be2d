package chat

import (
	"fmt"
	"testing"

	"recall/internal/config"
	"recall/internal/llm"
	"recall/internal/store"
)

func sessionWith(n int, summary *store.Summary) *store.Session {
	sess := &store.Session{ID: "s", Name: "s", Summary: summary}
	for i := 0; i < n; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		sess.Messages = append(sess.Messages, store.Message{
			Seq: i, Role: role, Content: fmt.Sprintf("msg-%d", i),
		})
	}
	return sess
}

func TestBuildRecentWindow(t *testing.T) {
	sess := sessionWith(10, nil)
	mem := config.MemoryConfig{MaxHistory: 3}

	msgs := BuildContext(sess, mem, "be helpful")

	if len(msgs) != 4 {
		t.Fatalf("expected prompt + 3 messages, got %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem || msgs[0].Content != "be helpful" {
		t.Fatalf("expected system prompt first, got %+v", msgs[0])
	}
	for i, want := range []string{"msg-7", "msg-8", "msg-9"} {
		if msgs[i+1].Content != want {
			t.Fatalf("expected %s at position %d, got %s", want, i+1, msgs[i+1].Content)
		}
	}
}

func TestBuildFewerMessagesThanMax(t *testing.T) {
	sess := sessionWith(2, nil)
	mem := config.MemoryConfig{MaxHistory: 10}

	msgs := BuildContext(sess, mem, "p")
	if len(msgs) != 3 {
		t.Fatalf("expected prompt + 2 messages, got %d", len(msgs))
	}
}

func TestBuildStatelessMode(t *testing.T) {
	sess := sessionWith(50, nil)
	mem := config.MemoryConfig{MaxHistory: 0}

	msgs := BuildContext(sess, mem, "only me")
	if len(msgs) != 1 || msgs[0].Content != "only me" {
		t.Fatalf("expected just the system prompt, got %v", msgs)
	}

	sess.Summary = &store.Summary{Content: "the past", Boundary: 40}
	msgs = BuildContext(sess, mem, "only me")
	if len(msgs) != 2 {
		t.Fatalf("expected prompt + summary, got %v", msgs)
	}
	if msgs[1].Role != llm.RoleSystem {
		t.Fatalf("expected summary as system message, got %+v", msgs[1])
	}
}

func TestBuildExcludesCondensedMessages(t *testing.T) {
	sess := sessionWith(10, &store.Summary{Content: "early talk", Boundary: 8})
	mem := config.MemoryConfig{MaxHistory: 5}

	msgs := BuildContext(sess, mem, "")

	// Summary, then only the 2 messages past the boundary.
	if len(msgs) != 3 {
		t.Fatalf("expected summary + 2 messages, got %d", len(msgs))
	}
	if msgs[1].Content != "msg-8" || msgs[2].Content != "msg-9" {
		t.Fatalf("expected messages after the boundary, got %v", msgs)
	}
}

func TestBuildEmptySession(t *testing.T) {
	msgs := BuildContext(sessionWith(0, nil), config.MemoryConfig{MaxHistory: 5}, "")
	if len(msgs) != 0 {
		t.Fatalf("expected empty context, got %v", msgs)
	}
}
