package chat

import (
	"context"
	"strings"
	"sync"
	"testing"

	"recall/internal/config"
	"recall/internal/llm"
	"recall/internal/store"
)

// fakeProvider replays a scripted sequence of results and records every
// request it receives.
type fakeProvider struct {
	mu       sync.Mutex
	script   []func(*llm.Request) (*llm.Response, error)
	requests []*llm.Request
}

func (f *fakeProvider) Complete(_ context.Context, req *llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.script) == 0 {
		return &llm.Response{Content: "ok"}, nil
	}
	step := f.script[0]
	f.script = f.script[1:]
	return step(req)
}

func (f *fakeProvider) Name() string         { return "fake" }
func (f *fakeProvider) DefaultModel() string { return "fake-model" }

func reply(text string) func(*llm.Request) (*llm.Response, error) {
	return func(*llm.Request) (*llm.Response, error) {
		return &llm.Response{Content: text}, nil
	}
}

func fail(kind llm.ErrorKind) func(*llm.Request) (*llm.Response, error) {
	return func(*llm.Request) (*llm.Response, error) {
		return nil, &llm.Error{Kind: kind, Message: "scripted failure"}
	}
}

func TestSummarizerDue(t *testing.T) {
	mem := config.MemoryConfig{MaxHistory: 2, SummaryThreshold: 4, AutoSummarize: true}
	s := NewSummarizer(&fakeProvider{})

	if s.Due(sessionWith(3, nil), mem) {
		t.Fatal("should not be due below threshold")
	}
	if !s.Due(sessionWith(4, nil), mem) {
		t.Fatal("should be due at threshold")
	}

	mem.AutoSummarize = false
	if s.Due(sessionWith(40, nil), mem) {
		t.Fatal("should never be due when disabled")
	}

	// Messages already behind the boundary do not count again.
	mem.AutoSummarize = true
	sess := sessionWith(10, &store.Summary{Content: "old", Boundary: 8})
	if s.Due(sess, mem) {
		t.Fatal("only 2 messages since boundary, should not be due")
	}
}

func TestSummarizerRunSelectsRange(t *testing.T) {
	fake := &fakeProvider{script: []func(*llm.Request) (*llm.Response, error){reply("condensed")}}
	s := NewSummarizer(fake)

	cfg := config.Defaults()
	cfg.Memory = config.MemoryConfig{MaxHistory: 2, SummaryThreshold: 4, AutoSummarize: true}

	sum, err := s.Run(context.Background(), sessionWith(5, nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sum == nil {
		t.Fatal("expected a summary")
	}
	if sum.Content != "condensed" || sum.Boundary != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	req := fake.requests[0]
	if req.SystemPrompt != summarizeSystem {
		t.Fatalf("expected dedicated summarization prompt, got %q", req.SystemPrompt)
	}
	body := req.Messages[0].Content
	for _, want := range []string{"msg-0", "msg-1", "msg-2"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in condensation request", want)
		}
	}
	// The protected recent window is never summarized away.
	for _, recent := range []string{"msg-3", "msg-4"} {
		if strings.Contains(body, recent) {
			t.Fatalf("recent message %s leaked into condensation request", recent)
		}
	}
}

func TestSummarizerRunFoldsPriorSummary(t *testing.T) {
	fake := &fakeProvider{script: []func(*llm.Request) (*llm.Response, error){reply("newer")}}
	s := NewSummarizer(fake)

	cfg := config.Defaults()
	cfg.Memory = config.MemoryConfig{MaxHistory: 2, SummaryThreshold: 4, AutoSummarize: true}

	sess := sessionWith(8, &store.Summary{Content: "the old summary", Boundary: 3})
	sum, err := s.Run(context.Background(), sess, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Boundary != 6 {
		t.Fatalf("expected boundary 6, got %d", sum.Boundary)
	}
	body := fake.requests[0].Messages[0].Content
	if !strings.Contains(body, "the old summary") {
		t.Fatal("prior summary was not folded into the request")
	}
	if strings.Contains(body, "msg-0") || strings.Contains(body, "msg-2") {
		t.Fatal("already-condensed messages must not be resubmitted")
	}
}

func TestSummarizerRunEmptyRange(t *testing.T) {
	fake := &fakeProvider{}
	s := NewSummarizer(fake)

	cfg := config.Defaults()
	cfg.Memory = config.MemoryConfig{MaxHistory: 10, SummaryThreshold: 4, AutoSummarize: true}

	sum, err := s.Run(context.Background(), sessionWith(5, nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sum != nil {
		t.Fatalf("expected no-op, got %+v", sum)
	}
	if len(fake.requests) != 0 {
		t.Fatal("no model call should be made for an empty range")
	}
}
