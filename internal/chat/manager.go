// Package chat orchestrates conversation turns: it routes user input to
// the right session, keeps submitted context bounded, triggers
// summarization when history grows past the threshold, and appends the
// model's reply back to the store.
package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"recall/internal/config"
	"recall/internal/eventbus"
	"recall/internal/llm"
	"recall/internal/prompt"
	"recall/internal/store"
)

// Manager runs conversation turns. Turns on different sessions may run
// concurrently; turns on the same session are serialized by a per-session
// lock so sequence positions stay gap-free.
type Manager struct {
	store      store.Store
	provider   llm.Provider
	cfg        *config.Loader
	prompts    *prompt.Catalog
	bus        *eventbus.Bus
	summarizer *Summarizer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a turn manager.
func NewManager(st store.Store, provider llm.Provider, cfg *config.Loader, prompts *prompt.Catalog, bus *eventbus.Bus) *Manager {
	return &Manager{
		store:      st,
		provider:   provider,
		cfg:        cfg,
		prompts:    prompts,
		bus:        bus,
		summarizer: NewSummarizer(provider),
		locks:      make(map[string]*sync.Mutex),
	}
}

func (m *Manager) sessionLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lk, ok := m.locks[id]
	if !ok {
		lk = &sync.Mutex{}
		m.locks[id] = lk
	}
	return lk
}

// Turn runs one conversation turn: append the user message, summarize if
// due, build context, call the model, append the reply. On completion
// failure the user message stays appended and the classified error is
// returned, so the turn can be retried by resubmitting. Cancelling ctx
// aborts the model call and behaves like a failed completion.
func (m *Manager) Turn(ctx context.Context, sessionID, text string) (string, error) {
	lk := m.sessionLock(sessionID)
	lk.Lock()
	defer lk.Unlock()

	sess, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}

	userMsg, err := m.store.AppendMessage(ctx, sessionID, llm.RoleUser, text)
	if err != nil {
		return "", err
	}
	sess.Messages = append(sess.Messages, userMsg)
	m.bus.Publish(eventbus.TopicUserMessage, userMsg)

	cfg := m.cfg.Get()

	if m.summarizer.Due(sess, cfg.Memory) {
		m.summarize(ctx, sess, cfg)
	}

	req := &llm.Request{
		Model:         cfg.LLM.Model,
		Messages:      BuildContext(sess, cfg.Memory, m.prompts.Get(cfg.Agent.PromptName)),
		Temperature:   cfg.Agent.Temperature,
		TopP:          cfg.Agent.TopP,
		MaxTokens:     cfg.Agent.MaxTokens,
		ContextWindow: cfg.Agent.ContextWindow,
	}

	cctx, cancel := m.callContext(ctx, cfg)
	defer cancel()

	resp, err := m.provider.Complete(cctx, req)
	if err != nil {
		m.bus.Publish(eventbus.TopicTurnError, err)
		return "", err
	}

	reply, err := m.store.AppendMessage(ctx, sessionID, llm.RoleAssistant, resp.Content)
	if err != nil {
		return "", err
	}
	m.bus.Publish(eventbus.TopicAssistantMessage, reply)

	return resp.Content, nil
}

// summarize runs an overdue condensation. Failures are logged and absorbed;
// the turn proceeds with the larger, unsummarized context and the trigger
// re-fires next turn.
func (m *Manager) summarize(ctx context.Context, sess *store.Session, cfg *config.Config) {
	cctx, cancel := m.callContext(ctx, cfg)
	defer cancel()

	sum, err := m.summarizer.Run(cctx, sess, cfg)
	if err != nil {
		log.Printf("[summarize] session %s: %v (will retry next turn)", sess.ID, err)
		return
	}
	if sum == nil {
		return
	}

	if err := m.store.SetSummary(ctx, sess.ID, sum.Content, sum.Boundary); err != nil {
		log.Printf("[summarize] session %s: persist failed: %v", sess.ID, err)
		return
	}
	sess.Summary = sum
	m.bus.Publish(eventbus.TopicSummaryCreated, sess.ID)
}

func (m *Manager) callContext(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.LLM.TimeoutSecs <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(cfg.LLM.TimeoutSecs)*time.Second)
}

// Session lifecycle is delegated to the store; the manager is the single
// facade front-ends talk to.

func (m *Manager) CreateSession(ctx context.Context, name string) (*store.Session, error) {
	return m.store.CreateSession(ctx, name)
}

func (m *Manager) Sessions(ctx context.Context) ([]store.Session, error) {
	return m.store.ListSessions(ctx)
}

// History returns the full stored log for display, condensed messages
// included. It is independent of context building.
func (m *Manager) History(ctx context.Context, sessionID string) ([]store.Message, error) {
	return m.store.Messages(ctx, sessionID)
}

func (m *Manager) RenameSession(ctx context.Context, sessionID, name string) (string, error) {
	return m.store.RenameSession(ctx, sessionID, name)
}

func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	lk := m.sessionLock(sessionID)
	lk.Lock()
	defer lk.Unlock()

	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.locks, sessionID)
	m.mu.Unlock()
	return nil
}
