package main

import (
	"context"
	"path/filepath"
	"testing"

	"recall/internal/chat"
	"recall/internal/config"
	"recall/internal/eventbus"
	"recall/internal/llm"
	"recall/internal/prompt"
	"recall/internal/store"
)

type stubProvider struct{}

func (stubProvider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	return &llm.Response{Content: "ok"}, nil
}

func (stubProvider) Name() string         { return "stub" }
func (stubProvider) DefaultModel() string { return "stub" }

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	loader := config.NewLoaderAt(filepath.Join(dir, "config.json"))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	st, err := store.NewSQLiteStore(filepath.Join(dir, "recall.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	prompts, err := prompt.NewCatalog(filepath.Join(dir, "prompts"))
	if err != nil {
		t.Fatal(err)
	}

	bus := eventbus.New()
	return &App{
		cfg:       cfg,
		cfgLoader: loader,
		store:     st,
		prompts:   prompts,
		bus:       bus,
		manager:   chat.NewManager(st, stubProvider{}, loader, prompts, bus),
	}
}

func TestSwitchCommandAnnouncesSession(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	first, err := app.manager.CreateSession(ctx, "first")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := app.manager.CreateSession(ctx, "second"); err != nil {
		t.Fatal(err)
	}

	var switched []string
	app.bus.Subscribe(eventbus.TopicSessionSwitched, func(e eventbus.Event) {
		switched = append(switched, e.Payload.(string))
	})

	var pending []attachment
	quit, next := app.handleCommand(ctx, "/switch second", first, &pending)
	if quit {
		t.Fatal("switch must not quit")
	}
	if next == nil || next.Name != "second" {
		t.Fatalf("expected to land on second, got %+v", next)
	}

	quit, next = app.handleCommand(ctx, "/new third", next, &pending)
	if quit {
		t.Fatal("new must not quit")
	}
	if next == nil || next.Name != "third" {
		t.Fatalf("expected to land on third, got %+v", next)
	}

	if len(switched) != 2 || switched[0] != "second" || switched[1] != "third" {
		t.Fatalf("expected switch events [second third], got %v", switched)
	}
}

func TestRenameCommandShowsPersistedName(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	sess, err := app.manager.CreateSession(ctx, "work")
	if err != nil {
		t.Fatal(err)
	}

	var pending []attachment
	app.handleCommand(ctx, "/rename my/new:name", sess, &pending)

	// The prompt shows the name the store actually kept.
	if sess.Name != "my_new_name" {
		t.Fatalf("expected sanitized name my_new_name, got %q", sess.Name)
	}

	loaded, err := app.store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != sess.Name {
		t.Fatalf("displayed name %q diverges from persisted %q", sess.Name, loaded.Name)
	}
}
