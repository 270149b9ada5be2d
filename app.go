package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"recall/internal/chat"
	"recall/internal/config"
	"recall/internal/eventbus"
	"recall/internal/llm"
	"recall/internal/prompt"
	"recall/internal/secret"
	"recall/internal/store"
)

const (
	dataDir      = ".recall"
	dbFile       = "recall.db"
	promptsDir   = "prompts"
	keyPlacehold = "[keyring]"
)

// App holds the wired application state behind every command.
type App struct {
	cfg       *config.Config
	cfgLoader *config.Loader
	store     store.Store
	prompts   *prompt.Catalog
	bus       *eventbus.Bus
	manager   *chat.Manager
}

// NewApp creates an unstarted App.
func NewApp() *App {
	return &App{
		bus: eventbus.New(),
	}
}

// startup loads config and opens the store, prompt catalog, and provider.
func (a *App) startup() error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("create config loader: %w", err)
	}
	a.cfgLoader = loader

	cfg, err := loader.Load()
	if err != nil {
		log.Printf("[app] failed to load config, using defaults: %v", err)
		cfg = config.Defaults()
	}
	a.cfg = cfg
	a.resolveSecrets()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	st, err := store.NewSQLiteStore(filepath.Join(home, dataDir, dbFile))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	a.store = st

	a.prompts, err = prompt.NewCatalog(filepath.Join(home, dataDir, promptsDir))
	if err != nil {
		return fmt.Errorf("open prompt catalog: %w", err)
	}

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}
	if cfg.FallbackLLM != nil {
		if fb, err := llm.NewProvider(*cfg.FallbackLLM); err == nil {
			provider = llm.NewFallbackProvider(provider, fb)
		}
	}

	a.manager = chat.NewManager(a.store, provider, loader, a.prompts, a.bus)

	a.bus.Subscribe(eventbus.TopicSummaryCreated, func(e eventbus.Event) {
		log.Printf("[app] condensed older history for session %v", e.Payload)
	})
	a.bus.Subscribe(eventbus.TopicSessionSwitched, func(e eventbus.Event) {
		log.Printf("[app] active session is now %v", e.Payload)
	})
	a.bus.Subscribe(eventbus.TopicStatusChange, func(e eventbus.Event) {
		log.Printf("[app] status: %v", e.Payload)
	})

	a.bus.Publish(eventbus.TopicStatusChange, "ready")
	return nil
}

// shutdown releases resources.
func (a *App) shutdown() {
	a.bus.Publish(eventbus.TopicStatusChange, "shutting down")
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Printf("[app] failed to close store: %v", err)
		}
	}
}

// announceSession tells bus subscribers which session the user is now in.
func (a *App) announceSession(sess *store.Session) {
	a.bus.Publish(eventbus.TopicSessionSwitched, sess.Name)
}

// resolveSecrets fills the API key from the OS keyring when the config
// file carries only the placeholder.
func (a *App) resolveSecrets() {
	if a.cfg.LLM.APIKey != "" && a.cfg.LLM.APIKey != keyPlacehold {
		// Plaintext key found in the file: migrate it to the keyring.
		if err := secret.Set(secret.NameAPIKey, a.cfg.LLM.APIKey); err == nil {
			cfgForDisk := *a.cfg
			cfgForDisk.LLM.APIKey = keyPlacehold
			if err := a.cfgLoader.Save(&cfgForDisk); err != nil {
				log.Printf("[app] failed to rewrite config after key migration: %v", err)
			}
		}
		return
	}

	key, err := secret.Get(secret.NameAPIKey)
	if err != nil {
		log.Printf("[app] keyring unavailable: %v", err)
		return
	}
	if key != "" {
		a.cfg.LLM.APIKey = key
	}
}

// resolveSession finds a session by display name, falling back to exact
// identifier match.
func (a *App) resolveSession(ctx context.Context, name string) (*store.Session, error) {
	sessions, err := a.manager.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Name == name {
			return &sessions[i], nil
		}
	}
	for i := range sessions {
		if sessions[i].ID == name {
			return &sessions[i], nil
		}
	}
	return nil, store.ErrSessionNotFound
}

// openSession resolves a session by name, creating it when absent.
func (a *App) openSession(ctx context.Context, name string) (*store.Session, error) {
	sess, err := a.resolveSession(ctx, name)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, store.ErrSessionNotFound) {
		return nil, err
	}
	return a.manager.CreateSession(ctx, name)
}

// turnErrorMessage renders a failed turn the way the user sees it,
// distinguishing unreachable endpoints from rejected requests.
func turnErrorMessage(err error) string {
	var cerr *llm.Error
	if errors.As(err, &cerr) {
		return cerr.Kind.UserLabel() + ": " + cerr.Message
	}
	return "Error: " + err.Error()
}
