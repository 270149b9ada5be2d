package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	loader := &Loader{
		filePath: filepath.Join(t.TempDir(), "config.json"),
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LLM.Provider != "ollama" {
		t.Fatalf("expected ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.Memory.MaxHistory != 5 {
		t.Fatalf("expected max history 5, got %d", cfg.Memory.MaxHistory)
	}
	if cfg.Memory.SummaryThreshold != 20 {
		t.Fatalf("expected threshold 20, got %d", cfg.Memory.SummaryThreshold)
	}
	if !cfg.Memory.AutoSummarize {
		t.Fatal("expected auto summarize on by default")
	}
	if cfg.Agent.Temperature != 0.7 || cfg.Agent.TopP != 0.9 {
		t.Fatalf("unexpected generation defaults: %+v", cfg.Agent)
	}
	if cfg.Agent.MaxTokens != 0 {
		t.Fatalf("expected unlimited max tokens, got %d", cfg.Agent.MaxTokens)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	loader := &Loader{filePath: path}

	cfg := Defaults()
	cfg.LLM.Provider = "anthropic"
	cfg.LLM.Model = "claude-sonnet-4-5-20250514"
	cfg.Memory.MaxHistory = 2

	if err := loader.Save(cfg); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	if loaded.LLM.Provider != "anthropic" {
		t.Fatalf("expected anthropic, got %s", loaded.LLM.Provider)
	}
	if loaded.Memory.MaxHistory != 2 {
		t.Fatalf("expected max history 2, got %d", loaded.Memory.MaxHistory)
	}
}

func TestAbsentFieldsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"llm":{"model":"mistral"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{filePath: path}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LLM.Model != "mistral" {
		t.Fatalf("expected mistral, got %s", cfg.LLM.Model)
	}
	if cfg.Memory.SummaryThreshold != 20 {
		t.Fatalf("expected default threshold to survive partial config, got %d", cfg.Memory.SummaryThreshold)
	}
}
