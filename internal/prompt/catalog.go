// Package prompt provides the agent prompt catalog: a directory of named
// text blocks, any of which can serve as the system prompt.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// NoPrompt is the reserved preset name meaning "no system prompt".
const NoPrompt = "none"

const maxPromptSize = 64 * 1024

// Catalog reads agent prompts from a directory of .txt files. The file
// base name is the preset name. The catalog is consulted at turn time, so
// externally added or removed files take effect without a restart.
type Catalog struct {
	dir string
}

// NewCatalog creates a catalog over the given directory, creating it if
// needed.
func NewCatalog(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompts dir: %w", err)
	}
	return &Catalog{dir: dir}, nil
}

// List returns the available preset names, sorted, always including
// NoPrompt.
func (c *Catalog) List() []string {
	names := []string{NoPrompt}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return names
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}

// Get returns the prompt text for a preset. NoPrompt, an unknown name, or
// an unreadable file all yield the empty prompt. Names with path
// separators never leave the catalog directory.
func (c *Catalog) Get(name string) string {
	if name == "" || name == NoPrompt || strings.ContainsAny(name, `/\`) {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(c.dir, name+".txt"))
	if err != nil || len(data) > maxPromptSize {
		return ""
	}
	return strings.TrimSpace(string(data))
}
