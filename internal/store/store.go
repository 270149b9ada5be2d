package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors callers branch on with errors.Is.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrDuplicateName   = errors.New("a session with this name already exists")
	ErrInvalidName     = errors.New("session name cannot be empty")
)

// Message is one entry in a session's append-only log. Messages are
// immutable once appended; summarization never edits them.
type Message struct {
	Seq       int       `json:"seq"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the single active condensation of a session's older history.
// Boundary is the count of leading messages the summary covers: messages
// with Seq < Boundary are condensed and no longer submitted to the model.
type Summary struct {
	Content   string    `json:"content"`
	Boundary  int       `json:"boundary"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is a named, independently persisted conversation thread.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages,omitempty"`
	Summary   *Summary  `json:"summary,omitempty"`
}

// Store is the interface for persistent conversation storage. Identifiers
// are opaque; callers never construct storage paths.
type Store interface {
	CreateSession(ctx context.Context, name string) (*Session, error)
	// Load returns the full session snapshot: ordered messages and the
	// active summary, exactly as persisted.
	Load(ctx context.Context, id string) (*Session, error)
	// ListSessions returns session metadata (no messages), oldest first.
	// Unreadable rows are skipped and logged, never fatal.
	ListSessions(ctx context.Context) ([]Session, error)
	// AppendMessage assigns the next sequence position and persists it
	// before returning, so an accepted message survives a crash.
	AppendMessage(ctx context.Context, id, role, content string) (Message, error)
	// Messages returns the full stored history, condensed messages
	// included, for display purposes.
	Messages(ctx context.Context, id string) ([]Message, error)
	// RenameSession sanitizes the display name and returns the name
	// actually persisted, which may differ from the one requested.
	RenameSession(ctx context.Context, id, name string) (string, error)
	DeleteSession(ctx context.Context, id string) error
	// SetSummary replaces the session's active summary and advances the
	// summary boundary. At most one summary exists per session.
	SetSummary(ctx context.Context, id, content string, boundary int) error
	Close() error
}
