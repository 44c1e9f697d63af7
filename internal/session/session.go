// Package session keeps per-client state between requests: the uploaded
// document, its extracted text and the chat transcripts.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session does not exist or has expired
var ErrNotFound = errors.New("session not found")

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one chat message
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the state of one client
type Session struct {
	ID           string    `json:"id"`
	DocumentText string    `json:"document_text,omitempty"`
	PDF          []byte    `json:"pdf,omitempty"`
	Category     string    `json:"category,omitempty"`
	History      []Turn    `json:"history,omitempty"`         // document chat
	General      []Turn    `json:"general_history,omitempty"` // general legal chat
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasDocument reports whether a document was uploaded in this session
func (s *Session) HasDocument() bool {
	return s.DocumentText != ""
}

// Store persists sessions
type Store interface {
	// Get returns the session or ErrNotFound
	Get(ctx context.Context, id string) (*Session, error)

	// Update loads the session (creating an empty one if missing), applies fn
	// and saves the result. Concurrent updates of one id are serialized.
	// If fn returns an error nothing is saved.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)

	// Delete removes the session
	Delete(ctx context.Context, id string) error

	// Close releases the store
	Close() error
}

// NewID generates a new session id
func NewID() string {
	return uuid.New().String()
}

// AppendTurns appends turns to history and keeps at most max entries,
// dropping the oldest. max <= 0 keeps everything.
func AppendTurns(history []Turn, max int, turns ...Turn) []Turn {
	history = append(history, turns...)
	if max > 0 && len(history) > max {
		history = append([]Turn(nil), history[len(history)-max:]...)
	}
	return history
}
