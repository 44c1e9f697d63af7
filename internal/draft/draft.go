// Package draft records generated draft documents for later download.
package draft

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for an unknown, downloaded or expired draft id
var ErrNotFound = errors.New("draft not found")

// Draft is a generated document waiting to be downloaded
type Draft struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`     // location of the .docx file
	Filename  string    `json:"filename"` // suggested download name
	CreatedAt time.Time `json:"created_at"`
}

// Store maps draft ids to generated files.
// Records are never updated; implementations are safe for concurrent use.
type Store interface {
	// Put records a generated file and returns a new unique id
	Put(ctx context.Context, path, filename string) (string, error)

	// Get looks up a draft, returning ErrNotFound if it does not exist
	Get(ctx context.Context, id string) (*Draft, error)

	// Take looks up a draft and removes it in one step, so that each id can
	// be downloaded once
	Take(ctx context.Context, id string) (*Draft, error)

	// Expire removes and returns drafts created more than olderThan ago
	Expire(ctx context.Context, olderThan time.Duration) ([]*Draft, error)

	// Close releases the store
	Close() error
}

// Filename returns the suggested download name for a draft created at t
func Filename(t time.Time) string {
	return "Legal_Draft_" + t.Format("20060102") + ".docx"
}

func newID() string {
	return uuid.New().String()
}
