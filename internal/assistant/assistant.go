// Package assistant implements the document analysis, chat and drafting
// operations on top of an LLM completer.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/foxzi/lexdraft/internal/draft"
	"github.com/foxzi/lexdraft/internal/drafting"
	"github.com/foxzi/lexdraft/internal/llm"
	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/foxzi/lexdraft/internal/session"
)

// Sampling temperatures per operation
const (
	temperatureDefault  = 0.2
	temperatureAnalysis = 0.1
)

var (
	// ErrNoDocument is returned by document chat before a PDF was processed
	ErrNoDocument = errors.New("no document uploaded in this session")

	// ErrEmptyMessage is returned for a blank chat message
	ErrEmptyMessage = errors.New("message is required")
)

// Completer produces text completions
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Config holds service settings
type Config struct {
	DraftDir   string // where generated .docx files are written
	MaxHistory int    // chat turns kept per session, 0 keeps all
}

// Service ties the completer, template registry and stores together
type Service struct {
	llm       Completer
	templates drafting.Source
	drafts    draft.Store
	sessions  session.Store
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a service
func New(c Completer, templates drafting.Source, drafts draft.Store, sessions session.Store, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		llm:       c,
		templates: templates,
		drafts:    drafts,
		sessions:  sessions,
		cfg:       cfg,
		logger:    logger.With("component", "assistant"),
		now:       time.Now,
	}
}

// Templates returns the active template registry
func (s *Service) Templates() *drafting.Registry {
	return s.templates.Current()
}

// Sessions returns the session store
func (s *Service) Sessions() session.Store {
	return s.sessions
}

func (s *Service) complete(ctx context.Context, operation string, req llm.Request) (string, error) {
	start := time.Now()
	resp, err := s.llm.Complete(ctx, req)
	metrics.ObserveLLMRequest(operation, time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Error("completion failed", "operation", operation, "error", err)
		return "", err
	}

	s.logger.Debug("completion done",
		"operation", operation,
		"model", resp.Model,
		"chars", len(resp.Content),
		"duration", time.Since(start),
	)
	return resp.Content, nil
}
