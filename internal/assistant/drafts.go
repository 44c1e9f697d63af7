package assistant

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/foxzi/lexdraft/internal/draft"
	"github.com/foxzi/lexdraft/internal/drafting"
	"github.com/foxzi/lexdraft/internal/llm"
	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/foxzi/lexdraft/internal/pdftext"
)

var (
	// ErrGeneration wraps failures of the model call producing draft text
	ErrGeneration = errors.New("draft generation failed")

	// ErrPersist wraps failures writing or recording the draft file
	ErrPersist = errors.New("draft persistence failed")
)

// DraftRequest describes a draft to generate
type DraftRequest struct {
	Category     string // selects the formatting template
	Instructions string
	Message      string // the user's chat message, sent as the prompt
	Context      string // document text the draft responds to
}

// DraftResult describes a stored draft
type DraftResult struct {
	ID         string `json:"draft_id"`
	Template   string `json:"template"`
	Filename   string `json:"filename"`
	Paragraphs int    `json:"paragraphs"`
}

// GenerateDraft writes a response document for the given category
func (s *Service) GenerateDraft(ctx context.Context, req DraftRequest) (*DraftResult, error) {
	tmpl := s.templates.Current().Resolve(req.Category)

	system, err := render("draft", map[string]any{
		"Instructions": req.Instructions,
		"Category":     req.Category,
		"Context":      pdftext.Truncate(req.Context, draftContextChars),
		"Date":         s.now().Format(tmpl.DateFormat),
	})
	if err != nil {
		return nil, err
	}

	prompt := req.Message
	if prompt == "" {
		prompt = req.Instructions
	}
	return s.buildDraft(ctx, tmpl, llm.Request{
		System:      system,
		Prompt:      prompt,
		Temperature: temperatureDefault,
	})
}

// GenerateGeneralDraft writes a document that is not tied to an upload.
// It always uses the General Letter template.
func (s *Service) GenerateGeneralDraft(ctx context.Context, instructions, message string) (*DraftResult, error) {
	tmpl, ok := s.templates.Current().Lookup(drafting.TemplateGeneralLetter)
	if !ok {
		tmpl = s.templates.Current().Resolve(drafting.DefaultCategory)
	}

	system, err := render("general_draft", map[string]any{
		"Instructions": instructions,
		"Date":         s.now().Format(tmpl.DateFormat),
	})
	if err != nil {
		return nil, err
	}

	prompt := message
	if prompt == "" {
		prompt = instructions
	}
	return s.buildDraft(ctx, tmpl, llm.Request{
		System:      system,
		Prompt:      prompt,
		Temperature: temperatureDefault,
	})
}

func (s *Service) buildDraft(ctx context.Context, tmpl drafting.Template, req llm.Request) (*DraftResult, error) {
	content, err := s.complete(ctx, "draft", req)
	if err != nil {
		metrics.IncDraftError(metrics.DraftErrorGeneration)
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	doc := drafting.Build(content, tmpl)
	for _, p := range doc.Paragraphs {
		if p.Section == drafting.SectionSalutation {
			s.logger.Debug("salutation rendered with body style", "template", tmpl.Name, "text", p.Text())
			break
		}
	}

	if err := os.MkdirAll(s.cfg.DraftDir, 0755); err != nil {
		metrics.IncDraftError(metrics.DraftErrorPersist)
		return nil, fmt.Errorf("%w: failed to create draft directory: %w", ErrPersist, err)
	}

	path, err := drafting.SaveDocxTemp(s.cfg.DraftDir, doc)
	if err != nil {
		metrics.IncDraftError(metrics.DraftErrorPersist)
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	filename := draft.Filename(s.now())
	id, err := s.drafts.Put(ctx, path, filename)
	if err != nil {
		os.Remove(path)
		metrics.IncDraftError(metrics.DraftErrorPersist)
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	metrics.IncDraftGenerated(tmpl.Name, len(doc.Paragraphs))
	s.logger.Info("draft generated",
		"draft_id", id,
		"template", tmpl.Name,
		"paragraphs", len(doc.Paragraphs),
	)

	return &DraftResult{
		ID:         id,
		Template:   tmpl.Name,
		Filename:   filename,
		Paragraphs: len(doc.Paragraphs),
	}, nil
}
