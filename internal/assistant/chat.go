package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foxzi/lexdraft/internal/llm"
	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/foxzi/lexdraft/internal/pdftext"
	"github.com/foxzi/lexdraft/internal/session"
)

// DraftReply is the chat answer returned when a draft was generated
const DraftReply = "I've prepared a draft document based on your instructions. You can download it using the link below."

// Analysis is the result of processing an uploaded document
type Analysis struct {
	Summary    string   `json:"summary"`
	KeyPhrases []string `json:"key_phrases"`
	Preview    string   `json:"document_text"`
}

// ChatRequest is a question about the uploaded document
type ChatRequest struct {
	Message           string
	Category          string
	Detailed          bool
	GenerateDraft     bool
	DraftInstructions string
}

// ChatReply is the answer to a document or general question
type ChatReply struct {
	Response  string   `json:"response"`
	DraftID   string   `json:"draft_id,omitempty"`
	Reasoning []string `json:"reasoning,omitempty"`
}

// StoreDocument attaches an uploaded PDF and its text to the session and
// starts a fresh document chat
func (s *Service) StoreDocument(ctx context.Context, sessionID string, pdf []byte, text, category string) error {
	_, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.PDF = pdf
		sess.DocumentText = text
		sess.Category = category
		sess.History = nil
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	return nil
}

// Process summarizes a document and extracts its key phrases
func (s *Service) Process(ctx context.Context, text string) (*Analysis, error) {
	summaryPrompt, err := render("summary", map[string]any{"Text": text})
	if err != nil {
		return nil, err
	}
	summary, err := s.complete(ctx, "summary", llm.Request{
		Prompt:      summaryPrompt,
		Temperature: temperatureAnalysis,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to summarize document: %w", err)
	}

	phrasesPrompt, err := render("key_phrases", map[string]any{"Text": pdftext.Truncate(text, keyPhraseChars)})
	if err != nil {
		return nil, err
	}
	phrases, err := s.complete(ctx, "key_phrases", llm.Request{
		Prompt:      phrasesPrompt,
		Temperature: temperatureAnalysis,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract key phrases: %w", err)
	}

	metrics.IncDocumentProcessed()

	return &Analysis{
		Summary:    summary,
		KeyPhrases: splitPhrases(phrases),
		Preview:    pdftext.Preview(text, previewChars),
	}, nil
}

// AnalyzeTone describes the tone of a document
func (s *Service) AnalyzeTone(ctx context.Context, text string) (string, error) {
	prompt, err := render("tone", map[string]any{"Text": pdftext.Truncate(text, toneChars)})
	if err != nil {
		return "", err
	}
	tone, err := s.complete(ctx, "tone", llm.Request{
		Prompt:      prompt,
		Temperature: temperatureAnalysis,
	})
	if err != nil {
		return "", fmt.Errorf("failed to analyze tone: %w", err)
	}
	return tone, nil
}

// Chat answers a question about the document stored in the session.
// With GenerateDraft set it produces a draft instead of an answer.
func (s *Service) Chat(ctx context.Context, sessionID string, req ChatRequest) (*ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !sess.HasDocument() {
		return nil, ErrNoDocument
	}

	category := req.Category
	if category == "" {
		category = sess.Category
	}

	reply := &ChatReply{}
	if req.GenerateDraft {
		instructions := req.DraftInstructions
		if instructions == "" {
			instructions = req.Message
		}
		res, err := s.GenerateDraft(ctx, DraftRequest{
			Category:     category,
			Instructions: instructions,
			Message:      req.Message,
			Context:      sess.DocumentText,
		})
		if err != nil {
			return nil, err
		}
		reply.Response = DraftReply
		reply.DraftID = res.ID
	} else {
		system, err := render("document_chat", map[string]any{
			"Category": category,
			"Document": pdftext.Truncate(sess.DocumentText, chatContextChars),
			"History":  sess.History,
			"Detailed": req.Detailed,
		})
		if err != nil {
			return nil, err
		}
		reply.Response, err = s.complete(ctx, "chat", llm.Request{
			System: system,
			Prompt: req.Message,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to answer question: %w", err)
		}
	}

	_, err = s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.History = session.AppendTurns(sess.History, s.cfg.MaxHistory,
			session.Turn{Role: session.RoleUser, Content: req.Message},
			session.Turn{Role: session.RoleAssistant, Content: reply.Response},
		)
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to save chat history", "session", sessionID, "error", err)
	}

	return reply, nil
}

// GeneralChat answers a legal question that is not tied to a document.
// In detailed mode a second completion extracts the key reasoning points.
func (s *Service) GeneralChat(ctx context.Context, sessionID, message string, detailed bool) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	var history []session.Turn
	if sess, err := s.sessions.Get(ctx, sessionID); err == nil {
		history = sess.General
	}

	reply := &ChatReply{Reasoning: []string{}}
	if detailed {
		prompt, err := render("general_detailed", map[string]any{"Message": message})
		if err != nil {
			return nil, err
		}
		reply.Response, err = s.complete(ctx, "general_chat", llm.Request{
			System: transcript(history),
			Prompt: prompt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to answer question: %w", err)
		}

		reasoningPrompt, err := render("reasoning", map[string]any{"Response": reply.Response})
		if err != nil {
			return nil, err
		}
		points, err := s.complete(ctx, "reasoning", llm.Request{Prompt: reasoningPrompt})
		if err != nil {
			s.logger.Warn("failed to extract reasoning", "error", err)
		} else {
			reply.Reasoning = splitLines(points)
		}
	} else {
		system, err := render("general_chat", map[string]any{"History": history})
		if err != nil {
			return nil, err
		}
		reply.Response, err = s.complete(ctx, "general_chat", llm.Request{
			System: system,
			Prompt: message,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to answer question: %w", err)
		}
	}

	_, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.General = session.AppendTurns(sess.General, s.cfg.MaxHistory,
			session.Turn{Role: session.RoleUser, Content: message},
			session.Turn{Role: session.RoleAssistant, Content: reply.Response},
		)
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to save chat history", "session", sessionID, "error", err)
	}

	return reply, nil
}

func splitPhrases(s string) []string {
	phrases := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	return phrases
}

func splitLines(s string) []string {
	lines := []string{}
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
