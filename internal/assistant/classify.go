package assistant

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/foxzi/lexdraft/internal/llm"
	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/foxzi/lexdraft/internal/pdftext"
)

// maxCategoryReply bounds the reply length considered for fuzzy matching
const maxCategoryReply = 64

// Classify asks the model for the category of a document. Replies that do not
// name a known category fall back to FallbackCategory.
func (s *Service) Classify(ctx context.Context, text string) string {
	prompt, err := render("classify", map[string]any{
		"Categories": CategoryNames(),
		"Text":       pdftext.Truncate(text, classifyChars),
	})
	if err != nil {
		s.logger.Error("failed to build classify prompt", "error", err)
		return FallbackCategory
	}

	reply, err := s.complete(ctx, "classify", llm.Request{
		Prompt:      prompt,
		Temperature: temperatureAnalysis,
	})
	if err != nil {
		s.logger.Warn("classification failed, using fallback", "category", FallbackCategory)
		metrics.IncDocumentClassified(FallbackCategory)
		return FallbackCategory
	}

	category := MatchCategory(reply)
	if category == "" {
		s.logger.Warn("unrecognized category reply", "reply", pdftext.Preview(reply, 80))
		category = FallbackCategory
	}
	metrics.IncDocumentClassified(category)
	return category
}

// MatchCategory maps a free-form model reply to a known category name.
// It returns an empty string when nothing matches.
func MatchCategory(reply string) string {
	lower := strings.ToLower(reply)

	// longest mentioned name wins
	best := ""
	for _, name := range CategoryNames() {
		if strings.Contains(lower, strings.ToLower(name)) && len(name) > len(best) {
			best = name
		}
	}
	if best != "" {
		return best
	}

	candidate := strings.TrimSpace(reply)
	if i := strings.IndexByte(candidate, '\n'); i >= 0 {
		candidate = candidate[:i]
	}
	candidate = strings.TrimSpace(strings.TrimPrefix(candidate, "Category:"))
	candidate = strings.Trim(candidate, " .*\"'")
	if candidate == "" || len(candidate) > maxCategoryReply {
		return ""
	}

	matches := fuzzy.Find(candidate, CategoryNames())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
