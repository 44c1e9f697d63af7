package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/foxzi/lexdraft/internal/assistant"
	"github.com/foxzi/lexdraft/internal/draft"
	"github.com/foxzi/lexdraft/internal/drafting"
	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/foxzi/lexdraft/internal/pdftext"
	"github.com/foxzi/lexdraft/internal/session"
)

// multipart bodies above this size are spooled to disk
const maxMemoryUpload = 8 << 20

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ErrorResponse is the error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// CategoryResponse describes a category and the template used for its drafts
type CategoryResponse struct {
	Name     string   `json:"name"`
	Metrics  []string `json:"metrics"`
	Template string   `json:"template"`
}

// TemplatesResponse is the response for GET /templates
type TemplatesResponse struct {
	Templates  []string          `json:"templates"`
	Categories map[string]string `json:"categories"`
}

// ClassifyResponse is the response for POST /classify
type ClassifyResponse struct {
	Category string   `json:"category"`
	Metrics  []string `json:"metrics"`
	Preview  string   `json:"document_text"`
}

// ToneResponse is the response for POST /tone
type ToneResponse struct {
	Tone string `json:"tone"`
}

// ChatRequest is the request body for POST /chat
type ChatRequest struct {
	Message           string `json:"message" validate:"required,max=10000"`
	Category          string `json:"category" validate:"omitempty,max=128"`
	DetailedAnalysis  bool   `json:"detailed_analysis"`
	GenerateDraft     bool   `json:"generate_draft"`
	DraftInstructions string `json:"draft_instructions" validate:"max=10000"`
}

// GeneralChatRequest is the request body for POST /general-chat
type GeneralChatRequest struct {
	Message          string `json:"message" validate:"required,max=10000"`
	DetailedAnalysis bool   `json:"detailed_analysis"`
}

// DraftRequest is the request body for POST /drafts
type DraftRequest struct {
	Instructions string `json:"instructions" validate:"required,max=10000"`
	Message      string `json:"message" validate:"max=10000"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleCategories handles GET /api/v1/categories
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	reg := s.assistant.Templates()

	cats := assistant.Categories()
	resp := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = CategoryResponse{
			Name:     c.Name,
			Metrics:  c.Metrics,
			Template: reg.TemplateName(c.Name),
		}
	}
	s.sendJSON(w, http.StatusOK, resp)
}

// handleTemplates handles GET /api/v1/templates
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	reg := s.assistant.Templates()
	s.sendJSON(w, http.StatusOK, TemplatesResponse{
		Templates:  reg.Names(),
		Categories: reg.Categories(),
	})
}

// handleClassify handles POST /api/v1/classify
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	pdf, text, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	category := s.assistant.Classify(r.Context(), text)
	if err := s.assistant.StoreDocument(r.Context(), sessionID(r), pdf, text, category); err != nil {
		s.logger.Error("failed to store document", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to store document")
		return
	}

	var categoryMetrics []string
	for _, c := range assistant.Categories() {
		if c.Name == category {
			categoryMetrics = c.Metrics
		}
	}

	s.sendJSON(w, http.StatusOK, ClassifyResponse{
		Category: category,
		Metrics:  categoryMetrics,
		Preview:  pdftext.Preview(text, 200),
	})
}

// handleProcess handles POST /api/v1/process
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	pdf, text, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	category := r.FormValue("category")
	if !assistant.IsCategory(category) {
		category = s.assistant.Classify(r.Context(), text)
	}

	analysis, err := s.assistant.Process(r.Context(), text)
	if err != nil {
		s.logger.Error("failed to process document", "error", err)
		s.sendError(w, http.StatusBadGateway, "Failed to analyze document")
		return
	}

	if err := s.assistant.StoreDocument(r.Context(), sessionID(r), pdf, text, category); err != nil {
		s.logger.Error("failed to store document", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to store document")
		return
	}

	s.sendJSON(w, http.StatusOK, analysis)
}

// handleTone handles POST /api/v1/tone
func (s *Server) handleTone(w http.ResponseWriter, r *http.Request) {
	sess, err := s.assistant.Sessions().Get(r.Context(), sessionID(r))
	if err != nil || !sess.HasDocument() {
		s.sendError(w, http.StatusBadRequest, "Please upload a document first")
		return
	}

	tone, err := s.assistant.AnalyzeTone(r.Context(), sess.DocumentText)
	if err != nil {
		s.sendError(w, http.StatusBadGateway, "Failed to analyze tone")
		return
	}
	s.sendJSON(w, http.StatusOK, ToneResponse{Tone: tone})
}

// handleViewDocument handles GET /api/v1/document
func (s *Server) handleViewDocument(w http.ResponseWriter, r *http.Request) {
	sess, err := s.assistant.Sessions().Get(r.Context(), sessionID(r))
	if err != nil || len(sess.PDF) == 0 {
		s.sendError(w, http.StatusNotFound, "No document found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="document.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(sess.PDF)
}

// handleChat handles POST /api/v1/chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendDecodeError(w, err)
		return
	}

	reply, err := s.assistant.Chat(r.Context(), sessionID(r), assistant.ChatRequest{
		Message:           req.Message,
		Category:          req.Category,
		Detailed:          req.DetailedAnalysis,
		GenerateDraft:     req.GenerateDraft,
		DraftInstructions: req.DraftInstructions,
	})
	if err != nil {
		s.sendAssistantError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, reply)
}

// handleGeneralChat handles POST /api/v1/general-chat
func (s *Server) handleGeneralChat(w http.ResponseWriter, r *http.Request) {
	var req GeneralChatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendDecodeError(w, err)
		return
	}

	reply, err := s.assistant.GeneralChat(r.Context(), sessionID(r), req.Message, req.DetailedAnalysis)
	if err != nil {
		s.sendAssistantError(w, err)
		return
	}

	// reasoning is always present, empty outside detailed mode
	s.sendJSON(w, http.StatusOK, map[string]any{
		"response":  reply.Response,
		"reasoning": reply.Reasoning,
	})
}

// handleResetSession handles DELETE /api/v1/session
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	if err := s.assistant.Sessions().Delete(r.Context(), sessionID(r)); err != nil {
		s.logger.Error("failed to delete session", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to reset session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateDraft handles POST /api/v1/drafts
func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendDecodeError(w, err)
		return
	}

	res, err := s.assistant.GenerateGeneralDraft(r.Context(), req.Instructions, req.Message)
	if err != nil {
		s.sendAssistantError(w, err)
		return
	}

	s.sendJSON(w, http.StatusCreated, res)
}

// handleDownloadDraft handles GET /api/v1/drafts/{id}.
// A draft can be downloaded once; the file is removed afterwards.
func (s *Server) handleDownloadDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.drafts.Take(r.Context(), id)
	if errors.Is(err, draft.ErrNotFound) {
		s.sendError(w, http.StatusNotFound, "Draft not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get draft", "id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to get draft")
		return
	}
	defer os.Remove(d.Path)

	f, err := os.Open(d.Path)
	if err != nil {
		s.logger.Warn("draft file missing", "id", id, "path", d.Path, "error", err)
		s.sendError(w, http.StatusNotFound, "Draft not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", drafting.DocxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Warn("draft download interrupted", "id", id, "error", err)
		return
	}

	metrics.IncDraftDownloaded()
	s.logger.Info("draft downloaded", "id", id, "filename", d.Filename)
}

// readDocument reads the uploaded PDF from the "document" form field and
// extracts its text. It writes the error response itself and reports false
// on failure.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if s.config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(maxMemoryUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.sendError(w, http.StatusRequestEntityTooLarge, "File too large")
			return nil, "", false
		}
		s.sendError(w, http.StatusBadRequest, "No file uploaded")
		return nil, "", false
	}

	file, _, err := r.FormFile("document")
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "No file uploaded")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "Failed to read file")
		return nil, "", false
	}

	text, err := pdftext.Extract(data)
	if err != nil {
		s.logger.Warn("failed to extract PDF text", "bytes", len(data), "error", err)
		s.sendError(w, http.StatusUnprocessableEntity, "Failed to extract text from PDF")
		return nil, "", false
	}

	return data, text, true
}

// sendAssistantError maps service errors to HTTP responses
func (s *Server) sendAssistantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assistant.ErrNoDocument):
		s.sendError(w, http.StatusBadRequest, "Please upload a document first")
	case errors.Is(err, assistant.ErrEmptyMessage):
		s.sendError(w, http.StatusBadRequest, "message is required")
	case errors.Is(err, assistant.ErrGeneration):
		s.sendError(w, http.StatusInternalServerError, "Failed to generate draft")
	case errors.Is(err, assistant.ErrPersist):
		s.sendError(w, http.StatusInternalServerError, "Failed to save draft")
	case errors.Is(err, session.ErrNotFound):
		s.sendError(w, http.StatusBadRequest, "Session not found")
	default:
		s.logger.Error("request failed", "error", err)
		s.sendError(w, http.StatusBadGateway, "Failed to get response from the language model")
	}
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{Error: message})
}
