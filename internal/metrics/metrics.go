package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Draft error kinds
const (
	DraftErrorGeneration = "generation"
	DraftErrorPersist    = "persist"
)

// Metrics holds all Prometheus metrics for lexdraft
type Metrics struct {
	// Drafting
	DraftsGeneratedTotal  *prometheus.CounterVec
	DraftErrorsTotal      *prometheus.CounterVec
	DraftsDownloadedTotal prometheus.Counter
	DraftsExpiredTotal    prometheus.Counter
	DraftParagraphs       prometheus.Histogram

	// Documents
	DocumentsClassifiedTotal *prometheus.CounterVec
	DocumentsProcessedTotal  prometheus.Counter

	// Text generation
	LLMRequestsTotal          *prometheus.CounterVec
	LLMRequestDurationSeconds *prometheus.HistogramVec

	// Templates
	TemplateReloadsTotal *prometheus.CounterVec

	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal            *prometheus.CounterVec

	// Rate limiting
	RateLimitExceededTotal *prometheus.CounterVec

	// System metrics
	UptimeSeconds prometheus.Gauge
	Goroutines    prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		DraftsGeneratedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexdraft_drafts_generated_total",
				Help: "Total number of generated draft documents",
			},
			[]string{"template"},
		),
		DraftErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexdraft_draft_errors_total",
				Help: "Total number of failed draft generations",
			},
			[]string{"kind"},
		),
		DraftsDownloadedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexdraft_drafts_downloaded_total",
				Help: "Total number of downloaded drafts",
			},
		),
		DraftsExpiredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexdraft_drafts_expired_total",
				Help: "Total number of drafts removed by the cleaner",
			},
		),
		DraftParagraphs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexdraft_draft_paragraphs",
				Help:    "Number of paragraphs per generated draft",
				Buckets: []float64{5, 10, 20, 40, 80, 160},
			},
		),

		DocumentsClassifiedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexdraft_documents_classified_total",
				Help: "Total number of classified documents",
			},
			[]string{"category"},
		),
		DocumentsProcessedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexdraft_documents_processed_total",
				Help: "Total number of summarized documents",
			},
		),

		LLMRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexdraft_llm_requests_total",
				Help: "Total number of text generation requests",
			},
			[]string{"operation", "status"},
		),
		LLMRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexdraft_llm_request_duration_seconds",
				Help:    "Text generation request duration in seconds",
				Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"operation"},
		),

		TemplateReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexdraft_template_reloads_total",
				Help: "Total number of template file reloads",
			},
			[]string{"result"},
		),

		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexdraft_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexdraft_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexdraft_api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),

		RateLimitExceededTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexdraft_ratelimit_exceeded_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"level"},
		),

		UptimeSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexdraft_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
		Goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexdraft_goroutines",
				Help: "Number of active goroutines",
			},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.DraftsGeneratedTotal,
		m.DraftErrorsTotal,
		m.DraftsDownloadedTotal,
		m.DraftsExpiredTotal,
		m.DraftParagraphs,
		m.DocumentsClassifiedTotal,
		m.DocumentsProcessedTotal,
		m.LLMRequestsTotal,
		m.LLMRequestDurationSeconds,
		m.TemplateReloadsTotal,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.APIErrorsTotal,
		m.RateLimitExceededTotal,
		m.UptimeSeconds,
		m.Goroutines,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// IncDraftGenerated counts a stored draft and its size
func IncDraftGenerated(template string, paragraphs int) {
	m := Global()
	if m != nil {
		m.DraftsGeneratedTotal.WithLabelValues(template).Inc()
		m.DraftParagraphs.Observe(float64(paragraphs))
	}
}

// IncDraftError counts a failed draft by kind (generation or persist)
func IncDraftError(kind string) {
	m := Global()
	if m != nil {
		m.DraftErrorsTotal.WithLabelValues(kind).Inc()
	}
}

// IncDraftDownloaded counts a served draft
func IncDraftDownloaded() {
	m := Global()
	if m != nil {
		m.DraftsDownloadedTotal.Inc()
	}
}

// AddDraftsExpired counts drafts removed by the cleaner
func AddDraftsExpired(n int) {
	m := Global()
	if m != nil && n > 0 {
		m.DraftsExpiredTotal.Add(float64(n))
	}
}

// IncDocumentClassified counts a classification result
func IncDocumentClassified(category string) {
	m := Global()
	if m != nil {
		m.DocumentsClassifiedTotal.WithLabelValues(category).Inc()
	}
}

// IncDocumentProcessed counts a summarized document
func IncDocumentProcessed() {
	m := Global()
	if m != nil {
		m.DocumentsProcessedTotal.Inc()
	}
}

// ObserveLLMRequest records one text generation call
func ObserveLLMRequest(operation string, seconds float64, err error) {
	m := Global()
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMRequestsTotal.WithLabelValues(operation, status).Inc()
	m.LLMRequestDurationSeconds.WithLabelValues(operation).Observe(seconds)
}

// IncTemplateReload counts a template file reload
func IncTemplateReload(err error) {
	m := Global()
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.TemplateReloadsTotal.WithLabelValues(result).Inc()
}

// IncRateLimitExceeded counts a request rejected at the given level
func IncRateLimitExceeded(level string) {
	m := Global()
	if m != nil {
		m.RateLimitExceededTotal.WithLabelValues(level).Inc()
	}
}
