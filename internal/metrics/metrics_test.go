package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()

	var metric dto.Metric
	switch v := c.(type) {
	case prometheus.Counter:
		if err := v.Write(&metric); err != nil {
			t.Fatalf("Failed to write metric: %v", err)
		}
	default:
		t.Fatalf("unsupported collector %T", c)
	}
	return metric.Counter.GetValue()
}

func TestNew(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}
	if m.Registry() == nil {
		t.Error("Registry() returned nil")
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	// Vectors without observations are not gathered; the plain ones are
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"lexdraft_drafts_downloaded_total", "lexdraft_uptime_seconds", "lexdraft_goroutines"} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestGlobalMetrics(t *testing.T) {
	SetGlobal(nil)
	if Global() != nil {
		t.Error("Global() should be nil before SetGlobal")
	}

	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	if Global() != m {
		t.Error("Global() did not return the set metrics")
	}
}

func TestIncDraftGenerated(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	IncDraftGenerated("Legal Memo", 12)
	IncDraftGenerated("Legal Memo", 8)
	IncDraftGenerated("General Letter", 3)

	counter, err := m.DraftsGeneratedTotal.GetMetricWithLabelValues("Legal Memo")
	if err != nil {
		t.Fatalf("Failed to get counter: %v", err)
	}
	if got := counterValue(t, counter); got != 2 {
		t.Errorf("Expected counter value 2, got %f", got)
	}

	var hist dto.Metric
	if err := m.DraftParagraphs.Write(&hist); err != nil {
		t.Fatalf("Failed to write histogram: %v", err)
	}
	if hist.Histogram.GetSampleCount() != 3 || hist.Histogram.GetSampleSum() != 23 {
		t.Errorf("histogram count=%d sum=%f", hist.Histogram.GetSampleCount(), hist.Histogram.GetSampleSum())
	}
}

func TestIncDraftError(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	IncDraftError(DraftErrorGeneration)
	IncDraftError(DraftErrorPersist)
	IncDraftError(DraftErrorGeneration)

	counter, _ := m.DraftErrorsTotal.GetMetricWithLabelValues(DraftErrorGeneration)
	if got := counterValue(t, counter); got != 2 {
		t.Errorf("generation errors = %f, want 2", got)
	}
	counter, _ = m.DraftErrorsTotal.GetMetricWithLabelValues(DraftErrorPersist)
	if got := counterValue(t, counter); got != 1 {
		t.Errorf("persist errors = %f, want 1", got)
	}
}

func TestObserveLLMRequest(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	ObserveLLMRequest("classify", 0.5, nil)
	ObserveLLMRequest("classify", 1.5, errors.New("timeout"))
	ObserveLLMRequest("chat", 0.1, nil)

	counter, _ := m.LLMRequestsTotal.GetMetricWithLabelValues("classify", "error")
	if got := counterValue(t, counter); got != 1 {
		t.Errorf("classify errors = %f, want 1", got)
	}
	counter, _ = m.LLMRequestsTotal.GetMetricWithLabelValues("classify", "ok")
	if got := counterValue(t, counter); got != 1 {
		t.Errorf("classify ok = %f, want 1", got)
	}
}

func TestCountersWithoutLabels(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	IncDraftDownloaded()
	AddDraftsExpired(3)
	AddDraftsExpired(0)
	IncDocumentProcessed()

	if got := counterValue(t, m.DraftsDownloadedTotal); got != 1 {
		t.Errorf("downloaded = %f", got)
	}
	if got := counterValue(t, m.DraftsExpiredTotal); got != 3 {
		t.Errorf("expired = %f", got)
	}
	if got := counterValue(t, m.DocumentsProcessedTotal); got != 1 {
		t.Errorf("processed = %f", got)
	}
}

func TestGlobalNilSafe(t *testing.T) {
	SetGlobal(nil)

	// These should not panic when global is nil
	IncDraftGenerated("x", 1)
	IncDraftError(DraftErrorPersist)
	IncDraftDownloaded()
	AddDraftsExpired(1)
	IncDocumentClassified("Legal Notice")
	IncDocumentProcessed()
	ObserveLLMRequest("chat", 1, nil)
	IncTemplateReload(nil)
}

func TestIncRateLimitExceeded(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	IncRateLimitExceeded("session")
	IncRateLimitExceeded("session")
	IncRateLimitExceeded("ip")

	counter, err := m.RateLimitExceededTotal.GetMetricWithLabelValues("session")
	if err != nil {
		t.Fatalf("Failed to get counter: %v", err)
	}
	if got := counterValue(t, counter); got != 2 {
		t.Errorf("Expected counter value 2, got %f", got)
	}
}
