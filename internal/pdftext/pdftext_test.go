package pdftext

import (
	"errors"
	"strings"
	"testing"

	"github.com/foxzi/lexdraft/internal/pdftext/pdftest"
)

func TestExtract(t *testing.T) {
	data := pdftest.Build("LEGAL NOTICE", "Payment overdue")

	text, err := Extract(data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for _, want := range []string{"LEGAL NOTICE", "Payment overdue"} {
		if !strings.Contains(text, want) {
			t.Errorf("Extract() = %q, missing %q", text, want)
		}
	}
}

func TestExtractInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("hello world")},
		{"truncated", pdftest.Build("x")[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Extract(tt.data); err == nil {
				t.Error("Extract() expected error")
			}
		})
	}
}

func TestExtractNoText(t *testing.T) {
	_, err := Extract(pdftest.Build())
	if !errors.Is(err, ErrNoText) {
		t.Errorf("Extract() error = %v, want ErrNoText", err)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"short", 200, "short"},
		{"abcdef", 3, "abc..."},
		{"äöüß", 2, "äö..."},
		{"exact", 5, "exact"},
	}
	for _, tt := range tests {
		if got := Preview(tt.text, tt.n); got != tt.want {
			t.Errorf("Preview(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Errorf("Truncate() = %q", got)
	}
}
