// Package pdftext extracts plain text from PDF documents.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a PDF parses but contains no extractable text,
// e.g. a scanned document without a text layer.
var ErrNoText = errors.New("no text found in PDF")

// Extract returns the text of every page of the PDF in data, in page order.
func Extract(data []byte) (string, error) {
	return ExtractReader(bytes.NewReader(data), int64(len(data)))
}

// ExtractReader is Extract for a random-access reader of known size.
func ExtractReader(r io.ReaderAt, size int64) (text string, err error) {
	// The parser panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("failed to parse PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	fonts := make(map[string]*pdf.Font)

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}

		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		sb.WriteString(pageText)
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrNoText
	}

	return sb.String(), nil
}

// Preview returns at most n runes of text, followed by "..." when truncated.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// Truncate returns at most n runes of text.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
