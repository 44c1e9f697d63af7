package drafting

import (
	"strings"
)

// Run is a span of text with uniform character formatting
type Run struct {
	Text string
	Font string
	Size float64 // points
	Bold bool
}

// Paragraph is one line of the rendered draft
type Paragraph struct {
	Section Section // empty for spacing paragraphs
	Align   Alignment
	Runs    []Run
}

// Blank reports whether the paragraph is an empty spacing paragraph
func (p Paragraph) Blank() bool {
	return len(p.Runs) == 0
}

// Text returns the concatenated text of all runs
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Document is a structured, styled draft ready for serialization
type Document struct {
	Margins    Margins
	Paragraphs []Paragraph
}

// Sections returns the section of every paragraph in order.
// Blank paragraphs report an empty section.
func (d *Document) Sections() []Section {
	out := make([]Section, len(d.Paragraphs))
	for i, p := range d.Paragraphs {
		out[i] = p.Section
	}
	return out
}

// Build turns generated draft text into a styled document using tmpl.
// Every input line produces exactly one paragraph; blank lines become spacing
// paragraphs and do not advance the section classifier. Empty content yields
// a document with margins and no paragraphs.
func Build(content string, tmpl Template) *Document {
	doc := &Document{Margins: tmpl.Margins}
	if content == "" {
		return doc
	}

	lines := strings.Split(content, "\n")
	doc.Paragraphs = make([]Paragraph, 0, len(lines))

	current := SectionHeader
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			doc.Paragraphs = append(doc.Paragraphs, Paragraph{Align: AlignLeft})
			continue
		}

		current = Advance(current, line, tmpl)
		doc.Paragraphs = append(doc.Paragraphs, styledParagraph(current, line, tmpl))
	}

	return doc
}

// styledParagraph applies the formatting for section s.
// Salutation lines have no style of their own and are rendered like the body.
func styledParagraph(s Section, text string, tmpl Template) Paragraph {
	p := Paragraph{Section: s, Align: AlignLeft}

	switch s {
	case SectionHeader:
		p.Align = tmpl.Header.Align
		p.Runs = []Run{{Text: text, Font: tmpl.Header.Font, Size: tmpl.Header.Size, Bold: tmpl.Header.Bold}}
	case SectionSignature:
		p.Runs = []Run{{Text: text, Font: tmpl.Signature.Font, Size: tmpl.Signature.Size}}
	default:
		p.Runs = []Run{{Text: text, Font: tmpl.Body.Font, Size: tmpl.Body.Size}}
	}

	return p
}
