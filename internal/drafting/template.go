package drafting

import (
	"fmt"
)

// Alignment is the horizontal alignment of a paragraph
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// Margins are page margins in inches
type Margins struct {
	Top    float64 `yaml:"top" json:"top"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
	Right  float64 `yaml:"right" json:"right"`
}

// SectionStyle describes run and paragraph formatting for one section
type SectionStyle struct {
	Font  string    `yaml:"font" json:"font"`
	Size  float64   `yaml:"size" json:"size"` // points
	Bold  bool      `yaml:"bold,omitempty" json:"bold,omitempty"`
	Align Alignment `yaml:"align" json:"align"`
}

// Template is a named bundle of formatting rules for a draft
type Template struct {
	Name       string       `yaml:"name" json:"name"`
	Margins    Margins      `yaml:"margins" json:"margins"`
	Header     SectionStyle `yaml:"header_format" json:"header_format"`
	Body       SectionStyle `yaml:"body_format" json:"body_format"`
	Signature  SectionStyle `yaml:"signature_format" json:"signature_format"`
	DateFormat string       `yaml:"date_format" json:"date_format"` // Go time layout

	// Informational only, rendering does not consult these.
	// IncludesDate gates date detection in the section classifier.
	IncludesHeader    bool `yaml:"includes_header" json:"includes_header"`
	IncludesDate      bool `yaml:"includes_date" json:"includes_date"`
	IncludesSignature bool `yaml:"includes_signature" json:"includes_signature"`
}

// Validate checks that margins, sizes and alignments are usable
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	m := t.Margins
	if m.Top <= 0 || m.Bottom <= 0 || m.Left <= 0 || m.Right <= 0 {
		return fmt.Errorf("template %q: margins must be positive", t.Name)
	}
	styles := map[string]SectionStyle{
		"header_format":    t.Header,
		"body_format":      t.Body,
		"signature_format": t.Signature,
	}
	for key, s := range styles {
		if s.Size <= 0 {
			return fmt.Errorf("template %q: %s.size must be positive", t.Name, key)
		}
		if s.Align != AlignLeft && s.Align != AlignCenter {
			return fmt.Errorf("template %q: %s.align must be left or center", t.Name, key)
		}
	}
	if t.DateFormat == "" {
		return fmt.Errorf("template %q: date_format is required", t.Name)
	}
	return nil
}

// Names of the built-in templates
const (
	TemplateLegalNoticeResponse = "Legal Notice Response"
	TemplateContractResponse    = "Contract Response"
	TemplateGeneralLetter       = "General Letter"
	TemplateLegalMemo           = "Legal Memo"
)

// DefaultCategory is the mapping key used for unknown categories
const DefaultCategory = "default"

var standardMargins = Margins{Top: 1.0, Bottom: 1.0, Left: 1.25, Right: 1.25}

func builtinTemplates() []Template {
	return []Template{
		{
			Name:              TemplateLegalNoticeResponse,
			Margins:           standardMargins,
			Header:            SectionStyle{Font: "Times New Roman", Size: 12, Bold: true, Align: AlignCenter},
			Body:              SectionStyle{Font: "Times New Roman", Size: 12, Align: AlignLeft},
			Signature:         SectionStyle{Font: "Times New Roman", Size: 12, Align: AlignLeft},
			DateFormat:        "January 02, 2006",
			IncludesHeader:    true,
			IncludesDate:      true,
			IncludesSignature: true,
		},
		{
			Name:              TemplateContractResponse,
			Margins:           standardMargins,
			Header:            SectionStyle{Font: "Arial", Size: 12, Bold: true, Align: AlignCenter},
			Body:              SectionStyle{Font: "Arial", Size: 11, Align: AlignLeft},
			Signature:         SectionStyle{Font: "Arial", Size: 11, Align: AlignLeft},
			DateFormat:        "02/01/2006",
			IncludesHeader:    true,
			IncludesDate:      true,
			IncludesSignature: true,
		},
		{
			Name:              TemplateGeneralLetter,
			Margins:           standardMargins,
			Header:            SectionStyle{Font: "Calibri", Size: 12, Bold: true, Align: AlignLeft},
			Body:              SectionStyle{Font: "Calibri", Size: 11, Align: AlignLeft},
			Signature:         SectionStyle{Font: "Calibri", Size: 11, Align: AlignLeft},
			DateFormat:        "January 02, 2006",
			IncludesHeader:    true,
			IncludesDate:      true,
			IncludesSignature: true,
		},
		{
			Name:              TemplateLegalMemo,
			Margins:           standardMargins,
			Header:            SectionStyle{Font: "Times New Roman", Size: 14, Bold: true, Align: AlignCenter},
			Body:              SectionStyle{Font: "Times New Roman", Size: 12, Align: AlignLeft},
			Signature:         SectionStyle{Font: "Times New Roman", Size: 12, Align: AlignLeft},
			DateFormat:        "January 02, 2006",
			IncludesHeader:    true,
			IncludesDate:      true,
			IncludesSignature: false,
		},
	}
}

func builtinCategoryMap() map[string]string {
	return map[string]string{
		"Legal Notice":                          TemplateLegalNoticeResponse,
		"Contracts & Agreements":                TemplateContractResponse,
		"Ownership Documents":                   TemplateLegalMemo,
		"Financial Documents":                   TemplateLegalMemo,
		"Terms & Conditions / Privacy Policies": TemplateLegalMemo,
		"Intellectual Property Documents":       TemplateLegalMemo,
		"Criminal Offense Documents":            TemplateLegalNoticeResponse,
		"Regulatory Compliance Documents":       TemplateLegalMemo,
		"Employment Documents":                  TemplateLegalMemo,
		"Court Judgments & Legal Precedents":    TemplateLegalMemo,
		DefaultCategory:                         TemplateGeneralLetter,
	}
}
