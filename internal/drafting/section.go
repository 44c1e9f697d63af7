package drafting

import (
	"strings"
	"unicode/utf8"
)

// Section is the structural role of a line in a draft
type Section string

const (
	SectionHeader     Section = "header"
	SectionDate       Section = "date"
	SectionSalutation Section = "salutation"
	SectionBody       Section = "body"
	SectionSignature  Section = "signature"
)

// minBodyLineLength is the length a line must exceed to start the body
const minBodyLineLength = 20

var (
	monthNames = []string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
	salutationMarkers = []string{"dear", "to whom", "attention", "attn", "re:", "subject:"}
	closingMarkers    = []string{"sincerely", "regards", "truly", "thank you", "best", "respectfully"}
)

// transition is one rule of the classifier: when the current section is in
// from and match accepts the line, the classifier moves to next
type transition struct {
	from  []Section
	match func(lower, raw string, tmpl *Template) bool
	next  Section
}

// transitions are evaluated in order and the first match wins
var transitions = []transition{
	{
		from: []Section{SectionHeader},
		match: func(lower, raw string, tmpl *Template) bool {
			return tmpl.IncludesDate && containsAny(lower, monthNames) && containsDayNumber(raw)
		},
		next: SectionDate,
	},
	{
		from: []Section{SectionHeader, SectionDate},
		match: func(lower, _ string, _ *Template) bool {
			return containsAny(lower, salutationMarkers)
		},
		next: SectionSalutation,
	},
	{
		from: []Section{SectionHeader, SectionDate, SectionSalutation},
		match: func(lower, _ string, _ *Template) bool {
			return containsAny(lower, closingMarkers)
		},
		next: SectionSignature,
	},
	{
		from: []Section{SectionHeader, SectionDate, SectionSalutation},
		match: func(_, raw string, _ *Template) bool {
			return utf8.RuneCountInString(raw) > minBodyLineLength
		},
		next: SectionBody,
	},
}

// Advance returns the section after reading line while in section current.
// line must already be trimmed and non-empty. If no rule applies the section
// is unchanged, which is how body and signature persist.
//
// Matching is plain substring matching, so "may" inside "mayor" counts as a
// month and a short body line directly after the header stays in the header.
func Advance(current Section, line string, tmpl Template) Section {
	lower := strings.ToLower(line)
	for _, t := range transitions {
		if !sectionIn(current, t.from) {
			continue
		}
		if t.match(lower, line, &tmpl) {
			return t.next
		}
	}
	return current
}

func sectionIn(s Section, set []Section) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// containsDayNumber reports whether any of "1".."31" occurs in s.
// Every such number contains a non-zero digit and every non-zero digit is one
// of them, so this reduces to a digit check.
func containsDayNumber(s string) bool {
	return strings.ContainsAny(s, "123456789")
}
