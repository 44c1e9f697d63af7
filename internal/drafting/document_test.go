package drafting

import (
	"strings"
	"testing"
)

const noticeLetter = "NOTICE TO VACATE\n\nJanuary 5, 2024\n\nDear Mr. Smith,\n\n" +
	"This letter serves as formal notice regarding your lease violation and requires immediate action.\n\n" +
	"Sincerely,\nJohn Doe"

func TestBuildNoticeLetter(t *testing.T) {
	tmpl := DefaultRegistry().Resolve("Legal Notice")
	if tmpl.Name != TemplateLegalNoticeResponse {
		t.Fatalf("template = %q, want %q", tmpl.Name, TemplateLegalNoticeResponse)
	}

	doc := Build(noticeLetter, tmpl)

	// Closing words are only recognised before the body starts, so the
	// closing and the name that follow the body line stay in the body.
	want := []Section{
		SectionHeader, "", SectionDate, "", SectionSalutation, "",
		SectionBody, "", SectionBody, SectionBody,
	}
	got := doc.Sections()
	if len(got) != len(want) {
		t.Fatalf("paragraphs = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d section = %q, want %q", i, got[i], want[i])
		}
	}

	title := doc.Paragraphs[0]
	if title.Text() != "NOTICE TO VACATE" {
		t.Errorf("title text = %q", title.Text())
	}
	if title.Align != AlignCenter {
		t.Errorf("title align = %q, want center", title.Align)
	}
	if !title.Runs[0].Bold {
		t.Error("title is not bold")
	}
	if title.Runs[0].Font != "Times New Roman" || title.Runs[0].Size != 12 {
		t.Errorf("title font = %s %v", title.Runs[0].Font, title.Runs[0].Size)
	}
}

func TestBuildClosingAfterSalutation(t *testing.T) {
	tmpl := DefaultRegistry().Resolve("Contracts & Agreements")

	doc := Build("Dear Ms. Rao,\nBest regards,\nJane Roe", tmpl)

	want := []Section{SectionSalutation, SectionSignature, SectionSignature}
	got := doc.Sections()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d section = %q, want %q", i, got[i], want[i])
		}
	}

	sig := doc.Paragraphs[2]
	if sig.Runs[0].Font != tmpl.Signature.Font || sig.Runs[0].Size != tmpl.Signature.Size {
		t.Errorf("signature run = %+v, want signature style", sig.Runs[0])
	}
	if sig.Runs[0].Bold {
		t.Error("signature should not be bold")
	}
}

func TestBuildSalutationStyledAsBody(t *testing.T) {
	tmpl := DefaultRegistry().Resolve("Contracts & Agreements")

	doc := Build("To whom it may concern:", tmpl)

	p := doc.Paragraphs[0]
	if p.Section != SectionSalutation {
		t.Fatalf("section = %q, want salutation", p.Section)
	}
	if p.Align != AlignLeft || p.Runs[0].Font != tmpl.Body.Font || p.Runs[0].Size != tmpl.Body.Size {
		t.Errorf("salutation paragraph = %+v, want body style", p)
	}
}

func TestBuildShortLineStaysHeader(t *testing.T) {
	doc := Build("short", DefaultRegistry().Resolve("default"))

	if len(doc.Paragraphs) != 1 {
		t.Fatalf("paragraphs = %d, want 1", len(doc.Paragraphs))
	}
	if doc.Paragraphs[0].Section != SectionHeader {
		t.Errorf("section = %q, want header", doc.Paragraphs[0].Section)
	}
}

func TestBuildEmptyContent(t *testing.T) {
	tmpl := DefaultRegistry().Resolve("default")

	doc := Build("", tmpl)

	if len(doc.Paragraphs) != 0 {
		t.Errorf("paragraphs = %d, want 0", len(doc.Paragraphs))
	}
	if doc.Margins != tmpl.Margins {
		t.Errorf("margins = %+v, want %+v", doc.Margins, tmpl.Margins)
	}
}

func TestBuildParagraphPerLine(t *testing.T) {
	tmpl := DefaultRegistry().Resolve("Legal Memo")
	inputs := []string{
		"\n",
		"\nleading blank",
		"trailing blank\n",
		"   \n\t\n",
		noticeLetter,
		"one\r\ntwo\r\n",
		"MEMORANDUM\nTo: Board\nRe: policy\n\nThe committee reviewed the policy in detail.\nRegards",
	}

	for _, in := range inputs {
		doc := Build(in, tmpl)
		if want := len(strings.Split(in, "\n")); len(doc.Paragraphs) != want {
			t.Errorf("Build(%q) paragraphs = %d, want %d", in, len(doc.Paragraphs), want)
		}
	}
}

func TestBuildBlankLinesDoNotAdvance(t *testing.T) {
	doc := Build("   TITLE   \n\n\nshort", DefaultRegistry().Resolve("default"))

	if got := doc.Paragraphs[0].Text(); got != "TITLE" {
		t.Errorf("text = %q, want trimmed TITLE", got)
	}
	for _, i := range []int{1, 2} {
		if !doc.Paragraphs[i].Blank() || doc.Paragraphs[i].Section != "" {
			t.Errorf("paragraph %d = %+v, want blank", i, doc.Paragraphs[i])
		}
	}
	if doc.Paragraphs[3].Section != SectionHeader {
		t.Errorf("section after blanks = %q, want header", doc.Paragraphs[3].Section)
	}
}

func TestBuildMarginsStable(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range r.Names() {
		tmpl, _ := r.Lookup(name)
		a := Build(noticeLetter, tmpl)
		b := Build("other text", tmpl)
		if a.Margins != b.Margins || a.Margins != tmpl.Margins {
			t.Errorf("%s: margins differ: %+v vs %+v", name, a.Margins, b.Margins)
		}
	}
}

func TestBuildHeaderAlignmentFollowsTemplate(t *testing.T) {
	letter := DefaultRegistry().Resolve("default")

	doc := Build("ACME LLP", letter)

	p := doc.Paragraphs[0]
	if p.Align != AlignLeft {
		t.Errorf("align = %q, want left for %s", p.Align, letter.Name)
	}
	if p.Runs[0].Font != "Calibri" || !p.Runs[0].Bold {
		t.Errorf("run = %+v, want bold Calibri", p.Runs[0])
	}
}
