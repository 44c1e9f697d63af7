package drafting

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
)

// DocxContentType is the MIME type of a .docx file
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	twipsPerInch = 1440
	// US Letter, the default page of a new word-processing document
	pageWidthTwips  = 12240
	pageHeightTwips = 15840
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// WriteDocx serializes doc as an Office Open XML word-processing package
func WriteDocx(w io.Writer, doc *Document) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/document.xml", documentXML(doc)},
	}

	for _, part := range parts {
		fw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", part.name, err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish docx archive: %w", err)
	}
	return nil
}

// SaveDocx writes doc to path. The file is closed before returning and is
// removed again if anything fails.
func SaveDocx(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return finishFile(f, doc)
}

// SaveDocxTemp writes doc to a new uniquely named file in dir and returns its path
func SaveDocxTemp(dir string, doc *Document) (string, error) {
	f, err := os.CreateTemp(dir, "draft-*.docx")
	if err != nil {
		return "", fmt.Errorf("failed to create draft file: %w", err)
	}
	if err := finishFile(f, doc); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func finishFile(f *os.File, doc *Document) error {
	if err := WriteDocx(f, doc); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to close %s: %w", f.Name(), err)
	}
	return nil
}

func documentXML(doc *Document) []byte {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`)

	for _, p := range doc.Paragraphs {
		writeParagraph(&buf, p)
	}

	m := doc.Margins
	fmt.Fprintf(&buf, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, pageWidthTwips, pageHeightTwips)
	fmt.Fprintf(&buf, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`,
		InchesToTwips(m.Top), InchesToTwips(m.Right), InchesToTwips(m.Bottom), InchesToTwips(m.Left))
	buf.WriteString(`</w:sectPr></w:body></w:document>`)

	return buf.Bytes()
}

func writeParagraph(buf *bytes.Buffer, p Paragraph) {
	if p.Blank() {
		buf.WriteString(`<w:p/>`)
		return
	}

	align := "left"
	if p.Align == AlignCenter {
		align = "center"
	}
	fmt.Fprintf(buf, `<w:p><w:pPr><w:jc w:val="%s"/></w:pPr>`, align)

	for _, r := range p.Runs {
		buf.WriteString(`<w:r><w:rPr>`)
		if r.Font != "" {
			font := escape(r.Font)
			fmt.Fprintf(buf, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, font, font, font)
		}
		if r.Bold {
			buf.WriteString(`<w:b/>`)
		}
		if r.Size > 0 {
			hp := PointsToHalfPoints(r.Size)
			fmt.Fprintf(buf, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, hp, hp)
		}
		buf.WriteString(`</w:rPr><w:t xml:space="preserve">`)
		buf.WriteString(escape(r.Text))
		buf.WriteString(`</w:t></w:r>`)
	}

	buf.WriteString(`</w:p>`)
}

// InchesToTwips converts a length in inches to twentieths of a point
func InchesToTwips(in float64) int {
	return int(math.Round(in * twipsPerInch))
}

// PointsToHalfPoints converts a font size to the half-point unit used by w:sz
func PointsToHalfPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
