// Package testutil provides shared test fixtures.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// PDFSpec describes a fixture document for PDFBytes.
type PDFSpec struct {
	// PageTexts holds one entry per page. An empty string produces a page
	// with an empty content stream (no extractable text).
	PageTexts []string

	// Width and Height set the media box. Zero values default to US
	// Letter at PDF units (612x792).
	Width  float64
	Height float64

	// Title and Author populate the document Info dictionary when set.
	Title  string
	Author string
}

// PDFBytes assembles a minimal but structurally valid PDF: header, object
// table with computed byte offsets, xref and trailer. The output parses
// with both pdfcpu and rsc.io/pdf.
func PDFBytes(spec PDFSpec) []byte {
	if len(spec.PageTexts) == 0 {
		spec.PageTexts = []string{""}
	}
	if spec.Width == 0 {
		spec.Width = 612
	}
	if spec.Height == 0 {
		spec.Height = 792
	}

	n := len(spec.PageTexts)

	// Object layout: 1 catalog, 2 page tree, then (page, content) pairs,
	// one shared font, optional info dict.
	fontObj := 3 + 2*n
	infoObj := 0
	if spec.Title != "" || spec.Author != "" {
		infoObj = fontObj + 1
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make(map[int]int)
	addObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	addObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	addObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), n))

	for i, text := range spec.PageTexts {
		pageObj := 3 + 2*i
		contentObj := pageObj + 1
		addObj(pageObj, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] "+
				"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			spec.Width, spec.Height, fontObj, contentObj))

		var stream string
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapeText(text))
		}
		addObj(contentObj, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream",
			len(stream), stream))
	}

	// A /Widths array is required for rsc.io/pdf to compute glyph
	// advances; without it every glyph lands at the same X and word
	// spacing cannot be reconstructed.
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	addObj(fontObj, fmt.Sprintf(
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica "+
			"/FirstChar 32 /LastChar 126 /Widths [%s] >>", widths))

	if infoObj != 0 {
		var sb strings.Builder
		sb.WriteString("<<")
		if spec.Title != "" {
			fmt.Fprintf(&sb, " /Title (%s)", escapeText(spec.Title))
		}
		if spec.Author != "" {
			fmt.Fprintf(&sb, " /Author (%s)", escapeText(spec.Author))
		}
		sb.WriteString(" >>")
		addObj(infoObj, sb.String())
	}

	maxObj := fontObj
	if infoObj != 0 {
		maxObj = infoObj
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxObj+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObj; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R", maxObj+1)
	if infoObj != 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoObj)
	}
	buf.WriteString(" >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes()
}

// WritePDF writes a fixture PDF to path.
func WritePDF(t *testing.T, path string, spec PDFSpec) {
	t.Helper()
	if err := os.WriteFile(path, PDFBytes(spec), 0o644); err != nil {
		t.Fatalf("failed to write fixture PDF %s: %v", path, err)
	}
}

// WriteCorruptPDF writes a file with a .pdf name that no PDF reader can open.
func WriteCorruptPDF(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("this is not a pdf document\n"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt fixture %s: %v", path, err)
	}
}

// escapeText escapes characters with special meaning inside PDF string
// literals.
func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
