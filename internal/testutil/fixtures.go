// Package testutil holds fixtures shared by package tests: small .docx and
// .pdf files built on the fly, and a quiet logger.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DocxBytes builds a minimal .docx whose body has one paragraph per entry.
// An entry may contain "\t" to split it into several w:t runs, which is how
// Word stores text with mixed formatting.
func DocxBytes(t testing.TB, paragraphs []string) []byte {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p>")
		for _, run := range strings.Split(p, "\t") {
			body.WriteString(`<w:r><w:t xml:space="preserve">`)
			if err := xml.EscapeText(&body, []byte(run)); err != nil {
				t.Fatalf("failed to escape paragraph text: %v", err)
			}
			body.WriteString("</w:t></w:r>")
		}
		body.WriteString("</w:p>")
	}
	body.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	if err != nil {
		t.Fatalf("failed to create content types entry: %v", err)
	}
	if _, err := w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`)); err != nil {
		t.Fatalf("failed to write content types: %v", err)
	}
	w, err = zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create document entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("failed to write document body: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close docx zip: %v", err)
	}
	return buf.Bytes()
}

// WriteDocx writes a minimal .docx into dir and returns its path.
func WriteDocx(t testing.TB, dir string, paragraphs []string) string {
	t.Helper()
	path := filepath.Join(dir, "rulebook.docx")
	if err := os.WriteFile(path, DocxBytes(t, paragraphs), 0o644); err != nil {
		t.Fatalf("failed to write docx: %v", err)
	}
	return path
}

// PDFBytes builds a small but well-formed PDF with one page per entry; each
// page shows its lines top to bottom in Helvetica (WinAnsi encoded).
func PDFBytes(t testing.TB, pages [][]string) []byte {
	t.Helper()

	enc := charmap.Windows1252.NewEncoder()
	n := len(pages)
	// Objects: 1 catalog, 2 pages, 3 font, then page/content pairs.
	var objects []string
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, lines := range pages {
		var content bytes.Buffer
		content.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
		for j, line := range lines {
			encoded, err := enc.Bytes([]byte(line))
			if err != nil {
				t.Fatalf("failed to encode %q: %v", line, err)
			}
			if j > 0 {
				content.WriteString("0 -14 Td\n")
			}
			content.WriteByte('(')
			content.Write(escapePDFString(encoded))
			content.WriteString(") Tj\n")
		}
		content.WriteString("ET")

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// WritePDF writes a small PDF into dir and returns its path.
func WritePDF(t testing.TB, dir string, pages [][]string) string {
	t.Helper()
	path := filepath.Join(dir, "spells.pdf")
	if err := os.WriteFile(path, PDFBytes(t, pages), 0o644); err != nil {
		t.Fatalf("failed to write pdf: %v", err)
	}
	return path
}

func escapePDFString(b []byte) []byte {
	var out bytes.Buffer
	for _, c := range b {
		switch c {
		case '(', ')', '\\':
			out.WriteByte('\\')
		}
		out.WriteByte(c)
	}
	return out.Bytes()
}
