// Package docx reads the paragraph text of a Word document.
//
// A .docx file is a zip container; the body lives in word/document.xml as a
// sequence of w:p (paragraph) elements whose text is split across w:t runs.
// Only that part of the format is read.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// WordNamespace is the WordprocessingML main namespace.
const WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// DocumentPart is the zip entry holding the document body.
const DocumentPart = "word/document.xml"

// ErrNotDocx is returned when the container has no document body.
var ErrNotDocx = errors.New("not a docx document")

// ReadLines opens a .docx file and returns its normalized paragraph lines.
func ReadLines(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer zr.Close()

	return linesFromZip(&zr.Reader)
}

// Lines returns the normalized paragraph lines of a .docx held in r.
func Lines(r io.ReaderAt, size int64) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read docx container: %w", err)
	}
	return linesFromZip(zr)
}

func linesFromZip(zr *zip.Reader) ([]string, error) {
	for _, f := range zr.File {
		if f.Name != DocumentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", DocumentPart, err)
		}
		defer rc.Close()
		return Paragraphs(rc)
	}
	return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, DocumentPart)
}

// Paragraphs streams a document.xml body and returns one normalized line per
// non-empty paragraph, in document order. Paragraphs nested inside another
// paragraph (text boxes) are emitted on their own, before their parent.
func Paragraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		lines  []string
		stack  []*strings.Builder
		inText int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", DocumentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != WordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				stack = append(stack, &strings.Builder{})
			case "t":
				inText++
			case "tab", "br", "cr":
				if len(stack) > 0 {
					stack[len(stack)-1].WriteByte(' ')
				}
			}
		case xml.EndElement:
			if t.Name.Space != WordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(stack) == 0 {
					continue
				}
				sb := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if line := NormalizeLine(sb.String()); line != "" {
					lines = append(lines, line)
				}
			case "t":
				if inText > 0 {
					inText--
				}
			}
		case xml.CharData:
			if inText > 0 && len(stack) > 0 {
				stack[len(stack)-1].Write(t)
			}
		}
	}

	return lines, nil
}

// NormalizeLine turns non-breaking spaces into spaces, collapses whitespace
// runs to a single space and trims the ends.
func NormalizeLine(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
