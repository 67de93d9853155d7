// Package pdftext pulls plain text out of PDF page content streams.
//
// pdfcpu reads, validates and decodes the document; this package interprets
// the text-showing operators of each page's content stream. It is a
// best-effort reader meant for name lists: glyphs of fonts with custom
// encodings (Identity-H CID fonts, embedded subsets) come out garbled.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ReadPages returns the text of every page of the PDF at path, in page order.
func ReadPages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}

	pages := make([]string, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("failed to extract content of page %d: %w", pageNr, err)
		}
		if r == nil {
			pages = append(pages, "")
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read content of page %d: %w", pageNr, err)
		}
		pages = append(pages, ContentText(content))
	}
	return pages, nil
}

// ReadText returns the text of all pages joined by newlines.
func ReadText(path string) (string, error) {
	pages, err := ReadPages(path)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}
