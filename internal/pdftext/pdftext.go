// Package pdftext reads the text layer and structure of an invoice PDF.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"invoicecheck/internal/domain"
)

// Document is the part of a PDF the extractors need.
type Document struct {
	// Text is the first page's text, one line per text row, top to bottom.
	Text       string
	PageCount  int
	ImageCount int
	// FirstPageBlank is true when the first page has neither text nor images.
	FirstPageBlank bool
}

// Read parses data as a PDF. Unreadable input is domain.ErrInvalidPDF.
func Read(data []byte) (doc *Document, err error) {
	// The reader panics on some malformed object streams.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("pdftext.Read: %w: %v", domain.ErrInvalidPDF, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdftext.Read: %w: %v", domain.ErrInvalidPDF, err)
	}

	doc = &Document{PageCount: r.NumPage()}
	if doc.PageCount == 0 {
		return nil, fmt.Errorf("pdftext.Read: %w: no pages", domain.ErrInvalidPDF)
	}

	for i := 1; i <= doc.PageCount; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		images := countImages(page)
		doc.ImageCount += images

		if i != 1 {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			return nil, fmt.Errorf("pdftext.Read: %w: %v", domain.ErrInvalidPDF, err)
		}
		doc.Text = text
		doc.FirstPageBlank = strings.TrimSpace(text) == "" && images == 0
	}
	return doc, nil
}

// CheckSinglePage enforces the one-page, non-blank invoice layout.
func (d *Document) CheckSinglePage() error {
	if d.PageCount != 1 {
		return fmt.Errorf("%w: the PDF has %d pages", domain.ErrMultiPagePDF, d.PageCount)
	}
	if d.FirstPageBlank {
		return domain.ErrBlankPDF
	}
	return nil
}

// pageText joins text rows top to bottom. Content that only positions text
// with Td collapses into a single row, so that case falls back to the
// operator-order plain text.
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	if len(rows) > 1 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, t := range row.Content {
				if s := strings.TrimSpace(t.S); s != "" {
					words = append(words, s)
				}
			}
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		}
		return strings.Join(lines, "\n"), nil
	}

	plain, err := page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(plain), nil
}

func countImages(page pdf.Page) int {
	xobjects := page.Resources().Key("XObject")
	n := 0
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			n++
		}
	}
	return n
}
