package documents

import (
	"fmt"
	"strings"

	"pdfqa/internal/util"

	"github.com/ledongthuc/pdf"
)

// Extractor turns a PDF file into plain text.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// PDFExtractor extracts text page by page with ledongthuc/pdf. Pages are trimmed, empty pages
// dropped, and the rest joined with a blank line.
type PDFExtractor struct{}

func NewPDFExtractor() PDFExtractor {
	return PDFExtractor{}
}

func (PDFExtractor) ExtractText(path string) (text string, err error) {
	if path == "" {
		return "", util.ErrEmptyPath
	}
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parse pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			pages = append(pages, pageText)
		}
	}

	text = util.SanitizeText(strings.Join(pages, "\n\n"))
	if text == "" {
		return "", util.ErrNoExtractableText
	}
	return text, nil
}
