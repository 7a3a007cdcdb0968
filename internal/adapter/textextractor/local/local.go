// Package local extracts text from plain-text and PDF resumes without any
// external service. DOCX and other office formats need a Tika server.
package local

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/pkg/textx"
)

// Extractor implements domain.TextExtractor for .txt and .pdf files.
type Extractor struct{}

// New returns a local extractor.
func New() *Extractor { return &Extractor{} }

// ExtractPath reads the file at path and returns normalized plain text.
// The file's actual content is sniffed, not trusted from its extension.
func (e *Extractor) ExtractPath(_ context.Context, fileName, path string) (string, error) {
	clean := filepath.Clean(path)
	b, err := os.ReadFile(clean)
	if err != nil {
		return "", fmt.Errorf("op=local.ExtractPath: %w: %v", domain.ErrUnreadable, err)
	}

	mt := mimetype.Detect(b)
	switch {
	case mt.Is("application/pdf"):
		text, err := extractPDF(clean)
		if err != nil {
			observability.ExtractionsTotal.WithLabelValues("local", "error").Inc()
			return "", fmt.Errorf("op=local.ExtractPath: %w: %v", domain.ErrUnreadable, err)
		}
		observability.ExtractionsTotal.WithLabelValues("local", "ok").Inc()
		return textx.NormalizeDocument(text), nil
	case mt.Is("text/plain") || strings.HasPrefix(mt.String(), "text/"):
		observability.ExtractionsTotal.WithLabelValues("local", "ok").Inc()
		return textx.NormalizeDocument(string(b)), nil
	default:
		observability.ExtractionsTotal.WithLabelValues("local", "unsupported").Inc()
		return "", fmt.Errorf("op=local.ExtractPath: %w: unsupported type %s for %s", domain.ErrUnreadable, mt.String(), fileName)
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("no extractable text")
	}
	return buf.String(), nil
}
