// Package textextractor routes resume files to the extractor that can
// actually read them.
package textextractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// Dispatcher picks an extractor by file extension: txt and pdf are handled
// locally, everything else goes to Tika when one is configured.
type Dispatcher struct {
	local domain.TextExtractor
	tika  domain.TextExtractor
}

// NewDispatcher builds a dispatcher. tika may be nil, in which case office
// formats fall back to the local extractor and fail as unreadable.
func NewDispatcher(local, tika domain.TextExtractor) *Dispatcher {
	return &Dispatcher{local: local, tika: tika}
}

// ExtractPath implements domain.TextExtractor.
func (d *Dispatcher) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".pdf":
		return d.local.ExtractPath(ctx, fileName, path)
	default:
		if d.tika != nil {
			return d.tika.ExtractPath(ctx, fileName, path)
		}
		return d.local.ExtractPath(ctx, fileName, path)
	}
}
