package extractor

import (
	"context"
	"fmt"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
	"github.com/contractchecked/contract-checked/internal/infrastructure/extractor/docx"
	"github.com/contractchecked/contract-checked/internal/infrastructure/extractor/pdf"
	"github.com/contractchecked/contract-checked/internal/infrastructure/extractor/plaintext"
)

const msgUnsupportedType = "Unsupported file type. Please upload a PDF, Word document, or text file."

// Registry dispatches extraction by media type.
type Registry struct {
	byType map[string]ports.TextExtractor
}

func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]ports.TextExtractor)}
}

// NewDefaultRegistry registers the extractors for every allowed upload type.
func NewDefaultRegistry(tempDir string) *Registry {
	words := docx.NewExtractor(tempDir)
	return NewRegistry().
		Register(domain.MimeTypePlainText, plaintext.NewExtractor()).
		Register(domain.MimeTypePDF, pdf.NewExtractor()).
		Register(domain.MimeTypeDOCX, words).
		Register(domain.MimeTypeMSWord, words)
}

func (r *Registry) Register(mimeType string, extractor ports.TextExtractor) *Registry {
	r.byType[domain.NormalizeMimeType(mimeType)] = extractor
	return r
}

func (r *Registry) Extract(ctx context.Context, mimeType string, data []byte) (string, error) {
	normalized := domain.NormalizeMimeType(mimeType)
	extractor, ok := r.byType[normalized]
	if !ok || !domain.IsAllowedMimeType(normalized) {
		return "", domain.NewInputError(domain.ErrUnsupportedType, msgUnsupportedType, fmt.Errorf("mime type %q", mimeType))
	}
	return extractor.Extract(ctx, normalized, data)
}
