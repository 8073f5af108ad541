package usecase

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

const (
	msgUnsupportedType = "Unsupported file type. Please upload PDF, Word, or text files."
	msgFileTooLarge    = "File size must be less than 10MB."

	msgContractInsufficient = "Contract appears to be empty or contains insufficient text for analysis."
	msgOperatorInsufficient = "Operator contract appears to be empty or contains insufficient text for analysis."
	msgBookingInsufficient  = "ACS booking form appears to be empty or contains insufficient text for analysis."
)

func validateUpload(doc domain.UploadedDocument) error {
	if !domain.IsAllowedMimeType(doc.MimeType) {
		return domain.NewInputError(domain.ErrUnsupportedType, msgUnsupportedType, nil)
	}
	if doc.Size > domain.MaxUploadBytes || int64(len(doc.Data)) > domain.MaxUploadBytes {
		return domain.NewInputError(domain.ErrFileTooLarge, msgFileTooLarge, nil)
	}
	return nil
}

func extractAnalyzableText(
	ctx context.Context,
	extractor ports.TextExtractor,
	doc domain.UploadedDocument,
	insufficientMessage string,
) (string, error) {
	text, err := extractor.Extract(ctx, domain.NormalizeMimeType(doc.MimeType), doc.Data)
	if err != nil {
		if _, ok := domain.AsInputError(err); ok {
			return "", err
		}
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract text", err)
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < domain.MinTextLength {
		return "", domain.NewInputError(domain.ErrInsufficientText, insufficientMessage, nil)
	}
	return text, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		return "contract.bin"
	}
	return base
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
