package plaintext

import (
	"bytes"
	"context"
	"errors"
	"unicode/utf8"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

const msgInvalidEncoding = "Failed to read text file. Please ensure it is saved as UTF-8 text."

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	raw := bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(raw) {
		return "", domain.NewInputError(domain.ErrExtractionFailed, msgInvalidEncoding, errors.New("text is not valid utf-8"))
	}
	return string(raw), nil
}
