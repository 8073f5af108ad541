package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

const msgExtractionFailed = "Failed to extract text from PDF. Please ensure the PDF contains selectable text."

// Extractor reads the text layer of a PDF page by page. Scanned documents without
// a text layer yield empty text, which the caller rejects as insufficient.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, _ string, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = failed(fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	if len(data) == 0 {
		return "", nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", failed(err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			slog.DebugContext(ctx, "pdf_page_skipped", "page", i, "error", err)
			continue
		}
		sb.WriteString(content)
		sb.WriteByte('\n')
	}

	if pages > 0 && sb.Len() == 0 {
		slog.DebugContext(ctx, "pdf_without_text_layer", "pages", pages)
	}
	return sb.String(), nil
}

func failed(cause error) error {
	if cause == nil {
		cause = errors.New("unknown pdf error")
	}
	return domain.NewInputError(domain.ErrExtractionFailed, msgExtractionFailed, cause)
}
