package docx

import (
	"context"
	"fmt"
	"html"
	"os"

	"github.com/lu4p/cat"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

const msgExtractionFailed = "Failed to extract text from Word document. Please try converting to PDF or text format."

// Extractor serves both Word MIME types. cat picks its reader from the file
// extension, so uploads are staged as .docx; legacy binary .doc files fail there.
type Extractor struct {
	tempDir string
}

func NewExtractor(tempDir string) *Extractor {
	return &Extractor{tempDir: tempDir}
}

func (e *Extractor) Extract(ctx context.Context, _ string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := e.stage(data)
	if err != nil {
		return "", fmt.Errorf("stage word document: %w", err)
	}
	defer os.Remove(path)

	text, err := cat.File(path)
	if err != nil {
		return "", domain.NewInputError(domain.ErrExtractionFailed, msgExtractionFailed, err)
	}
	// cat returns run text as it appears in the XML, entities included.
	return html.UnescapeString(text), nil
}

func (e *Extractor) stage(data []byte) (string, error) {
	f, err := os.CreateTemp(e.tempDir, "contract-*.docx")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
