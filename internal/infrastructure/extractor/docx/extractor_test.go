package docx

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/infrastructure/docgen"
)

func TestExtractRejectsCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	_, err := NewExtractor(dir).Extract(context.Background(), domain.MimeTypeDOCX, []byte("definitely not a zip container"))
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
	inputErr, ok := domain.AsInputError(err)
	if !ok || inputErr.Message != msgExtractionFailed {
		t.Fatalf("expected Word specific message, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("staged file was not removed")
	}
}

func TestExtractEmptyInput(t *testing.T) {
	text, err := NewExtractor(t.TempDir()).Extract(context.Background(), domain.MimeTypeMSWord, nil)
	if err != nil || text != "" {
		t.Fatalf("Extract() = %q, %v", text, err)
	}
}

func TestExtractReadsRenderedDocument(t *testing.T) {
	data, err := docgen.NewDOCXRenderer().Render(domain.Template{
		ID:    "lease",
		Title: "Lease",
		Blocks: []domain.TemplateBlock{
			{Kind: domain.BlockTitle, Runs: []domain.TextRun{{Text: "RESIDENTIAL LEASE"}}},
			{Kind: domain.BlockParagraph, Runs: []domain.TextRun{
				{Text: "Landlord: ", Bold: true},
				{Text: `Smith & Sons, the "Landlord"`},
			}},
		},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, mimeType := range []string{domain.MimeTypeDOCX, domain.MimeTypeMSWord} {
		t.Run(mimeType, func(t *testing.T) {
			text, err := NewExtractor(t.TempDir()).Extract(context.Background(), mimeType, data)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if !strings.Contains(text, "RESIDENTIAL LEASE") {
				t.Fatalf("expected title text, got %q", text)
			}
			if !strings.Contains(text, `Smith & Sons, the "Landlord"`) {
				t.Fatalf("expected unescaped body text, got %q", text)
			}
		})
	}
}
