package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), domain.MimeTypePDF, []byte("this is not a pdf document"))
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
	inputErr, ok := domain.AsInputError(err)
	if !ok || inputErr.Message != msgExtractionFailed {
		t.Fatalf("expected PDF specific message, got %v", err)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	text, err := NewExtractor().Extract(context.Background(), domain.MimeTypePDF, nil)
	if err != nil || text != "" {
		t.Fatalf("Extract() = %q, %v", text, err)
	}
}

// onePagePDF builds a single-page document whose content stream shows text.
func onePagePDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractReadsTextLayer(t *testing.T) {
	const sentence = "This lease agreement is made between Landlord and Tenant"

	text, err := NewExtractor().Extract(context.Background(), domain.MimeTypePDF, onePagePDF(sentence))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, sentence) {
		t.Fatalf("expected page text, got %q", text)
	}
}
