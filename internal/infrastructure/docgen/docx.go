// Package docgen renders contract templates as Word (.docx) documents.
package docgen

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

// titleSize is in half-points.
const titleSize = "32"

// DOCXRenderer turns template blocks into a single-section Word document.
type DOCXRenderer struct{}

func NewDOCXRenderer() *DOCXRenderer {
	return &DOCXRenderer{}
}

func (r *DOCXRenderer) Render(tpl domain.Template) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	for i, block := range tpl.Blocks {
		switch block.Kind {
		case domain.BlockBlank:
			doc.AddParagraph()
		case domain.BlockTitle:
			para := doc.AddParagraph().Style("Title").Justification("center")
			for _, run := range block.Runs {
				addRun(para, run).Bold().Size(titleSize)
			}
		case domain.BlockParagraph:
			para := doc.AddParagraph()
			for _, run := range block.Runs {
				out := addRun(para, run)
				if run.Bold {
					out.Bold()
				}
			}
		default:
			return nil, fmt.Errorf("render template %s: block %d: unknown kind %q", tpl.ID, i, block.Kind)
		}
	}

	// Section properties close the body.
	doc.WithA4Page()

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render template %s: %w", tpl.ID, err)
	}
	return buf.Bytes(), nil
}

// addRun keeps leading and trailing spaces, which label runs like "Name: " rely on.
func addRun(para *docx.Paragraph, run domain.TextRun) *docx.Run {
	out := para.AddText(run.Text)
	for _, child := range out.Children {
		if text, ok := child.(*docx.Text); ok {
			text.XMLSpace = "preserve"
		}
	}
	return out
}
