// Package xlsx exports persisted analyses as a spreadsheet.
package xlsx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

const SheetName = "Analyses"

var header = []any{
	"ID",
	"Created At",
	"File Name",
	"File Type",
	"File Size (bytes)",
	"Overall Risk",
	"Summary",
	"Key Clauses",
	"Recommendations",
}

var columnWidths = []float64{38, 22, 32, 28, 16, 14, 80, 12, 80}

type ReportWriter struct{}

func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

func (r *ReportWriter) WriteAnalyses(w io.Writer, analyses []domain.PersistedAnalysis) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, analysis := range analyses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			analysis.ID,
			analysis.CreatedAt.UTC().Format(time.RFC3339),
			analysis.FileName,
			analysis.FileType,
			analysis.FileSize,
			string(analysis.OverallRisk),
			analysis.Summary,
			len(analysis.KeyClauses),
			strings.Join(analysis.Recommendations, "\n"),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
