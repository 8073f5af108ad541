package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

const (
	defaultExportLimit = 100
	maxExportLimit     = 500

	spreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AnalysisHistoryUseCase struct {
	repo   ports.AnalysisRepository
	report ports.AnalysisReportWriter
	now    func() time.Time
}

func NewAnalysisHistoryUseCase(repo ports.AnalysisRepository, report ports.AnalysisReportWriter) *AnalysisHistoryUseCase {
	return &AnalysisHistoryUseCase{
		repo:   repo,
		report: report,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (uc *AnalysisHistoryUseCase) GetByID(ctx context.Context, id string) (*domain.PersistedAnalysis, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get analysis", errors.New("analysis id is required"))
	}
	analysis, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return analysis, nil
}

func (uc *AnalysisHistoryUseCase) Export(ctx context.Context, limit int) (*domain.RenderedDocument, error) {
	limit = clampExportLimit(limit)

	analyses, err := uc.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent analyses: %w", err)
	}

	var buf bytes.Buffer
	if err := uc.report.WriteAnalyses(&buf, analyses); err != nil {
		return nil, fmt.Errorf("write analyses report: %w", err)
	}
	return &domain.RenderedDocument{
		Filename:    fmt.Sprintf("contract-analyses-%s.xlsx", uc.now().Format("20060102")),
		ContentType: spreadsheetContentType,
		Data:        buf.Bytes(),
	}, nil
}

func clampExportLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultExportLimit
	case limit > maxExportLimit:
		return maxExportLimit
	default:
		return limit
	}
}
