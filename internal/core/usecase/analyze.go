package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

type AnalyzeContractUseCase struct {
	extractor ports.TextExtractor
	model     ports.ContractModel
	recorder  ports.AnalysisRecorder
}

// NewAnalyzeContractUseCase wires the single-contract pipeline. recorder may be
// nil when persistence is not configured.
func NewAnalyzeContractUseCase(
	extractor ports.TextExtractor,
	model ports.ContractModel,
	recorder ports.AnalysisRecorder,
) *AnalyzeContractUseCase {
	return &AnalyzeContractUseCase{
		extractor: extractor,
		model:     model,
		recorder:  recorder,
	}
}

func (uc *AnalyzeContractUseCase) Analyze(ctx context.Context, doc domain.UploadedDocument) (*domain.AnalysisResult, error) {
	if err := validateUpload(doc); err != nil {
		return nil, err
	}

	text, err := extractAnalyzableText(ctx, uc.extractor, doc, msgContractInsufficient)
	if err != nil {
		return nil, err
	}

	result, err := uc.model.AnalyzeContract(ctx, text, doc.Filename)
	if err != nil {
		return nil, fmt.Errorf("analyze contract: %w", err)
	}

	uc.record(ctx, doc, text, *result)
	return result, nil
}

// record runs after the result is final. The recorder gets a copy and a context
// detached from the request so a disconnecting client cannot abort the write.
func (uc *AnalyzeContractUseCase) record(ctx context.Context, doc domain.UploadedDocument, text string, result domain.AnalysisResult) {
	if uc.recorder == nil {
		slog.DebugContext(ctx, "persistence_skipped", "reason", "recorder not configured")
		return
	}
	uc.recorder.Record(context.WithoutCancel(ctx), domain.AnalysisRecord{
		Document: doc,
		Text:     text,
		Result:   result,
	})
}
