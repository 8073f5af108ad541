package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

const (
	stepFile     = "file"
	stepAnalysis = "analysis"
	stepCategory = "category"
	stepLearning = "learning_pattern"
	stepEvent    = "event"

	defaultRecordTimeout = 15 * time.Second
)

type RecordOptions struct {
	Storage ports.ObjectStorage
	Events  ports.EventPublisher
	Metrics ports.PersistenceMetrics
	Timeout time.Duration
}

// RecordAnalysisUseCase is the best-effort write phase after an analysis.
// Every failure is logged and counted, then swallowed.
type RecordAnalysisUseCase struct {
	repo    ports.AnalysisRepository
	storage ports.ObjectStorage
	events  ports.EventPublisher
	metrics ports.PersistenceMetrics
	timeout time.Duration
	now     func() time.Time
}

func NewRecordAnalysisUseCase(repo ports.AnalysisRepository, options RecordOptions) *RecordAnalysisUseCase {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultRecordTimeout
	}
	return &RecordAnalysisUseCase{
		repo:    repo,
		storage: options.Storage,
		events:  options.Events,
		metrics: options.Metrics,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (uc *RecordAnalysisUseCase) Record(ctx context.Context, record domain.AnalysisRecord) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	id := uuid.NewString()
	analysis := &domain.PersistedAnalysis{
		ID:              id,
		FileName:        record.Document.Filename,
		FileSize:        record.Document.Size,
		FileType:        domain.NormalizeMimeType(record.Document.MimeType),
		FilePath:        uc.storeFile(ctx, id, record.Document),
		Summary:         record.Result.Summary,
		KeyClauses:      record.Result.KeyClauses,
		Recommendations: record.Result.Recommendations,
		OverallRisk:     record.Result.OverallRisk,
		CreatedAt:       uc.now(),
	}

	if err := uc.repo.Create(ctx, analysis); err != nil {
		uc.fail(ctx, stepAnalysis, id, err)
		return
	}
	uc.succeed(stepAnalysis)

	uc.linkCategories(ctx, id, record.Result.Categories)
	uc.saveLearningPattern(ctx, id, record)
	uc.publish(ctx, analysis, record.Result)
}

func (uc *RecordAnalysisUseCase) storeFile(ctx context.Context, id string, doc domain.UploadedDocument) string {
	if uc.storage == nil {
		return ""
	}
	key := fmt.Sprintf("contracts/%s_%s", id, sanitizeFilename(doc.Filename))
	contentType := domain.NormalizeMimeType(doc.MimeType)
	if err := uc.storage.Save(ctx, key, contentType, bytes.NewReader(doc.Data), int64(len(doc.Data))); err != nil {
		uc.fail(ctx, stepFile, id, err)
		return ""
	}
	uc.succeed(stepFile)
	return key
}

func (uc *RecordAnalysisUseCase) linkCategories(ctx context.Context, id string, categories []domain.CategoryScore) {
	for _, category := range categories {
		if err := uc.repo.LinkCategory(ctx, id, category); err != nil {
			uc.fail(ctx, stepCategory, id, fmt.Errorf("category %q: %w", category.Name, err))
			continue
		}
		uc.succeed(stepCategory)
	}
}

func (uc *RecordAnalysisUseCase) saveLearningPattern(ctx context.Context, id string, record domain.AnalysisRecord) {
	insights := record.Result.LearningInsights
	if insights == nil {
		return
	}

	clauses := make([]domain.ClauseDigest, 0, len(record.Result.KeyClauses))
	for _, clause := range record.Result.KeyClauses {
		clauses = append(clauses, domain.ClauseDigest{Title: clause.Title, Risk: clause.Risk})
	}

	pattern := &domain.LearningPattern{
		ID:                 uuid.NewString(),
		ContractTextSample: truncateRunes(record.Text, domain.LearningSampleChars),
		Categories:         record.Result.CategoryNames(),
		RiskPatterns:       insights.Patterns,
		CommonClauses:      clauses,
		AnalysisConfidence: insights.Confidence,
		CreatedAt:          uc.now(),
	}
	if err := uc.repo.SaveLearningPattern(ctx, pattern); err != nil {
		uc.fail(ctx, stepLearning, id, err)
		return
	}
	uc.succeed(stepLearning)
}

func (uc *RecordAnalysisUseCase) publish(ctx context.Context, analysis *domain.PersistedAnalysis, result domain.AnalysisResult) {
	if uc.events == nil {
		return
	}
	event := domain.AnalysisCompletedEvent{
		AnalysisID:  analysis.ID,
		FileName:    analysis.FileName,
		FileType:    analysis.FileType,
		OverallRisk: analysis.OverallRisk,
		Categories:  result.CategoryNames(),
		CreatedAt:   analysis.CreatedAt,
	}
	if err := uc.events.PublishAnalysisCompleted(ctx, event); err != nil {
		uc.fail(ctx, stepEvent, analysis.ID, err)
		return
	}
	uc.succeed(stepEvent)
}

func (uc *RecordAnalysisUseCase) fail(ctx context.Context, step, analysisID string, err error) {
	slog.WarnContext(ctx, "persistence_failed",
		"step", step,
		"analysis_id", analysisID,
		"error", err,
	)
	if uc.metrics != nil {
		uc.metrics.RecordPersistence(step, "error")
	}
}

func (uc *RecordAnalysisUseCase) succeed(step string) {
	if uc.metrics != nil {
		uc.metrics.RecordPersistence(step, "success")
	}
}
