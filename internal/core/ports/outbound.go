package ports

import (
	"context"
	"io"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, mimeType string, data []byte) (string, error)
}

// ContractModel runs the language model prompts and returns validated results.
type ContractModel interface {
	AnalyzeContract(ctx context.Context, text, fileName string) (*domain.AnalysisResult, error)
	CompareContracts(ctx context.Context, operatorText, bookingText, operatorFileName, bookingFileName string) (*domain.ComparisonResult, error)
}

// AnalysisRecorder durably stores a finished analysis. It reports nothing back:
// the outcome must never influence the response.
type AnalysisRecorder interface {
	Record(ctx context.Context, record domain.AnalysisRecord)
}

// AnalysisRepository persists analyses and their derived rows.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.PersistedAnalysis) error
	GetByID(ctx context.Context, id string) (*domain.PersistedAnalysis, error)
	ListRecent(ctx context.Context, limit int) ([]domain.PersistedAnalysis, error)
	LinkCategory(ctx context.Context, analysisID string, category domain.CategoryScore) error
	SaveLearningPattern(ctx context.Context, pattern *domain.LearningPattern) error
}

// ResourceRepository reads curated resources and expert partners by category.
type ResourceRepository interface {
	ListResources(ctx context.Context, categories []string, resourceType domain.ResourceType, limit int) ([]domain.CatalogResource, error)
	ListExperts(ctx context.Context, categories []string, limit int) ([]domain.ExpertPartner, error)
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key, contentType string, data io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// EventPublisher announces stored analyses.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, event domain.AnalysisCompletedEvent) error
}

// EventSubscriber consumes announced analyses.
type EventSubscriber interface {
	SubscribeAnalysisCompleted(ctx context.Context, handler func(context.Context, domain.AnalysisCompletedEvent) error) error
}

// TemplateRenderer generates a word-processing document from a template.
type TemplateRenderer interface {
	Render(template domain.Template) ([]byte, error)
}

// AnalysisReportWriter writes persisted analyses as a spreadsheet.
type AnalysisReportWriter interface {
	WriteAnalyses(w io.Writer, analyses []domain.PersistedAnalysis) error
}

// PersistenceMetrics observes best-effort write steps.
type PersistenceMetrics interface {
	RecordPersistence(step, status string)
}

// AnalysisEventMetrics observes consumed analysis events.
type AnalysisEventMetrics interface {
	RecordAnalysisEvent(risk string, lagSeconds float64)
}
