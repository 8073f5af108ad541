package ports

import (
	"context"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

// ContractAnalyzer is the inbound contract for single-document analysis.
type ContractAnalyzer interface {
	Analyze(ctx context.Context, doc domain.UploadedDocument) (*domain.AnalysisResult, error)
}

// ContractComparer is the inbound contract for operator contract versus booking form comparison.
type ContractComparer interface {
	Compare(ctx context.Context, operatorContract, bookingForm domain.UploadedDocument) (*domain.ComparisonResult, error)
}

// TemplateCatalog lists registry templates and renders them to documents.
type TemplateCatalog interface {
	List(ctx context.Context) []domain.Template
	Render(ctx context.Context, id string) (*domain.RenderedDocument, error)
}

// BlogReader serves blog posts.
type BlogReader interface {
	List(ctx context.Context, category string, limit int) []domain.BlogPost
	Categories(ctx context.Context) []string
	GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
}

// ResourceFinder enriches model recommendations with curated resources.
type ResourceFinder interface {
	Find(ctx context.Context, categories []string, resourceType domain.ResourceType) (*domain.ResourceMatches, error)
}

// AnalysisHistory is the read model over persisted analyses.
type AnalysisHistory interface {
	GetByID(ctx context.Context, id string) (*domain.PersistedAnalysis, error)
	Export(ctx context.Context, limit int) (*domain.RenderedDocument, error)
}

// AnalysisEventHandler consumes analysis completion events.
type AnalysisEventHandler interface {
	Handle(ctx context.Context, event domain.AnalysisCompletedEvent) error
}
