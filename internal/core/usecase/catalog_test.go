package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

type rendererFake struct {
	rendered []string
	err      error
}

func (f *rendererFake) Render(tpl domain.Template) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered = append(f.rendered, tpl.ID)
	return []byte("PK" + tpl.ID), nil
}

func TestTemplateRenderKnownID(t *testing.T) {
	renderer := &rendererFake{}
	uc := NewTemplateCatalogUseCase([]domain.Template{
		{ID: "nda", Title: "Non-Disclosure Agreement"},
		{ID: "photo-video", Title: "Photo/Video Release"},
	}, renderer)

	doc, err := uc.Render(context.Background(), "nda")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if doc.Filename != "Non-Disclosure_Agreement.docx" {
		t.Fatalf("unexpected filename %q", doc.Filename)
	}
	if doc.ContentType != domain.MimeTypeDOCX {
		t.Fatalf("unexpected content type %q", doc.ContentType)
	}
	if !bytes.HasPrefix(doc.Data, []byte("PK")) {
		t.Fatalf("unexpected body %q", doc.Data)
	}

	photo, err := uc.Render(context.Background(), "photo-video")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if photo.Filename != "Photo-Video_Release.docx" {
		t.Fatalf("path separator must not reach the filename, got %q", photo.Filename)
	}
	if len(uc.List(context.Background())) != 2 {
		t.Fatalf("expected two templates listed")
	}
}

func TestTemplateRenderUnknownID(t *testing.T) {
	renderer := &rendererFake{}
	uc := NewTemplateCatalogUseCase([]domain.Template{{ID: "nda", Title: "NDA"}}, renderer)

	_, err := uc.Render(context.Background(), "does-not-exist")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(renderer.rendered) != 0 {
		t.Fatalf("renderer must not run for unknown ids")
	}
}

func TestTemplateRenderFailure(t *testing.T) {
	uc := NewTemplateCatalogUseCase([]domain.Template{{ID: "nda", Title: "NDA"}}, &rendererFake{err: errors.New("zip")})

	_, err := uc.Render(context.Background(), "nda")
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected render failure, got %v", err)
	}
}

func TestBlogListNewestFirstWithoutContent(t *testing.T) {
	uc := NewBlogUseCase([]domain.BlogPost{
		{Slug: "old", Category: "Guides", PublishedAt: "2024-01-10", Content: "body"},
		{Slug: "new", Category: "Legal", PublishedAt: "2024-06-01", Content: "body"},
		{Slug: "mid", Category: "Guides", PublishedAt: "2024-03-15", Content: "body"},
	})

	posts := uc.List(context.Background(), "", 0)
	if len(posts) != 3 || posts[0].Slug != "new" || posts[2].Slug != "old" {
		t.Fatalf("unexpected order %+v", posts)
	}
	for _, post := range posts {
		if post.Content != "" {
			t.Fatalf("list must not carry post bodies")
		}
	}

	guides := uc.List(context.Background(), "guides", 1)
	if len(guides) != 1 || guides[0].Slug != "mid" {
		t.Fatalf("unexpected filtered list %+v", guides)
	}

	categories := uc.Categories(context.Background())
	if len(categories) != 2 || categories[0] != "Guides" || categories[1] != "Legal" {
		t.Fatalf("unexpected categories %v", categories)
	}
}

func TestBlogGetBySlug(t *testing.T) {
	uc := NewBlogUseCase([]domain.BlogPost{{Slug: "first", Content: "full body"}})

	post, err := uc.GetBySlug(context.Background(), "first")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if post.Content != "full body" {
		t.Fatalf("detail must carry the body")
	}
	if _, err := uc.GetBySlug(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type resourceRepoFake struct {
	resources     []domain.CatalogResource
	experts       []domain.ExpertPartner
	err           error
	gotCategories []string
	expertCalls   int
}

func (f *resourceRepoFake) ListResources(_ context.Context, categories []string, _ domain.ResourceType, _ int) ([]domain.CatalogResource, error) {
	f.gotCategories = categories
	if f.err != nil {
		return nil, f.err
	}
	return f.resources, nil
}

func (f *resourceRepoFake) ListExperts(context.Context, []string, int) ([]domain.ExpertPartner, error) {
	f.expertCalls++
	return f.experts, nil
}

func TestResourceFindExpertMatches(t *testing.T) {
	repo := &resourceRepoFake{
		resources: []domain.CatalogResource{{ID: "r1", Title: "Lease review"}},
		experts:   []domain.ExpertPartner{{ID: "e1", Name: "Jane Counsel"}},
	}
	uc := NewResourceUseCase(repo)

	matches, err := uc.Find(context.Background(), []string{" Real Estate", "real estate", ""}, domain.ResourceExpert)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(repo.gotCategories) != 1 || repo.gotCategories[0] != "Real Estate" {
		t.Fatalf("expected deduplicated categories, got %v", repo.gotCategories)
	}
	if len(matches.Resources) != 1 || len(matches.Experts) != 1 {
		t.Fatalf("unexpected matches %+v", matches)
	}
}

func TestResourceFindDegradesToEmpty(t *testing.T) {
	uc := NewResourceUseCase(&resourceRepoFake{err: errors.New("db down")})
	matches, err := uc.Find(context.Background(), []string{"Real Estate"}, domain.ResourceTemplate)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if matches.Resources == nil || len(matches.Resources) != 0 || matches.Experts == nil {
		t.Fatalf("expected empty non-nil matches, got %+v", matches)
	}

	disabled := NewResourceUseCase(nil)
	if _, err := disabled.Find(context.Background(), []string{"Real Estate"}, domain.ResourceGuide); err != nil {
		t.Fatalf("Find() without repository error = %v", err)
	}
}

func TestResourceFindRejectsUnknownType(t *testing.T) {
	uc := NewResourceUseCase(&resourceRepoFake{})
	if _, err := uc.Find(context.Background(), nil, domain.ResourceType("podcast")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

type reportWriterFake struct {
	rows int
}

func (f *reportWriterFake) WriteAnalyses(w io.Writer, analyses []domain.PersistedAnalysis) error {
	f.rows = len(analyses)
	_, err := w.Write([]byte("xlsx"))
	return err
}

func TestHistoryExportClampsLimit(t *testing.T) {
	repo := &analysisRepoFake{recent: []domain.PersistedAnalysis{{ID: "a"}, {ID: "b"}}}
	report := &reportWriterFake{}
	uc := NewAnalysisHistoryUseCase(repo, report)
	uc.now = func() time.Time { return time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC) }

	doc, err := uc.Export(context.Background(), 10_000)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if repo.recentLimit != maxExportLimit {
		t.Fatalf("expected limit %d, got %d", maxExportLimit, repo.recentLimit)
	}
	if doc.Filename != "contract-analyses-20240507.xlsx" || report.rows != 2 {
		t.Fatalf("unexpected export %q rows=%d", doc.Filename, report.rows)
	}

	if _, err := uc.Export(context.Background(), 0); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if repo.recentLimit != defaultExportLimit {
		t.Fatalf("expected default limit, got %d", repo.recentLimit)
	}
}

func TestHistoryGetByID(t *testing.T) {
	repo := &analysisRepoFake{byID: map[string]*domain.PersistedAnalysis{"a1": {ID: "a1"}}}
	uc := NewAnalysisHistoryUseCase(repo, &reportWriterFake{})

	if _, err := uc.GetByID(context.Background(), "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank id, got %v", err)
	}
	if _, err := uc.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	got, err := uc.GetByID(context.Background(), "a1")
	if err != nil || got.ID != "a1" {
		t.Fatalf("GetByID() = %+v, %v", got, err)
	}
}

type eventMetricsFake struct {
	risk string
	lag  float64
}

func (f *eventMetricsFake) RecordAnalysisEvent(risk string, lag float64) {
	f.risk = risk
	f.lag = lag
}

func TestTrackAnalysisEvents(t *testing.T) {
	metrics := &eventMetricsFake{}
	uc := NewTrackAnalysisEventsUseCase(metrics)
	created := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return created.Add(3 * time.Second) }

	err := uc.Handle(context.Background(), domain.AnalysisCompletedEvent{
		AnalysisID:  "a1",
		OverallRisk: domain.RiskHigh,
		CreatedAt:   created,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if metrics.risk != "high" || metrics.lag != 3 {
		t.Fatalf("unexpected metrics risk=%q lag=%v", metrics.risk, metrics.lag)
	}

	if err := uc.Handle(context.Background(), domain.AnalysisCompletedEvent{AnalysisID: "a2", OverallRisk: "extreme"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
