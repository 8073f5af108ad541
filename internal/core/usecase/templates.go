package usecase

import (
	"context"
	"fmt"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

type TemplateCatalogUseCase struct {
	templates []domain.Template
	byID      map[string]domain.Template
	renderer  ports.TemplateRenderer
}

func NewTemplateCatalogUseCase(templates []domain.Template, renderer ports.TemplateRenderer) *TemplateCatalogUseCase {
	byID := make(map[string]domain.Template, len(templates))
	for _, tpl := range templates {
		byID[tpl.ID] = tpl
	}
	return &TemplateCatalogUseCase{
		templates: templates,
		byID:      byID,
		renderer:  renderer,
	}
}

func (uc *TemplateCatalogUseCase) List(context.Context) []domain.Template {
	out := make([]domain.Template, len(uc.templates))
	copy(out, uc.templates)
	return out
}

func (uc *TemplateCatalogUseCase) Render(_ context.Context, id string) (*domain.RenderedDocument, error) {
	tpl, ok := uc.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "render template", fmt.Errorf("template id=%q", id))
	}

	data, err := uc.renderer.Render(tpl)
	if err != nil {
		return nil, fmt.Errorf("render template %s: %w", id, err)
	}
	return &domain.RenderedDocument{
		Filename:    tpl.DownloadFilename(),
		ContentType: domain.MimeTypeDOCX,
		Data:        data,
	}, nil
}
