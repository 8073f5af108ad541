package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

const resourceMatchLimit = 3

type ResourceUseCase struct {
	repo ports.ResourceRepository
}

// NewResourceUseCase accepts a nil repository; every lookup then returns empty matches.
func NewResourceUseCase(repo ports.ResourceRepository) *ResourceUseCase {
	return &ResourceUseCase{repo: repo}
}

// Find enriches a model recommendation type with curated rows for the given
// categories. Lookup failures degrade to empty matches.
func (uc *ResourceUseCase) Find(
	ctx context.Context,
	categories []string,
	resourceType domain.ResourceType,
) (*domain.ResourceMatches, error) {
	if !resourceType.Valid() {
		return nil, domain.NewInputError(domain.ErrInvalidInput, fmt.Sprintf("unknown resource type %q", resourceType), nil)
	}

	matches := &domain.ResourceMatches{
		Type:      resourceType,
		Resources: []domain.CatalogResource{},
		Experts:   []domain.ExpertPartner{},
	}

	names := normalizeCategories(categories)
	if uc.repo == nil || len(names) == 0 {
		return matches, nil
	}
	if resourceType != domain.ResourceTemplate && resourceType != domain.ResourceExpert {
		return matches, nil
	}

	resources, err := uc.repo.ListResources(ctx, names, resourceType, resourceMatchLimit)
	if err != nil {
		slog.WarnContext(ctx, "resource_lookup_failed", "type", resourceType, "error", err)
		return matches, nil
	}
	matches.Resources = resources

	if resourceType == domain.ResourceExpert {
		experts, err := uc.repo.ListExperts(ctx, names, resourceMatchLimit)
		if err != nil {
			slog.WarnContext(ctx, "expert_lookup_failed", "error", err)
			return matches, nil
		}
		matches.Experts = experts
	}
	return matches, nil
}

func normalizeCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, name := range categories {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
