package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

type ResourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// Category names travel as one JSONB array argument and match case-insensitively.
const categoryNameFilter = `lower(c.name) IN (SELECT lower(x) FROM jsonb_array_elements_text($1::jsonb) AS x)`

func (r *ResourceRepository) ListResources(
	ctx context.Context,
	categories []string,
	resourceType domain.ResourceType,
	limit int,
) ([]domain.CatalogResource, error) {
	namesJSON, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT r.id, r.resource_type, r.title, r.description, COALESCE(r.url, ''), r.priority, c.name
FROM resource_recommendations r
JOIN contract_categories c ON c.id = r.category_id
WHERE r.is_active
	AND r.resource_type = $2
	AND `+categoryNameFilter+`
ORDER BY r.priority DESC
LIMIT $3
`, namesJSON, string(resourceType), limit)
	if err != nil {
		return nil, fmt.Errorf("list resource recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CatalogResource, 0, limit)
	for rows.Next() {
		var res domain.CatalogResource
		var kind string
		if err := rows.Scan(&res.ID, &kind, &res.Title, &res.Description, &res.URL, &res.Priority, &res.Category); err != nil {
			return nil, fmt.Errorf("scan resource recommendation: %w", err)
		}
		res.Type = domain.ResourceType(kind)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resource recommendations: %w", err)
	}
	return out, nil
}

// ListExperts returns verified, available partners specialised in any of the categories.
func (r *ResourceRepository) ListExperts(ctx context.Context, categories []string, limit int) ([]domain.ExpertPartner, error) {
	namesJSON, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT e.id, e.name, e.title, e.specialization,
	COALESCE(e.location_city, ''), COALESCE(e.location_state, ''), e.location_country,
	COALESCE(e.contact_email, ''), COALESCE(e.website_url, ''),
	COALESCE(e.rating, 0), e.review_count, COALESCE(e.hourly_rate, 0)
FROM expert_partners e
WHERE e.is_verified
	AND e.availability_status = 'available'
	AND EXISTS (
		SELECT 1
		FROM expert_specializations s
		JOIN contract_categories c ON c.id = s.category_id
		WHERE s.expert_id = e.id
			AND `+categoryNameFilter+`
	)
ORDER BY e.rating DESC NULLS LAST
LIMIT $2
`, namesJSON, limit)
	if err != nil {
		return nil, fmt.Errorf("list expert partners: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ExpertPartner, 0, limit)
	for rows.Next() {
		var e domain.ExpertPartner
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Title, &e.Specialization,
			&e.LocationCity, &e.LocationState, &e.LocationCountry,
			&e.ContactEmail, &e.WebsiteURL,
			&e.Rating, &e.ReviewCount, &e.HourlyRate,
		); err != nil {
			return nil, fmt.Errorf("scan expert partner: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expert partners: %w", err)
	}
	return out, nil
}
