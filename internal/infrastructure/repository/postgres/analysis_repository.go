package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

// AnalysisRepository is insert-only: analyses and their derived rows are never updated.
type AnalysisRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *AnalysisRepository) Create(ctx context.Context, analysis *domain.PersistedAnalysis) error {
	clausesJSON, err := json.Marshal(nonNilClauses(analysis.KeyClauses))
	if err != nil {
		return fmt.Errorf("marshal key clauses: %w", err)
	}
	recommendationsJSON, err := json.Marshal(nonNilStrings(analysis.Recommendations))
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO contract_analyses (
	id, file_name, file_size, file_type, file_path, summary, key_clauses, recommendations, overall_risk, created_at
) VALUES ($1,$2,$3,$4,NULLIF($5, ''),$6,$7,$8,$9,$10)
`,
		analysis.ID, analysis.FileName, analysis.FileSize, analysis.FileType, analysis.FilePath,
		analysis.Summary, clausesJSON, recommendationsJSON, string(analysis.OverallRisk), analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.PersistedAnalysis, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, file_name, file_size, file_type, COALESCE(file_path, ''), summary, key_clauses, recommendations, overall_risk, created_at
FROM contract_analyses
WHERE id = $1
`, id)

	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get contract analysis", fmt.Errorf("id=%s", id))
		}
		return nil, err
	}
	return analysis, nil
}

func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]domain.PersistedAnalysis, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, file_name, file_size, file_type, COALESCE(file_path, ''), summary, key_clauses, recommendations, overall_risk, created_at
FROM contract_analyses
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contract analyses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PersistedAnalysis, 0, limit)
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contract analyses: %w", err)
	}
	return out, nil
}

// LinkCategory resolves the category by name, creating it on first sight, and
// records the model confidence for this analysis.
func (r *AnalysisRepository) LinkCategory(ctx context.Context, analysisID string, category domain.CategoryScore) error {
	var categoryID string
	err := r.db.QueryRowContext(ctx, `
INSERT INTO contract_categories (id, name, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`, uuid.NewString(), category.Name, r.now()).Scan(&categoryID)
	if err != nil {
		return fmt.Errorf("upsert category %q: %w", category.Name, err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO contract_analysis_categories (id, analysis_id, category_id, confidence_score, created_at)
VALUES ($1,$2,$3,$4,$5)
`, uuid.NewString(), analysisID, categoryID, category.Confidence, r.now())
	if err != nil {
		return fmt.Errorf("link analysis category: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) SaveLearningPattern(ctx context.Context, pattern *domain.LearningPattern) error {
	categoriesJSON, err := json.Marshal(nonNilStrings(pattern.Categories))
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	patternsJSON, err := json.Marshal(pattern.RiskPatterns)
	if err != nil {
		return fmt.Errorf("marshal risk patterns: %w", err)
	}
	clausesJSON, err := json.Marshal(pattern.CommonClauses)
	if err != nil {
		return fmt.Errorf("marshal common clauses: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO contract_learning_patterns (
	id, contract_text_sample, categories, risk_patterns, common_clauses, analysis_confidence, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		pattern.ID, pattern.ContractTextSample, categoriesJSON, patternsJSON, clausesJSON,
		pattern.AnalysisConfidence, pattern.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert learning pattern: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.PersistedAnalysis, error) {
	var analysis domain.PersistedAnalysis
	var clausesRaw, recommendationsRaw []byte
	var risk string

	err := row.Scan(
		&analysis.ID, &analysis.FileName, &analysis.FileSize, &analysis.FileType, &analysis.FilePath,
		&analysis.Summary, &clausesRaw, &recommendationsRaw, &risk, &analysis.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan contract analysis: %w", err)
	}

	if err := json.Unmarshal(clausesRaw, &analysis.KeyClauses); err != nil {
		return nil, fmt.Errorf("unmarshal key clauses: %w", err)
	}
	if err := json.Unmarshal(recommendationsRaw, &analysis.Recommendations); err != nil {
		return nil, fmt.Errorf("unmarshal recommendations: %w", err)
	}
	analysis.OverallRisk = domain.RiskLevel(risk)
	return &analysis, nil
}

func nonNilClauses(in []domain.KeyClause) []domain.KeyClause {
	if in == nil {
		return []domain.KeyClause{}
	}
	return in
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
