package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

func newAnalysisRepoWithMock(t *testing.T) (*AnalysisRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewAnalysisRepository(db), mock, func() { _ = db.Close() }
}

var analysisColumns = []string{
	"id", "file_name", "file_size", "file_type", "file_path", "summary",
	"key_clauses", "recommendations", "overall_risk", "created_at",
}

func TestAnalysisGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	mock.ExpectQuery("FROM contract_analyses").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAnalysisGetByIDDecodesJSONColumns(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	created := time.Date(2024, 5, 7, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(analysisColumns).AddRow(
		"a-1", "lease.pdf", int64(2048), domain.MimeTypePDF, "contracts/a-1_lease.pdf", "A lease.",
		[]byte(`[{"title":"Rent","description":"1200","risk":"low","type":"neutral"}]`),
		[]byte(`["Check the deposit"]`), "medium", created,
	)
	mock.ExpectQuery("FROM contract_analyses").WithArgs("a-1").WillReturnRows(rows)

	analysis, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if analysis.OverallRisk != domain.RiskMedium || len(analysis.KeyClauses) != 1 || analysis.KeyClauses[0].Title != "Rent" {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
	if len(analysis.Recommendations) != 1 || !analysis.CreatedAt.Equal(created) {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAnalysisCreateInsertsRow(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	created := time.Now().UTC()
	mock.ExpectExec("INSERT INTO contract_analyses").
		WithArgs("a-1", "lease.txt", int64(300), domain.MimeTypePlainText, "", "Summary",
			[]byte(`[]`), []byte(`["r1"]`), "low", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.PersistedAnalysis{
		ID:              "a-1",
		FileName:        "lease.txt",
		FileSize:        300,
		FileType:        domain.MimeTypePlainText,
		Summary:         "Summary",
		Recommendations: []string{"r1"},
		OverallRisk:     domain.RiskLow,
		CreatedAt:       created,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLinkCategoryUpsertsThenLinks(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO contract_categories").
		WithArgs(sqlmock.AnyArg(), "Real Estate", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("real-estate"))
	mock.ExpectExec("INSERT INTO contract_analysis_categories").
		WithArgs(sqlmock.AnyArg(), "a-1", "real-estate", 0.9, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.LinkCategory(context.Background(), "a-1", domain.CategoryScore{Name: "Real Estate", Confidence: 0.9}); err != nil {
		t.Fatalf("LinkCategory() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLinkCategoryStopsWhenUpsertFails(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO contract_categories").
		WillReturnError(errors.New("permission denied"))

	err := repo.LinkCategory(context.Background(), "a-1", domain.CategoryScore{Name: "Legal", Confidence: 0.5})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveLearningPattern(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO contract_learning_patterns").
		WithArgs("p-1", "sample", []byte(`["Legal"]`), sqlmock.AnyArg(), sqlmock.AnyArg(), 0.7, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveLearningPattern(context.Background(), &domain.LearningPattern{
		ID:                 "p-1",
		ContractTextSample: "sample",
		Categories:         []string{"Legal"},
		RiskPatterns:       map[string]any{"industry_context": "legal"},
		CommonClauses:      []domain.ClauseDigest{{Title: "Confidentiality", Risk: domain.RiskLow}},
		AnalysisConfidence: 0.7,
		CreatedAt:          time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SaveLearningPattern() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListRecent(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows(analysisColumns).
		AddRow("a-2", "b.txt", int64(1), "text/plain", "", "B", []byte(`[]`), []byte(`[]`), "high", time.Now()).
		AddRow("a-1", "a.txt", int64(1), "text/plain", "", "A", []byte(`[]`), []byte(`[]`), "low", time.Now())
	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs(50).WillReturnRows(rows)

	analyses, err := repo.ListRecent(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(analyses) != 2 || analyses[0].ID != "a-2" {
		t.Fatalf("unexpected analyses %+v", analyses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WithArgs(schemaLockKey).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contract_analyses").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO contract_categories").WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectCommit()

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
