package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

func TestListResourcesFiltersByCategoryAndType(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "resource_type", "title", "description", "url", "priority", "name"}).
		AddRow("r-1", "template", "Lease template", "Standard lease", "https://example.com/lease", 5, "Real Estate")
	mock.ExpectQuery("FROM resource_recommendations").
		WithArgs([]byte(`["Real Estate","Legal"]`), "template", 3).
		WillReturnRows(rows)

	repo := NewResourceRepository(db)
	resources, err := repo.ListResources(context.Background(), []string{"Real Estate", "Legal"}, domain.ResourceTemplate, 3)
	if err != nil {
		t.Fatalf("ListResources() error = %v", err)
	}
	if len(resources) != 1 || resources[0].Type != domain.ResourceTemplate || resources[0].Priority != 5 {
		t.Fatalf("unexpected resources %+v", resources)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListExpertsOnlyVerifiedAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "title", "specialization", "location_city", "location_state", "location_country",
		"contact_email", "website_url", "rating", "review_count", "hourly_rate",
	}).AddRow("e-1", "Jane Counsel", "Attorney", "Real estate law", "Austin", "TX", "US", "", "", 4.9, 120, 250.0)
	mock.ExpectQuery("e.is_verified").
		WithArgs([]byte(`["Real Estate"]`), 3).
		WillReturnRows(rows)

	repo := NewResourceRepository(db)
	experts, err := repo.ListExperts(context.Background(), []string{"Real Estate"}, 3)
	if err != nil {
		t.Fatalf("ListExperts() error = %v", err)
	}
	if len(experts) != 1 || experts[0].Rating != 4.9 || experts[0].ReviewCount != 120 {
		t.Fatalf("unexpected experts %+v", experts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
