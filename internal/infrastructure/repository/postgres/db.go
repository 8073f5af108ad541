package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const schemaLockKey int64 = 2025061401

// OpenDB configures the pool without connecting. Connections are made per
// query, so a database that comes up after the service still gets used.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// EnsureSchema creates the analysis and catalog tables and seeds the contract
// categories the analysis prompt classifies into.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	if _, err := tx.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}
	if _, err := tx.ExecContext(ctx, seedCategories); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS contract_analyses (
	id TEXT PRIMARY KEY,
	file_name TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	file_type TEXT NOT NULL,
	file_path TEXT,
	summary TEXT NOT NULL,
	key_clauses JSONB NOT NULL DEFAULT '[]'::jsonb,
	recommendations JSONB NOT NULL DEFAULT '[]'::jsonb,
	overall_risk TEXT NOT NULL CHECK (overall_risk IN ('high', 'medium', 'low')),
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contract_analyses_created_at ON contract_analyses(created_at DESC);

CREATE TABLE IF NOT EXISTS contract_categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contract_analysis_categories (
	id TEXT PRIMARY KEY,
	analysis_id TEXT NOT NULL REFERENCES contract_analyses(id),
	category_id TEXT NOT NULL REFERENCES contract_categories(id),
	confidence_score DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_categories_analysis ON contract_analysis_categories(analysis_id);

CREATE TABLE IF NOT EXISTS contract_learning_patterns (
	id TEXT PRIMARY KEY,
	contract_text_sample TEXT NOT NULL,
	categories JSONB NOT NULL DEFAULT '[]'::jsonb,
	risk_patterns JSONB,
	common_clauses JSONB,
	user_feedback JSONB,
	analysis_confidence DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS resource_recommendations (
	id TEXT PRIMARY KEY,
	category_id TEXT NOT NULL REFERENCES contract_categories(id),
	resource_type TEXT NOT NULL CHECK (resource_type IN ('template', 'expert', 'guide', 'service')),
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	url TEXT,
	priority INTEGER NOT NULL DEFAULT 1,
	conditions JSONB,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS expert_partners (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	title TEXT NOT NULL,
	specialization TEXT NOT NULL,
	location_city TEXT,
	location_state TEXT,
	location_country TEXT NOT NULL DEFAULT 'US',
	contact_email TEXT,
	website_url TEXT,
	rating DOUBLE PRECISION,
	review_count INTEGER NOT NULL DEFAULT 0,
	hourly_rate DOUBLE PRECISION,
	availability_status TEXT NOT NULL DEFAULT 'available',
	is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS expert_specializations (
	id TEXT PRIMARY KEY,
	expert_id TEXT NOT NULL REFERENCES expert_partners(id),
	category_id TEXT NOT NULL REFERENCES contract_categories(id),
	expertise_level TEXT NOT NULL DEFAULT 'general',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const seedCategories = `
INSERT INTO contract_categories (id, name, description) VALUES
	('real-estate', 'Real Estate', 'Leases, rentals, mortgages, property'),
	('employment', 'Employment', 'Job contracts, employment agreements, HR documents'),
	('business-services', 'Business Services', 'Consulting, contractor, professional services'),
	('legal', 'Legal', 'NDAs, partnerships, corporate agreements'),
	('sales-commerce', 'Sales & Commerce', 'Purchase agreements, vendor contracts'),
	('media-content', 'Media & Content', 'Releases, IP agreements, content creation'),
	('financial', 'Financial', 'Loans, investments, banking documents')
ON CONFLICT (name) DO NOTHING;
`
