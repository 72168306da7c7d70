package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Migration represents a database migration.
type Migration struct {
	Name string
	SQL  string
}

const sectionColumns = `
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	resume_id UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
	display_order INTEGER NOT NULL DEFAULT 0,`

// Migrations lists the schema changes in the order they are applied.
var Migrations = []Migration{
	{
		Name: "create_vector_extension",
		SQL:  `CREATE EXTENSION IF NOT EXISTS vector`,
	},
	{
		Name: "create_resumes",
		SQL: `CREATE TABLE IF NOT EXISTS resumes (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	template_id TEXT NOT NULL DEFAULT '',
	is_primary BOOLEAN NOT NULL DEFAULT false,
	embedding vector(768),
	embedding_signature JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS resumes_user_id_idx ON resumes (user_id)`,
	},
	{
		Name: "create_personal_details",
		SQL: `CREATE TABLE IF NOT EXISTS personal_details (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	resume_id UUID NOT NULL UNIQUE REFERENCES resumes(id) ON DELETE CASCADE,
	full_name TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT ''
)`,
	},
	{
		Name: "create_experiences",
		SQL: `CREATE TABLE IF NOT EXISTS experiences (` + sectionColumns + `
	title TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	start_date DATE,
	end_date DATE,
	is_current BOOLEAN NOT NULL DEFAULT false,
	description TEXT NOT NULL DEFAULT ''
)`,
	},
	{
		Name: "create_educations",
		SQL: `CREATE TABLE IF NOT EXISTS educations (` + sectionColumns + `
	institution TEXT NOT NULL DEFAULT '',
	degree TEXT NOT NULL DEFAULT '',
	field_of_study TEXT NOT NULL DEFAULT '',
	start_date DATE,
	end_date DATE,
	gpa TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
)`,
	},
	{
		Name: "create_skills",
		SQL: `CREATE TABLE IF NOT EXISTS skills (` + sectionColumns + `
	name TEXT NOT NULL DEFAULT '',
	level TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT ''
)`,
	},
	{
		Name: "create_projects",
		SQL: `CREATE TABLE IF NOT EXISTS projects (` + sectionColumns + `
	name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	technologies TEXT[] NOT NULL DEFAULT '{}',
	url TEXT NOT NULL DEFAULT '',
	start_date DATE,
	end_date DATE
)`,
	},
	{
		Name: "create_certificates",
		SQL: `CREATE TABLE IF NOT EXISTS certificates (` + sectionColumns + `
	name TEXT NOT NULL DEFAULT '',
	issuer TEXT NOT NULL DEFAULT '',
	issue_date DATE,
	expiry_date DATE,
	credential_id TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT ''
)`,
	},
	{
		Name: "create_languages",
		SQL: `CREATE TABLE IF NOT EXISTS languages (` + sectionColumns + `
	language TEXT NOT NULL DEFAULT '',
	proficiency TEXT NOT NULL DEFAULT ''
)`,
	},
	{
		Name: "create_social_media_links",
		SQL: `CREATE TABLE IF NOT EXISTS social_media_links (` + sectionColumns + `
	platform TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT ''
)`,
	},
	{
		Name: "create_interests",
		SQL: `CREATE TABLE IF NOT EXISTS interests (` + sectionColumns + `
	name TEXT NOT NULL DEFAULT ''
)`,
	},
	{
		Name: "create_jobs",
		SQL: `CREATE TABLE IF NOT EXISTS jobs (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	employment_type TEXT NOT NULL DEFAULT '',
	experience_level TEXT NOT NULL DEFAULT '',
	remote_type TEXT NOT NULL DEFAULT '',
	company_size TEXT NOT NULL DEFAULT '',
	industry TEXT NOT NULL DEFAULT '',
	education_level TEXT NOT NULL DEFAULT '',
	years_experience_min INTEGER,
	years_experience_max INTEGER,
	salary_min INTEGER,
	salary_max INTEGER,
	currency TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT true,
	responsibilities TEXT[] NOT NULL DEFAULT '{}',
	must_have_skills TEXT[] NOT NULL DEFAULT '{}',
	nice_to_have_skills TEXT[] NOT NULL DEFAULT '{}',
	qualifications TEXT[] NOT NULL DEFAULT '{}',
	benefits TEXT[] NOT NULL DEFAULT '{}',
	embedding vector(768),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS jobs_active_created_idx ON jobs (is_active, created_at DESC)`,
	},
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrate applies every migration that is not yet recorded in
// schema_migrations. It returns the names applied by this call.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	if _, err := s.db.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make([]string, 0, len(Migrations))
	for _, m := range Migrations {
		var done bool
		if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, m.Name).Scan(&done); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", m.Name, err)
		}
		if done {
			s.logger.Debug("migration already applied", zap.String("name", m.Name))
			continue
		}

		if _, err := s.db.Exec(ctx, m.SQL); err != nil {
			s.logger.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return applied, fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		if _, err := s.db.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", m.Name, err)
		}

		s.logger.Info("migration completed", zap.String("name", m.Name))
		applied = append(applied, m.Name)
	}

	return applied, nil
}
