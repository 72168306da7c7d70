package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

const jobColumns = `id::text, title, company, location, description, employment_type, experience_level,
	remote_type, company_size, industry, education_level, years_experience_min, years_experience_max,
	salary_min, salary_max, currency, language, is_active, responsibilities, must_have_skills,
	nice_to_have_skills, qualifications, benefits, created_at, updated_at`

const (
	columnLocation        = "location"
	columnEmploymentType  = "employment_type"
	columnExperienceLevel = "experience_level"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner, extra ...any) (model.Job, error) {
	var j model.Job
	dest := []any{
		&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.EmploymentType, &j.ExperienceLevel,
		&j.RemoteType, &j.CompanySize, &j.Industry, &j.EducationLevel, &j.YearsExperienceMin, &j.YearsExperienceMax,
		&j.SalaryMin, &j.SalaryMax, &j.Currency, &j.Language, &j.IsActive, &j.Responsibilities, &j.MustHaveSkills,
		&j.NiceToHaveSkills, &j.Qualifications, &j.Benefits, &j.CreatedAt, &j.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return j, err
}

// EscapeLike escapes the ILIKE wildcards and the escape character itself.
func EscapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

// BuildJobQuery renders the server side job filter. Rows are ordered newest
// first and not limited.
func BuildJobQuery(q storage.JobQuery) (string, []any) {
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	conditions := []string{"is_active = true"}

	if lang := strings.TrimSpace(q.Language); lang != "" {
		conditions = append(conditions, "language = "+arg(lang))
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		p := arg("%" + EscapeLike(search) + "%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE %[1]s OR company ILIKE %[1]s OR description ILIKE %[1]s)", p))
	}

	if types := nonEmpty(q.EmploymentTypes); len(types) > 0 {
		conditions = append(conditions, "employment_type = ANY("+arg(types)+")")
	}

	if levels := nonEmpty(q.ExperienceLevels); len(levels) > 0 {
		conditions = append(conditions, "experience_level = ANY("+arg(levels)+")")
	}

	// Salary bounds select postings whose range overlaps the requested one.
	if q.SalaryMin != nil {
		conditions = append(conditions, "salary_max >= "+arg(*q.SalaryMin))
	}
	if q.SalaryMax != nil {
		conditions = append(conditions, "salary_min <= "+arg(*q.SalaryMax))
	}

	sql := "SELECT " + jobColumns + " FROM jobs WHERE " + strings.Join(conditions, " AND ") + " ORDER BY created_at DESC"
	return sql, args
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ListJobs returns every active job matching q.
func (s *Store) ListJobs(ctx context.Context, q storage.JobQuery) ([]model.Job, error) {
	sql, args := BuildJobQuery(q)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Job, error) {
		return scanJob(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}

	return jobs, nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*model.Job, error) {
	job, err := scanJob(s.db.QueryRow(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return &job, nil
}

func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(
		"SELECT DISTINCT %[1]s FROM jobs WHERE is_active = true AND %[1]s <> '' ORDER BY %[1]s", column))
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", column, err)
	}
	return values, nil
}

func (s *Store) JobLocations(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, columnLocation)
}

func (s *Store) EmploymentTypes(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, columnEmploymentType)
}

func (s *Store) ExperienceLevels(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, columnExperienceLevel)
}

// SalaryRange spans the lowest salary_min and highest salary_max of active jobs.
func (s *Store) SalaryRange(ctx context.Context) (model.SalaryRange, error) {
	var r model.SalaryRange
	err := s.db.QueryRow(ctx, `SELECT COALESCE(MIN(salary_min), 0), COALESCE(MAX(salary_max), 0)
FROM jobs WHERE is_active = true`).Scan(&r.Min, &r.Max)
	if err != nil {
		return model.SalaryRange{}, fmt.Errorf("salary range: %w", err)
	}
	return r, nil
}

// SaveJob inserts a job without an id and updates it otherwise.
func (s *Store) SaveJob(ctx context.Context, j *model.Job) (string, error) {
	args := []any{
		j.Title, j.Company, j.Location, j.Description, j.EmploymentType, j.ExperienceLevel,
		j.RemoteType, j.CompanySize, j.Industry, j.EducationLevel, j.YearsExperienceMin, j.YearsExperienceMax,
		j.SalaryMin, j.SalaryMax, j.Currency, j.Language, j.IsActive, textArray(j.Responsibilities),
		textArray(j.MustHaveSkills), textArray(j.NiceToHaveSkills), textArray(j.Qualifications), textArray(j.Benefits),
	}

	if strings.TrimSpace(j.ID) == "" {
		var id string
		err := s.db.QueryRow(ctx, `INSERT INTO jobs (title, company, location, description, employment_type,
	experience_level, remote_type, company_size, industry, education_level, years_experience_min,
	years_experience_max, salary_min, salary_max, currency, language, is_active, responsibilities,
	must_have_skills, nice_to_have_skills, qualifications, benefits)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
RETURNING id::text`, args...).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("insert job: %w", err)
		}
		return id, nil
	}

	tag, err := s.db.Exec(ctx, `UPDATE jobs SET title = $2, company = $3, location = $4, description = $5,
	employment_type = $6, experience_level = $7, remote_type = $8, company_size = $9, industry = $10,
	education_level = $11, years_experience_min = $12, years_experience_max = $13, salary_min = $14,
	salary_max = $15, currency = $16, language = $17, is_active = $18, responsibilities = $19,
	must_have_skills = $20, nice_to_have_skills = $21, qualifications = $22, benefits = $23,
	updated_at = now()
WHERE id = $1`, append([]any{j.ID}, args...)...)
	if err != nil {
		return "", fmt.Errorf("update job %s: %w", j.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return "", fmt.Errorf("update job %s: %w", j.ID, storage.ErrNotFound)
	}
	return j.ID, nil
}

func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (s *Store) SetJobEmbedding(ctx context.Context, id string, vector model.Vector) error {
	if len(vector) != model.EmbeddingDimension {
		return fmt.Errorf("store job embedding: expected %d values, got %d", model.EmbeddingDimension, len(vector))
	}

	tag, err := s.db.Exec(ctx, `UPDATE jobs SET embedding = $2 WHERE id = $1`, id, pgvector.NewVector(vector))
	if err != nil {
		return fmt.Errorf("store job embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store job embedding %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// MatchJobs ranks active jobs by cosine similarity to vector.
func (s *Store) MatchJobs(ctx context.Context, vector model.Vector, limit int) ([]model.JobMatch, error) {
	rows, err := s.db.Query(ctx, "SELECT "+jobColumns+`, 1 - (embedding <=> $1) AS similarity
FROM jobs
WHERE is_active = true AND embedding IS NOT NULL
ORDER BY embedding <=> $1
LIMIT $2`, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("match jobs: %w", err)
	}

	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.JobMatch, error) {
		var similarity float64
		job, err := scanJob(row, &similarity)
		return model.JobMatch{Job: job, Similarity: similarity}, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan job matches: %w", err)
	}

	return matches, nil
}
