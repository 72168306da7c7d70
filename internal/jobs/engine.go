// Package jobs filters, pages and ranks job postings.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/embedding"
	"github.com/spigell/cv-sync/internal/logger"
	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	defaultMatchLimit = 20
)

var (
	// ErrNoEmbedding is returned when matching a resume that has no vector yet.
	ErrNoEmbedding = errors.New("resume has no embedding")
	ErrInvalidJob  = errors.New("invalid job")
)

// Store is the job side of the relational store.
type Store interface {
	ListJobs(ctx context.Context, q storage.JobQuery) ([]model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	SaveJob(ctx context.Context, job *model.Job) (string, error)
	SetJobEmbedding(ctx context.Context, id string, vector model.Vector) error
	JobLocations(ctx context.Context) ([]string, error)
	EmploymentTypes(ctx context.Context) ([]string, error)
	ExperienceLevels(ctx context.Context) ([]string, error)
	SalaryRange(ctx context.Context) (model.SalaryRange, error)
	MatchJobs(ctx context.Context, vector model.Vector, limit int) ([]model.JobMatch, error)
}

// Generator produces validated job vectors.
type Generator interface {
	Generate(ctx context.Context, text string) (model.Vector, error)
}

// Filters combines the server side predicate with the client side location step.
type Filters struct {
	Language         string   `query:"language"`
	Search           string   `query:"search"`
	Locations        []string `query:"locations"`
	ExcludeCompanies []string `query:"excludeCompanies"`
	EmploymentTypes  []string `query:"employmentTypes"`
	ExperienceLevels []string `query:"experienceLevels"`
	SalaryMin        *int     `query:"salaryMin"`
	SalaryMax        *int     `query:"salaryMax"`
}

type Pagination struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize applies the defaults and caps the limit.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Page is one page of the filtered jobs. TotalCount counts the jobs left after
// every filter.
type Page struct {
	Jobs       []model.Job `json:"jobs"`
	TotalCount int         `json:"totalCount"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// SaveJobResult reports a job save. The embedding error never fails the save.
type SaveJobResult struct {
	ID           string
	EmbeddingErr error
}

type Engine struct {
	store     Store
	generator Generator
	logger    *zap.Logger
}

func NewEngine(store Store, generator Generator, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, generator: generator, logger: log}
}

// FetchJobs loads every job matching the server side filters, applies the
// client side filters and returns the requested page. The whole filtered set
// is held in memory.
func (e *Engine) FetchJobs(ctx context.Context, f Filters, p Pagination) (*Page, error) {
	p = p.Normalize()

	all, err := e.store.ListJobs(ctx, storage.JobQuery{
		Language:         f.Language,
		Search:           f.Search,
		EmploymentTypes:  f.EmploymentTypes,
		ExperienceLevels: f.ExperienceLevels,
		SalaryMin:        f.SalaryMin,
		SalaryMax:        f.SalaryMax,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jobs: %w", err)
	}

	filtered, err := runFilters(ctx, e.logger, []Filter{
		NewLocations(f.Locations),
		NewExcludedCompanies(f.ExcludeCompanies),
	}, all)
	if err != nil {
		return nil, fmt.Errorf("filter jobs: %w", err)
	}

	return paginate(filtered, p), nil
}

func paginate(jobs []model.Job, p Pagination) *Page {
	total := len(jobs)
	page := &Page{
		Jobs:       []model.Job{},
		TotalCount: total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}

	if p.Page > page.TotalPages {
		return page
	}
	offset := (p.Page - 1) * p.Limit
	end := min(offset+p.Limit, total)
	page.Jobs = jobs[offset:end]

	return page
}

// Job returns storage.ErrNotFound for unknown ids.
func (e *Engine) Job(ctx context.Context, id string) (*model.Job, error) {
	return e.store.GetJob(ctx, id)
}

func (e *Engine) Locations(ctx context.Context) ([]string, error) {
	return e.store.JobLocations(ctx)
}

func (e *Engine) EmploymentTypes(ctx context.Context) ([]string, error) {
	return e.store.EmploymentTypes(ctx)
}

func (e *Engine) ExperienceLevels(ctx context.Context) ([]string, error) {
	return e.store.ExperienceLevels(ctx)
}

func (e *Engine) SalaryRange(ctx context.Context) (model.SalaryRange, error) {
	return e.store.SalaryRange(ctx)
}

// SaveJob stores the posting and then tries to embed it.
func (e *Engine) SaveJob(ctx context.Context, job *model.Job) (*SaveJobResult, error) {
	if job == nil {
		return nil, fmt.Errorf("%w: job is required", ErrInvalidJob)
	}
	if strings.TrimSpace(job.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidJob)
	}

	id, err := e.store.SaveJob(ctx, job)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(e.logger, logger.StringFields(logger.StringField{Key: logger.FieldJobID, Value: id})...)
	result := &SaveJobResult{ID: id}

	if e.generator == nil {
		return result, nil
	}

	vector, err := e.generator.Generate(ctx, embedding.FormatJob(job))
	if err == nil {
		err = e.store.SetJobEmbedding(ctx, id, vector)
	}
	if err != nil {
		result.EmbeddingErr = err
		log.Warn("job embedding failed", zap.Error(err))
		return result, nil
	}

	log.Info("job saved")
	return result, nil
}

// Matches ranks active jobs by similarity to the resume vector.
func (e *Engine) Matches(ctx context.Context, resume *model.Resume, limit int) ([]model.JobMatch, error) {
	if resume == nil || len(resume.Embedding) == 0 {
		return nil, ErrNoEmbedding
	}
	if limit < 1 {
		limit = defaultMatchLimit
	}
	limit = min(limit, MaxLimit)

	matches, err := e.store.MatchJobs(ctx, resume.Embedding, limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []model.JobMatch{}
	}
	return matches, nil
}
