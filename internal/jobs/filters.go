package jobs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/model"
)

// Filter is a client side step applied to the jobs returned by the store.
type Filter interface {
	Name() string
	Apply(ctx context.Context, jobs []model.Job) ([]model.Job, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// runFilters executes the filters sequentially and logs every step.
func runFilters(ctx context.Context, log *zap.Logger, filters []Filter, jobs []model.Job) ([]model.Job, error) {
	for _, f := range filters {
		next, info, err := f.Apply(ctx, jobs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}

		log.Debug("filter step",
			zap.String("name", f.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		jobs = next
	}
	return jobs, nil
}

type locationFilter struct {
	values []string
}

// NewLocations keeps jobs whose location contains any of values after alias
// resolution and Turkish case folding. It keeps everything when values is empty.
func NewLocations(values []string) Filter {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, CanonicalLocation(v))
		}
	}
	return &locationFilter{values: kept}
}

func (f *locationFilter) Name() string { return "locations" }

func (f *locationFilter) Apply(_ context.Context, jobs []model.Job) ([]model.Job, Step, error) {
	initial := len(jobs)
	if len(f.values) == 0 {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}

	folder := newLocationFolder()
	wanted := make([]string, 0, len(f.values))
	for _, v := range f.values {
		wanted = append(wanted, folder.fold(v))
	}

	kept := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		location := folder.fold(job.Location)
		for _, w := range wanted {
			if strings.Contains(location, w) {
				kept = append(kept, job)
				break
			}
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type companiesFilter struct {
	excluded map[string]struct{}
}

// NewExcludedCompanies drops jobs posted by any of companies, compared
// case-insensitively.
func NewExcludedCompanies(companies []string) Filter {
	excluded := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			excluded[c] = struct{}{}
		}
	}
	return &companiesFilter{excluded: excluded}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Apply(_ context.Context, jobs []model.Job) ([]model.Job, Step, error) {
	initial := len(jobs)
	if len(f.excluded) == 0 {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}

	kept := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if _, ok := f.excluded[strings.ToLower(strings.TrimSpace(job.Company))]; ok {
			continue
		}
		kept = append(kept, job)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
