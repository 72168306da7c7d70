package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-sync/internal/embedding"
	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

type fakeStore struct {
	jobs      []model.Job
	lastQuery storage.JobQuery
	listErr   error
	saved     []model.Job
	vectors   map[string]model.Vector
	matches   []model.JobMatch
	matchN    int
}

func (f *fakeStore) ListJobs(_ context.Context, q storage.JobQuery) ([]model.Job, error) {
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Job
	for _, j := range f.jobs {
		if !j.IsActive || (q.Language != "" && j.Language != q.Language) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeStore) GetJob(_ context.Context, id string) (*model.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return &j, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) SaveJob(_ context.Context, job *model.Job) (string, error) {
	f.saved = append(f.saved, *job)
	return fmt.Sprintf("job-%d", len(f.saved)), nil
}

func (f *fakeStore) SetJobEmbedding(_ context.Context, id string, vector model.Vector) error {
	if f.vectors == nil {
		f.vectors = make(map[string]model.Vector)
	}
	f.vectors[id] = vector
	return nil
}

func (f *fakeStore) JobLocations(context.Context) ([]string, error) {
	return []string{"Ankara", "İstanbul, Avrupa"}, nil
}

func (f *fakeStore) EmploymentTypes(context.Context) ([]string, error) {
	return []string{"full-time"}, nil
}

func (f *fakeStore) ExperienceLevels(context.Context) ([]string, error) {
	return []string{"senior"}, nil
}

func (f *fakeStore) SalaryRange(context.Context) (model.SalaryRange, error) {
	return model.SalaryRange{Min: 1000, Max: 9000}, nil
}

func (f *fakeStore) MatchJobs(_ context.Context, _ model.Vector, limit int) ([]model.JobMatch, error) {
	f.matchN = limit
	return f.matches, nil
}

type stubGenerator struct {
	err   error
	texts []string
}

func (g *stubGenerator) Generate(_ context.Context, text string) (model.Vector, error) {
	g.texts = append(g.texts, text)
	if g.err != nil {
		return nil, g.err
	}
	return make(model.Vector, model.EmbeddingDimension), nil
}

func seedJobs() []model.Job {
	var jobs []model.Job
	for i := 0; i < 25; i++ {
		jobs = append(jobs, model.Job{ID: fmt.Sprintf("ist-%02d", i), Title: "Go", Language: "en", Location: "İstanbul, Avrupa", IsActive: true})
	}
	jobs = append(jobs,
		model.Job{ID: "ankara", Language: "en", Location: "Ankara", IsActive: true},
		model.Job{ID: "turkish", Language: "tr", Location: "İstanbul, Avrupa", IsActive: true},
		model.Job{ID: "inactive", Language: "en", Location: "İstanbul, Avrupa"},
	)
	return jobs
}

func TestFetchJobsPaginatesAfterFiltering(t *testing.T) {
	t.Parallel()

	store := &fakeStore{jobs: seedJobs()}
	engine := NewEngine(store, nil, zap.NewNop())

	page, err := engine.FetchJobs(context.Background(),
		Filters{Language: "en", Locations: []string{"İstanbul, Avrupa"}},
		Pagination{Page: 3, Limit: 10},
	)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(page.Jobs) != 5 || page.TotalPages != 3 || page.TotalCount != 25 {
		t.Fatalf("expected 5 jobs on page 3 of 3 with 25 total, got %d jobs, %d pages, %d total",
			len(page.Jobs), page.TotalPages, page.TotalCount)
	}
	if page.Jobs[0].ID != "ist-20" || page.Jobs[4].ID != "ist-24" {
		t.Fatalf("unexpected page contents: %s..%s", page.Jobs[0].ID, page.Jobs[4].ID)
	}
	if store.lastQuery.Language != "en" {
		t.Fatalf("expected language to be filtered server side, got %+v", store.lastQuery)
	}
}

func TestFetchJobsMatchesASCIIAlias(t *testing.T) {
	t.Parallel()

	store := &fakeStore{jobs: []model.Job{
		{ID: "ist", Location: "İstanbul, Avrupa", IsActive: true},
		{ID: "izmir", Location: "İzmir", IsActive: true},
		{ID: "ankara", Location: "Ankara", IsActive: true},
	}}
	engine := NewEngine(store, nil, zap.NewNop())

	tests := []struct {
		name      string
		locations []string
		want      []string
	}{
		{name: "ascii spelling", locations: []string{"Istanbul, Avrupa"}, want: []string{"ist"}},
		{name: "lowercase ascii", locations: []string{"istanbul"}, want: []string{"ist"}},
		{name: "several values", locations: []string{"Izmir", "ankara"}, want: []string{"izmir", "ankara"}},
		{name: "no filter", locations: nil, want: []string{"ist", "izmir", "ankara"}},
		{name: "blank values ignored", locations: []string{" "}, want: []string{"ist", "izmir", "ankara"}},
		{name: "no match", locations: []string{"Bursa"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := engine.FetchJobs(context.Background(), Filters{Locations: tt.locations}, Pagination{})
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if len(page.Jobs) != len(tt.want) {
				t.Fatalf("expected %v, got %d jobs", tt.want, len(page.Jobs))
			}
			for i, id := range tt.want {
				if page.Jobs[i].ID != id {
					t.Fatalf("expected %s at %d, got %s", id, i, page.Jobs[i].ID)
				}
			}
		})
	}
}

func TestFetchJobsExcludesCompanies(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	store := &fakeStore{jobs: []model.Job{
		{ID: "a", Company: "Acme", Location: "Ankara", IsActive: true},
		{ID: "b", Company: "Globex", Location: "Ankara", IsActive: true},
		{ID: "c", Company: "ACME ", Location: "İzmir", IsActive: true},
	}}
	engine := NewEngine(store, nil, zap.New(core))

	page, err := engine.FetchJobs(context.Background(),
		Filters{Locations: []string{"ankara"}, ExcludeCompanies: []string{"acme"}},
		Pagination{},
	)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.TotalCount != 1 || page.Jobs[0].ID != "b" {
		t.Fatalf("expected only b, got %+v", page.Jobs)
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 2 {
		t.Fatalf("expected two logged steps, got %d", len(steps))
	}
	if ctx := steps[0].ContextMap(); ctx["name"] != "locations" || ctx["dropped"] != int64(1) {
		t.Fatalf("unexpected locations step %v", ctx)
	}
	if ctx := steps[1].ContextMap(); ctx["name"] != "companies" || ctx["left"] != int64(1) {
		t.Fatalf("unexpected companies step %v", ctx)
	}
}

func TestFetchJobsStoreError(t *testing.T) {
	t.Parallel()

	store := &fakeStore{listErr: errors.New("connection refused")}
	engine := NewEngine(store, nil, zap.NewNop())

	if _, err := engine.FetchJobs(context.Background(), Filters{}, Pagination{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	jobs := make([]model.Job, 7)

	tests := []struct {
		name      string
		p         Pagination
		wantLen   int
		wantPages int
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", p: Pagination{}, wantLen: 7, wantPages: 1, wantPage: 1, wantLimit: 10},
		{name: "last partial page", p: Pagination{Page: 2, Limit: 5}, wantLen: 2, wantPages: 2, wantPage: 2, wantLimit: 5},
		{name: "past the end", p: Pagination{Page: 9, Limit: 5}, wantLen: 0, wantPages: 2, wantPage: 9, wantLimit: 5},
		{name: "huge page", p: Pagination{Page: 1 << 62, Limit: 10}, wantLen: 0, wantPages: 1, wantPage: 1 << 62, wantLimit: 10},
		{name: "limit capped", p: Pagination{Limit: 1000}, wantLen: 7, wantPages: 1, wantPage: 1, wantLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := paginate(jobs, tt.p.Normalize())
			if len(page.Jobs) != tt.wantLen || page.TotalPages != tt.wantPages || page.Page != tt.wantPage || page.Limit != tt.wantLimit {
				t.Fatalf("unexpected page %+v", page)
			}
			if page.TotalCount != 7 || page.Jobs == nil {
				t.Fatalf("unexpected total %d or nil jobs", page.TotalCount)
			}
		})
	}

	empty := paginate(nil, Pagination{}.Normalize())
	if empty.TotalPages != 0 || empty.TotalCount != 0 || len(empty.Jobs) != 0 {
		t.Fatalf("unexpected empty page %+v", empty)
	}
}

func TestSaveJob(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	gen := &stubGenerator{}
	engine := NewEngine(store, gen, zap.NewNop())

	if _, err := engine.SaveJob(context.Background(), &model.Job{}); !errors.Is(err, ErrInvalidJob) {
		t.Fatalf("expected ErrInvalidJob for job without title, got %v", err)
	}

	job := &model.Job{Title: "Go Developer", MustHaveSkills: []string{"Go"}, IsActive: true}
	result, err := engine.SaveJob(context.Background(), job)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if result.ID != "job-1" || result.EmbeddingErr != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(store.vectors["job-1"]) != model.EmbeddingDimension {
		t.Fatalf("expected job vector to be stored")
	}
	if gen.texts[0] != embedding.FormatJob(job) {
		t.Fatalf("expected formatted job to be embedded, got %q", gen.texts[0])
	}

	failing := NewEngine(store, &stubGenerator{err: errors.New("model unavailable")}, zap.NewNop())
	result, err = failing.SaveJob(context.Background(), job)
	if err != nil {
		t.Fatalf("embedding failure must not fail the save: %v", err)
	}
	if result.EmbeddingErr == nil || result.ID != "job-2" {
		t.Fatalf("expected embedding error to be recorded, got %+v", result)
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	store := &fakeStore{matches: []model.JobMatch{{Job: model.Job{ID: "a"}, Similarity: 0.9}}}
	engine := NewEngine(store, nil, zap.NewNop())

	if _, err := engine.Matches(context.Background(), &model.Resume{}, 5); !errors.Is(err, ErrNoEmbedding) {
		t.Fatalf("expected ErrNoEmbedding, got %v", err)
	}

	resume := &model.Resume{Embedding: make(model.Vector, model.EmbeddingDimension)}
	matches, err := engine.Matches(context.Background(), resume, 0)
	if err != nil || len(matches) != 1 {
		t.Fatalf("unexpected matches %v %v", matches, err)
	}
	if store.matchN != defaultMatchLimit {
		t.Fatalf("expected default limit, got %d", store.matchN)
	}

	if _, err := engine.Matches(context.Background(), resume, 500); err != nil || store.matchN != MaxLimit {
		t.Fatalf("expected capped limit, got %d", store.matchN)
	}
}
