package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/importer"
	"github.com/spigell/cv-sync/internal/jobs"
	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/resumes"
	"github.com/spigell/cv-sync/internal/storage"
)

const (
	resumeID = "9b2f7c1e-3a45-4d8e-9c61-0f1e2d3c4b5a"
	jobID    = "1c0ffee0-0000-4000-8000-000000000001"
)

type fakeResumes struct {
	stored  map[string]*model.Resume
	saved   []*model.Resume
	result  *resumes.SaveResult
	saveErr error
	panics  bool
}

func (f *fakeResumes) Save(_ context.Context, r *model.Resume) (*resumes.SaveResult, error) {
	f.saved = append(f.saved, r)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.result, nil
}

func (f *fakeResumes) Fetch(_ context.Context, id string) (*model.Resume, error) {
	return f.stored[id], nil
}

func (f *fakeResumes) ListForUser(_ context.Context, userID string) ([]model.ResumeSummary, error) {
	return []model.ResumeSummary{{ID: resumeID, Title: "for " + userID}}, nil
}

type fakeJobs struct {
	filters jobs.Filters
	page    jobs.Pagination
	matches []model.JobMatch
	saveErr error
	panics  bool
}

func (f *fakeJobs) FetchJobs(_ context.Context, filters jobs.Filters, p jobs.Pagination) (*jobs.Page, error) {
	f.filters, f.page = filters, p
	if f.panics {
		panic("slice bounds out of range")
	}
	return &jobs.Page{Jobs: []model.Job{{ID: jobID, Title: "Go"}}, TotalCount: 1, Page: 1, Limit: 10, TotalPages: 1}, nil
}

func (f *fakeJobs) Job(_ context.Context, id string) (*model.Job, error) {
	if id != jobID {
		return nil, storage.ErrNotFound
	}
	return &model.Job{ID: jobID, Title: "Go"}, nil
}

func (f *fakeJobs) SaveJob(_ context.Context, job *model.Job) (*jobs.SaveJobResult, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &jobs.SaveJobResult{ID: jobID, EmbeddingErr: errors.New("quota exceeded")}, nil
}

func (f *fakeJobs) Locations(context.Context) ([]string, error) {
	return []string{"Ankara", "İstanbul, Avrupa"}, nil
}

func (f *fakeJobs) EmploymentTypes(context.Context) ([]string, error) { return nil, nil }

func (f *fakeJobs) ExperienceLevels(context.Context) ([]string, error) {
	return nil, errors.New("db down")
}

func (f *fakeJobs) SalaryRange(context.Context) (model.SalaryRange, error) {
	return model.SalaryRange{Min: 1000, Max: 5000}, nil
}

func (f *fakeJobs) Matches(_ context.Context, r *model.Resume, _ int) ([]model.JobMatch, error) {
	if len(r.Embedding) == 0 {
		return nil, jobs.ErrNoEmbedding
	}
	return f.matches, nil
}

type fixture struct {
	resumes *fakeResumes
	jobs    *fakeJobs
	handler *Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	imp, err := importer.New()
	if err != nil {
		t.Fatalf("importer: %v", err)
	}

	r := &fakeResumes{
		stored: map[string]*model.Resume{
			resumeID: {ID: resumeID, Title: "Backend CV", Embedding: make(model.Vector, model.EmbeddingDimension)},
		},
		result: &resumes.SaveResult{
			Success:  true,
			ResumeID: resumeID,
			Failures: map[string]error{storage.SectionSkills: errors.New("copy failed")},
		},
	}
	j := &fakeJobs{matches: []model.JobMatch{{Job: model.Job{ID: jobID}, Similarity: 0.8}}}

	return &fixture{resumes: r, jobs: j, handler: NewHandler(r, j, imp, zap.NewNop())}
}

func (f *fixture) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := NewApp(f.handler).Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestRouteStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{name: "health", method: http.MethodGet, target: "/health", status: http.StatusOK},
		{name: "get resume", method: http.MethodGet, target: "/resumes/" + resumeID, status: http.StatusOK},
		{name: "get resume bad id", method: http.MethodGet, target: "/resumes/not-a-uuid", status: http.StatusBadRequest},
		{name: "get resume missing", method: http.MethodGet, target: "/resumes/" + jobID, status: http.StatusNotFound},
		{name: "list user resumes", method: http.MethodGet, target: "/users/user-1/resumes", status: http.StatusOK},
		{name: "matches", method: http.MethodGet, target: "/resumes/" + resumeID + "/matches?limit=5", status: http.StatusOK},
		{name: "matches missing resume", method: http.MethodGet, target: "/resumes/" + jobID + "/matches", status: http.StatusNotFound},
		{name: "save resume bad body", method: http.MethodPost, target: "/resumes", body: "{", status: http.StatusBadRequest},
		{name: "save resume bad id", method: http.MethodPost, target: "/resumes", body: `{"id": "42"}`, status: http.StatusBadRequest},
		{name: "get job", method: http.MethodGet, target: "/jobs/" + jobID, status: http.StatusOK},
		{name: "get job missing", method: http.MethodGet, target: "/jobs/" + resumeID, status: http.StatusNotFound},
		{name: "salary range", method: http.MethodGet, target: "/jobs/salary-range", status: http.StatusOK},
		{name: "experience levels failure", method: http.MethodGet, target: "/jobs/experience-levels", status: http.StatusInternalServerError},
		{name: "import invalid", method: http.MethodPost, target: "/resumes/import", body: `{"title": "x"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			status, body := f.do(t, tt.method, tt.target, tt.body)
			if status != tt.status {
				t.Fatalf("expected %d, got %d (%v)", tt.status, status, body)
			}
			if status >= 400 {
				if _, ok := body["error"]; !ok {
					t.Fatalf("expected error body, got %v", body)
				}
			}
		})
	}
}

func TestSaveResumeReportsFailedSections(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	status, body := f.do(t, http.MethodPost, "/resumes", `{"title": "Backend CV", "skills": [{"name": "Go", "proficiency": "expert"}]}`)

	if status != http.StatusOK || body["success"] != true || body["resumeId"] != resumeID {
		t.Fatalf("unexpected response %d %v", status, body)
	}
	failed, _ := body["failedSections"].([]any)
	if len(failed) != 1 || failed[0] != storage.SectionSkills {
		t.Fatalf("expected skills to be reported, got %v", body["failedSections"])
	}
	if len(f.resumes.saved) != 1 || f.resumes.saved[0].Skills[0].Proficiency != model.SkillExpert {
		t.Fatalf("expected decoded resume to reach the repository, got %+v", f.resumes.saved)
	}
}

func TestSaveResumeErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.resumes.saveErr = storage.ErrNotFound
	if status, _ := f.do(t, http.MethodPost, "/resumes", `{"id": "`+resumeID+`"}`); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}

	f.resumes.saveErr = errors.New("connection refused")
	status, body := f.do(t, http.MethodPost, "/resumes", `{"title": "x"}`)
	if status != http.StatusInternalServerError || body["error"] != "internal error" {
		t.Fatalf("expected hidden internal error, got %d %v", status, body)
	}
}

func TestImportResume(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	doc := `{"personalInfo": {"firstName": "Deniz"}, "skills": [{"name": "Go"}]}`

	status, body := f.do(t, http.MethodPost, "/resumes/import?userId=user-1&title=Imported", doc)
	if status != http.StatusCreated || body["resumeId"] != resumeID {
		t.Fatalf("unexpected response %d %v", status, body)
	}

	saved := f.resumes.saved[0]
	if saved.UserID != "user-1" || saved.Title != "Imported" || saved.Personal.FirstName != "Deniz" {
		t.Fatalf("unexpected imported resume %+v", saved)
	}
}

func TestMatchJobsWithoutEmbedding(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.resumes.stored[resumeID].Embedding = nil

	status, body := f.do(t, http.MethodGet, "/resumes/"+resumeID+"/matches", "")
	if status != http.StatusNotFound || body["error"] != jobs.ErrNoEmbedding.Error() {
		t.Fatalf("unexpected response %d %v", status, body)
	}
}

func TestListJobsParsesFilters(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	target := "/jobs?language=en&locations=Istanbul&locations=Ankara&employmentTypes=full-time,contract&salaryMin=1000&page=3&limit=10"

	status, body := f.do(t, http.MethodGet, target, "")
	if status != http.StatusOK || body["totalCount"] != float64(1) {
		t.Fatalf("unexpected response %d %v", status, body)
	}

	got := f.jobs.filters
	if got.Language != "en" || len(got.Locations) != 2 || got.Locations[0] != "Istanbul" {
		t.Fatalf("unexpected filters %+v", got)
	}
	if !reflect.DeepEqual(got.EmploymentTypes, []string{"full-time", "contract"}) {
		t.Fatalf("unexpected employment types %v", got.EmploymentTypes)
	}
	if got.SalaryMin == nil || *got.SalaryMin != 1000 || got.SalaryMax != nil {
		t.Fatalf("unexpected salary filters %+v", got)
	}
	if f.jobs.page.Page != 3 || f.jobs.page.Limit != 10 {
		t.Fatalf("unexpected pagination %+v", f.jobs.page)
	}
}

func TestListJobsKeepsCommasInLocations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	status, _ := f.do(t, http.MethodGet, "/jobs?locations=%C4%B0stanbul%2C%20Avrupa&experienceLevels=senior%2C%20lead", "")
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d", status)
	}

	got := f.jobs.filters
	if !reflect.DeepEqual(got.Locations, []string{"İstanbul, Avrupa"}) {
		t.Fatalf("expected a single location, got %q", got.Locations)
	}
	if !reflect.DeepEqual(got.ExperienceLevels, []string{"senior", "lead"}) {
		t.Fatalf("unexpected experience levels %q", got.ExperienceLevels)
	}
}

func TestListJobsRecoversFromPanic(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.jobs.panics = true

	status, body := f.do(t, http.MethodGet, "/jobs?page=1000000000000000000&limit=10", "")
	if status != http.StatusInternalServerError || body["error"] != "internal error" {
		t.Fatalf("expected recovered 500, got %d %v", status, body)
	}

	f.jobs.panics = false
	if status, _ := f.do(t, http.MethodGet, "/health", ""); status != http.StatusOK {
		t.Fatalf("expected the app to keep serving, got %d", status)
	}
}

func TestDistinctValues(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, body := f.do(t, http.MethodGet, "/jobs/locations", "")
	if locations, _ := body["locations"].([]any); len(locations) != 2 {
		t.Fatalf("unexpected locations %v", body)
	}

	_, body = f.do(t, http.MethodGet, "/jobs/employment-types", "")
	if types, ok := body["employmentTypes"].([]any); !ok || len(types) != 0 {
		t.Fatalf("expected an empty list, got %v", body)
	}
}

func TestSaveJob(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	status, body := f.do(t, http.MethodPost, "/jobs", `{"title": "Go Developer"}`)
	if status != http.StatusOK || body["id"] != jobID || body["embeddingError"] != "quota exceeded" {
		t.Fatalf("unexpected response %d %v", status, body)
	}

	f.jobs.saveErr = jobs.ErrInvalidJob
	if status, _ := f.do(t, http.MethodPost, "/jobs", `{}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}
