package resumes

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

var errForced = errors.New("forced failure")

// fakeStore keeps every table in memory. failWrite and failRead name the
// sections whose writes or reads return errForced.
type fakeStore struct {
	mu sync.Mutex

	nextID    int
	resumes   map[string]storage.ResumeRow
	personal  map[string]storage.PersonalDetailsRow
	sections  map[string]map[string]any
	failWrite map[string]bool
	failRead  map[string]bool

	failMetadata bool
	embedWrites  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		resumes:   make(map[string]storage.ResumeRow),
		personal:  make(map[string]storage.PersonalDetailsRow),
		sections:  make(map[string]map[string]any),
		failWrite: make(map[string]bool),
		failRead:  make(map[string]bool),
	}
}

func (f *fakeStore) InsertResume(_ context.Context, row storage.ResumeRow) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMetadata {
		return "", errForced
	}
	f.nextID++
	row.ID = fmt.Sprintf("resume-%d", f.nextID)
	f.resumes[row.ID] = row
	return row.ID, nil
}

func (f *fakeStore) UpdateResume(_ context.Context, row storage.ResumeRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMetadata {
		return errForced
	}
	existing, ok := f.resumes[row.ID]
	if !ok {
		return storage.ErrNotFound
	}
	existing.Title, existing.TemplateID, existing.IsPrimary = row.Title, row.TemplateID, row.IsPrimary
	if row.UserID != "" {
		existing.UserID = row.UserID
	}
	f.resumes[row.ID] = existing
	return nil
}

func (f *fakeStore) GetResume(_ context.Context, id string) (*storage.ResumeRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.resumes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (f *fakeStore) ListResumes(_ context.Context, userID string) ([]model.ResumeSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ResumeSummary
	for _, id := range slices.Sorted(maps.Keys(f.resumes)) {
		row := f.resumes[id]
		if row.UserID == userID {
			out = append(out, model.ResumeSummary{ID: row.ID, Title: row.Title, HasEmbedding: row.Embedding != nil})
		}
	}
	return out, nil
}

func (f *fakeStore) ListResumeIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Sorted(maps.Keys(f.resumes)), nil
}

func (f *fakeStore) SetResumeEmbedding(_ context.Context, id string, vector model.Vector, signature []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.resumes[id]
	if !ok {
		return storage.ErrNotFound
	}
	row.Embedding, row.Signature = vector, signature
	f.resumes[id] = row
	f.embedWrites++
	return nil
}

func (f *fakeStore) UpsertPersonalDetails(_ context.Context, row storage.PersonalDetailsRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite[storage.SectionPersonal] {
		return &storage.PersistenceError{Section: storage.SectionPersonal, Op: "insert", Err: errForced}
	}
	f.personal[row.ResumeID] = row
	return nil
}

func (f *fakeStore) GetPersonalDetails(_ context.Context, resumeID string) (*storage.PersonalDetailsRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead[storage.SectionPersonal] {
		return nil, errForced
	}
	row, ok := f.personal[resumeID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func replaceRows[T any](f *fakeStore, section, resumeID string, rows []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite[section] {
		return &storage.PersistenceError{Section: section, Op: "insert", Err: errForced}
	}
	if f.sections[section] == nil {
		f.sections[section] = make(map[string]any)
	}
	delete(f.sections[section], resumeID)
	if len(rows) > 0 {
		f.sections[section][resumeID] = slices.Clone(rows)
	}
	return nil
}

func listRows[T any](f *fakeStore, section, resumeID string) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead[section] {
		return nil, errForced
	}
	rows, _ := f.sections[section][resumeID].([]T)
	return slices.Clone(rows), nil
}

func (f *fakeStore) ReplaceExperiences(_ context.Context, id string, rows []storage.ExperienceRow) error {
	return replaceRows(f, storage.SectionExperience, id, rows)
}

func (f *fakeStore) ReplaceEducations(_ context.Context, id string, rows []storage.EducationRow) error {
	return replaceRows(f, storage.SectionEducation, id, rows)
}

func (f *fakeStore) ReplaceSkills(_ context.Context, id string, rows []storage.SkillRow) error {
	return replaceRows(f, storage.SectionSkills, id, rows)
}

func (f *fakeStore) ReplaceProjects(_ context.Context, id string, rows []storage.ProjectRow) error {
	return replaceRows(f, storage.SectionProjects, id, rows)
}

func (f *fakeStore) ReplaceCertificates(_ context.Context, id string, rows []storage.CertificateRow) error {
	return replaceRows(f, storage.SectionCertificates, id, rows)
}

func (f *fakeStore) ReplaceLanguages(_ context.Context, id string, rows []storage.LanguageRow) error {
	return replaceRows(f, storage.SectionLanguages, id, rows)
}

func (f *fakeStore) ReplaceSocialLinks(_ context.Context, id string, rows []storage.SocialLinkRow) error {
	return replaceRows(f, storage.SectionSocialLinks, id, rows)
}

func (f *fakeStore) ReplaceInterests(_ context.Context, id string, rows []storage.InterestRow) error {
	return replaceRows(f, storage.SectionInterests, id, rows)
}

func (f *fakeStore) ListExperiences(_ context.Context, id string) ([]storage.ExperienceRow, error) {
	return listRows[storage.ExperienceRow](f, storage.SectionExperience, id)
}

func (f *fakeStore) ListEducations(_ context.Context, id string) ([]storage.EducationRow, error) {
	return listRows[storage.EducationRow](f, storage.SectionEducation, id)
}

func (f *fakeStore) ListSkills(_ context.Context, id string) ([]storage.SkillRow, error) {
	return listRows[storage.SkillRow](f, storage.SectionSkills, id)
}

func (f *fakeStore) ListProjects(_ context.Context, id string) ([]storage.ProjectRow, error) {
	return listRows[storage.ProjectRow](f, storage.SectionProjects, id)
}

func (f *fakeStore) ListCertificates(_ context.Context, id string) ([]storage.CertificateRow, error) {
	return listRows[storage.CertificateRow](f, storage.SectionCertificates, id)
}

func (f *fakeStore) ListLanguages(_ context.Context, id string) ([]storage.LanguageRow, error) {
	return listRows[storage.LanguageRow](f, storage.SectionLanguages, id)
}

func (f *fakeStore) ListSocialLinks(_ context.Context, id string) ([]storage.SocialLinkRow, error) {
	return listRows[storage.SocialLinkRow](f, storage.SectionSocialLinks, id)
}

func (f *fakeStore) ListInterests(_ context.Context, id string) ([]storage.InterestRow, error) {
	return listRows[storage.InterestRow](f, storage.SectionInterests, id)
}

// InTx restores a snapshot of every table when fn fails.
func (f *fakeStore) InTx(_ context.Context, fn func(tx storage.ResumeStore) error) error {
	f.mu.Lock()
	nextID := f.nextID
	resumes := maps.Clone(f.resumes)
	personal := maps.Clone(f.personal)
	sections := make(map[string]map[string]any, len(f.sections))
	for k, v := range f.sections {
		sections[k] = maps.Clone(v)
	}
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.nextID, f.resumes, f.personal, f.sections = nextID, resumes, personal, sections
		f.mu.Unlock()
		return err
	}
	return nil
}

type fakeGenerator struct {
	mu    sync.Mutex
	err   error
	calls int
	texts []string
}

func (g *fakeGenerator) Generate(_ context.Context, text string) (model.Vector, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.texts = append(g.texts, text)
	if g.err != nil {
		return nil, g.err
	}
	return make(model.Vector, model.EmbeddingDimension), nil
}

type recordingNotifier struct {
	events []SavedEvent
	err    error
}

func (n *recordingNotifier) ResumeSaved(_ context.Context, event SavedEvent) error {
	n.events = append(n.events, event)
	return n.err
}
