package resumes

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/logger"
	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

// Fetch assembles a stored resume. It returns nil without an error when the
// resume does not exist. Sections are read concurrently and a section that
// cannot be read comes back empty.
func (r *Repository) Fetch(ctx context.Context, id string) (*model.Resume, error) {
	if r == nil || r.store == nil {
		return nil, errors.New("resume repository is not initialized")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	row, err := r.store.GetResume(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	resume := &model.Resume{
		ID:         row.ID,
		UserID:     row.UserID,
		Title:      row.Title,
		TemplateID: row.TemplateID,
		IsPrimary:  row.IsPrimary,
		Embedding:  row.Embedding,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}

	log := logger.ForResume(r.logger, id)
	s := r.store

	readers := []func(){
		func() {
			details, err := s.GetPersonalDetails(ctx, id)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				readFailed(log, storage.SectionPersonal, err)
			}
			resume.Personal = storage.PersonalDetailsFromRow(details)
		},
		readSection(ctx, log, storage.SectionExperience, id, s.ListExperiences, storage.ExperiencesFromRows, &resume.Experiences),
		readSection(ctx, log, storage.SectionEducation, id, s.ListEducations, storage.EducationsFromRows, &resume.Educations),
		readSection(ctx, log, storage.SectionSkills, id, s.ListSkills, storage.SkillsFromRows, &resume.Skills),
		readSection(ctx, log, storage.SectionProjects, id, s.ListProjects, storage.ProjectsFromRows, &resume.Projects),
		readSection(ctx, log, storage.SectionCertificates, id, s.ListCertificates, storage.CertificatesFromRows, &resume.Certificates),
		readSection(ctx, log, storage.SectionLanguages, id, s.ListLanguages, storage.LanguagesFromRows, &resume.Languages),
		readSection(ctx, log, storage.SectionSocialLinks, id, s.ListSocialLinks, storage.SocialLinksFromRows, &resume.SocialLinks),
		readSection(ctx, log, storage.SectionInterests, id, s.ListInterests, storage.InterestsFromRows, &resume.Interests),
	}

	var wg sync.WaitGroup
	wg.Add(len(readers))
	for _, read := range readers {
		go func() {
			defer wg.Done()
			read()
		}()
	}
	wg.Wait()

	return resume, nil
}

// readSection returns a reader that lists the rows of one section and stores
// the converted items in dst. Each reader owns its dst.
func readSection[R, M any](
	ctx context.Context,
	log *zap.Logger,
	section, id string,
	list func(context.Context, string) ([]R, error),
	convert func([]R) []M,
	dst *[]M,
) func() {
	return func() {
		rows, err := list(ctx, id)
		if err != nil {
			readFailed(log, section, err)
			rows = nil
		}
		*dst = convert(rows)
	}
}

func readFailed(log *zap.Logger, section string, err error) {
	log.Warn("section read failed, using empty section",
		zap.String(logger.FieldSection, section),
		zap.Error(err),
	)
}
