package resumes

import (
	"context"

	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

// sectionStep writes one section of a resume.
type sectionStep struct {
	section string
	save    func(ctx context.Context, store storage.ResumeStore, resumeID string) error
}

// sectionSteps returns the nine section writes in save order.
func sectionSteps(r *model.Resume) []sectionStep {
	return []sectionStep{
		{storage.SectionPersonal, func(ctx context.Context, s storage.ResumeStore, id string) error {
			return s.UpsertPersonalDetails(ctx, storage.PersonalDetailsRowOf(id, r.Personal))
		}},
		{storage.SectionExperience, func(ctx context.Context, s storage.ResumeStore, id string) error {
			rows, err := storage.ExperienceRows(id, r.Experiences)
			if err != nil {
				return storage.Wrap(storage.SectionExperience, "map", err)
			}
			return s.ReplaceExperiences(ctx, id, rows)
		}},
		{storage.SectionEducation, func(ctx context.Context, s storage.ResumeStore, id string) error {
			rows, err := storage.EducationRows(id, r.Educations)
			if err != nil {
				return storage.Wrap(storage.SectionEducation, "map", err)
			}
			return s.ReplaceEducations(ctx, id, rows)
		}},
		{storage.SectionSkills, func(ctx context.Context, s storage.ResumeStore, id string) error {
			return s.ReplaceSkills(ctx, id, storage.SkillRows(id, r.Skills))
		}},
		{storage.SectionProjects, func(ctx context.Context, s storage.ResumeStore, id string) error {
			rows, err := storage.ProjectRows(id, r.Projects)
			if err != nil {
				return storage.Wrap(storage.SectionProjects, "map", err)
			}
			return s.ReplaceProjects(ctx, id, rows)
		}},
		{storage.SectionCertificates, func(ctx context.Context, s storage.ResumeStore, id string) error {
			rows, err := storage.CertificateRows(id, r.Certificates)
			if err != nil {
				return storage.Wrap(storage.SectionCertificates, "map", err)
			}
			return s.ReplaceCertificates(ctx, id, rows)
		}},
		{storage.SectionLanguages, func(ctx context.Context, s storage.ResumeStore, id string) error {
			return s.ReplaceLanguages(ctx, id, storage.LanguageRows(id, r.Languages))
		}},
		{storage.SectionSocialLinks, func(ctx context.Context, s storage.ResumeStore, id string) error {
			return s.ReplaceSocialLinks(ctx, id, storage.SocialLinkRows(id, r.SocialLinks))
		}},
		{storage.SectionInterests, func(ctx context.Context, s storage.ResumeStore, id string) error {
			return s.ReplaceInterests(ctx, id, storage.InterestRows(id, r.Interests))
		}},
	}
}
