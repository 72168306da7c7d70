package embedding

import (
	"slices"
	"strings"

	"github.com/spigell/cv-sync/internal/model"
)

// Signature is the projection of a resume compared to decide whether its
// embedding is stale. It is stored as JSON next to the vector.
type Signature struct {
	SkillNames       []string `json:"skillNames"`
	SkillCount       int      `json:"skillCount"`
	ExperienceCount  int      `json:"experienceCount"`
	EducationCount   int      `json:"educationCount"`
	ProjectCount     int      `json:"projectCount"`
	CertificateCount int      `json:"certificateCount"`
	LanguageCount    int      `json:"languageCount"`
	Summary          string   `json:"summary"`
	Title            string   `json:"title"`
}

// SignatureOf derives the signature of r. Skill names are sorted and
// deduplicated so the comparison ignores order.
func SignatureOf(r *model.Resume) Signature {
	if r == nil {
		return Signature{SkillNames: []string{}}
	}

	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, strings.TrimSpace(s.Name))
	}
	slices.Sort(names)
	names = slices.Compact(names)

	return Signature{
		SkillNames:       names,
		SkillCount:       len(r.Skills),
		ExperienceCount:  len(r.Experiences),
		EducationCount:   len(r.Educations),
		ProjectCount:     len(r.Projects),
		CertificateCount: len(r.Certificates),
		LanguageCount:    len(r.Languages),
		Summary:          r.Personal.Summary,
		Title:            r.Personal.Title,
	}
}

// ShouldRegenerate reports whether any compared field differs. Item reordering,
// experience descriptions and proficiency changes are not detected.
func ShouldRegenerate(previous, current Signature) bool {
	return !slices.Equal(previous.SkillNames, current.SkillNames) ||
		previous.SkillCount != current.SkillCount ||
		previous.ExperienceCount != current.ExperienceCount ||
		previous.EducationCount != current.EducationCount ||
		previous.ProjectCount != current.ProjectCount ||
		previous.CertificateCount != current.CertificateCount ||
		previous.LanguageCount != current.LanguageCount ||
		previous.Summary != current.Summary ||
		previous.Title != current.Title
}
