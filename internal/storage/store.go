package storage

import (
	"context"

	"github.com/spigell/cv-sync/internal/model"
)

// ResumeStore is the relational contract the resume repository is written
// against. Replace methods delete every row of the resume in the section
// and insert rows only when the slice is non-empty.
type ResumeStore interface {
	InsertResume(ctx context.Context, row ResumeRow) (string, error)
	UpdateResume(ctx context.Context, row ResumeRow) error
	GetResume(ctx context.Context, id string) (*ResumeRow, error)
	ListResumes(ctx context.Context, userID string) ([]model.ResumeSummary, error)
	ListResumeIDs(ctx context.Context) ([]string, error)
	SetResumeEmbedding(ctx context.Context, id string, vector model.Vector, signature []byte) error

	UpsertPersonalDetails(ctx context.Context, row PersonalDetailsRow) error
	GetPersonalDetails(ctx context.Context, resumeID string) (*PersonalDetailsRow, error)

	ReplaceExperiences(ctx context.Context, resumeID string, rows []ExperienceRow) error
	ReplaceEducations(ctx context.Context, resumeID string, rows []EducationRow) error
	ReplaceSkills(ctx context.Context, resumeID string, rows []SkillRow) error
	ReplaceProjects(ctx context.Context, resumeID string, rows []ProjectRow) error
	ReplaceCertificates(ctx context.Context, resumeID string, rows []CertificateRow) error
	ReplaceLanguages(ctx context.Context, resumeID string, rows []LanguageRow) error
	ReplaceSocialLinks(ctx context.Context, resumeID string, rows []SocialLinkRow) error
	ReplaceInterests(ctx context.Context, resumeID string, rows []InterestRow) error

	ListExperiences(ctx context.Context, resumeID string) ([]ExperienceRow, error)
	ListEducations(ctx context.Context, resumeID string) ([]EducationRow, error)
	ListSkills(ctx context.Context, resumeID string) ([]SkillRow, error)
	ListProjects(ctx context.Context, resumeID string) ([]ProjectRow, error)
	ListCertificates(ctx context.Context, resumeID string) ([]CertificateRow, error)
	ListLanguages(ctx context.Context, resumeID string) ([]LanguageRow, error)
	ListSocialLinks(ctx context.Context, resumeID string) ([]SocialLinkRow, error)
	ListInterests(ctx context.Context, resumeID string) ([]InterestRow, error)

	// InTx runs fn against a store bound to one transaction, committing when
	// fn returns nil.
	InTx(ctx context.Context, fn func(tx ResumeStore) error) error
}
