package storage

import (
	"time"

	"github.com/spigell/cv-sync/internal/model"
)

// Section names double as table names.
const (
	SectionPersonal     = "personal_details"
	SectionExperience   = "experiences"
	SectionEducation    = "educations"
	SectionSkills       = "skills"
	SectionProjects     = "projects"
	SectionCertificates = "certificates"
	SectionLanguages    = "languages"
	SectionSocialLinks  = "social_media_links"
	SectionInterests    = "interests"
)

// Sections lists every section in save order.
var Sections = []string{
	SectionPersonal,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertificates,
	SectionLanguages,
	SectionSocialLinks,
	SectionInterests,
}

type ResumeRow struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Title      string `db:"title"`
	TemplateID string `db:"template_id"`
	IsPrimary  bool   `db:"is_primary"`
	// Embedding is nil when no valid vector has been stored.
	Embedding model.Vector `db:"-"`
	// Signature is the JSON encoded change signature of the stored embedding.
	Signature []byte    `db:"embedding_signature"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type PersonalDetailsRow struct {
	ResumeID  string `db:"resume_id"`
	FullName  string `db:"full_name"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Title     string `db:"title"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	Location  string `db:"location"`
	Website   string `db:"website"`
	Summary   string `db:"summary"`
}

type ExperienceRow struct {
	ID           string     `db:"id"`
	ResumeID     string     `db:"resume_id"`
	Title        string     `db:"title"`
	CompanyName  string     `db:"company_name"`
	Location     string     `db:"location"`
	StartDate    *time.Time `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	IsCurrent    bool       `db:"is_current"`
	Description  string     `db:"description"`
	DisplayOrder int        `db:"display_order"`
}

type EducationRow struct {
	ID           string     `db:"id"`
	ResumeID     string     `db:"resume_id"`
	Institution  string     `db:"institution"`
	Degree       string     `db:"degree"`
	FieldOfStudy string     `db:"field_of_study"`
	StartDate    *time.Time `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	GPA          string     `db:"gpa"`
	Description  string     `db:"description"`
	DisplayOrder int        `db:"display_order"`
}

type SkillRow struct {
	ID           string `db:"id"`
	ResumeID     string `db:"resume_id"`
	Name         string `db:"name"`
	Level        string `db:"level"`
	Category     string `db:"category"`
	DisplayOrder int    `db:"display_order"`
}

type ProjectRow struct {
	ID           string     `db:"id"`
	ResumeID     string     `db:"resume_id"`
	Name         string     `db:"name"`
	Description  string     `db:"description"`
	Technologies []string   `db:"technologies"`
	URL          string     `db:"url"`
	StartDate    *time.Time `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	DisplayOrder int        `db:"display_order"`
}

type CertificateRow struct {
	ID           string     `db:"id"`
	ResumeID     string     `db:"resume_id"`
	Name         string     `db:"name"`
	Issuer       string     `db:"issuer"`
	IssueDate    *time.Time `db:"issue_date"`
	ExpiryDate   *time.Time `db:"expiry_date"`
	CredentialID string     `db:"credential_id"`
	URL          string     `db:"url"`
	DisplayOrder int        `db:"display_order"`
}

type LanguageRow struct {
	ID           string `db:"id"`
	ResumeID     string `db:"resume_id"`
	Language     string `db:"language"`
	Proficiency  string `db:"proficiency"`
	DisplayOrder int    `db:"display_order"`
}

type SocialLinkRow struct {
	ID           string `db:"id"`
	ResumeID     string `db:"resume_id"`
	Platform     string `db:"platform"`
	URL          string `db:"url"`
	DisplayOrder int    `db:"display_order"`
}

type InterestRow struct {
	ID           string `db:"id"`
	ResumeID     string `db:"resume_id"`
	Name         string `db:"name"`
	DisplayOrder int    `db:"display_order"`
}
