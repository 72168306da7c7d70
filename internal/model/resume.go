package model

import "time"

// Resume is the UI-shaped aggregate saved and fetched as one unit.
// Section slices are ordered; the index of an item is its display order.
type Resume struct {
	ID         string `json:"id,omitempty" mapstructure:"id"`
	UserID     string `json:"userId,omitempty" mapstructure:"userId"`
	Title      string `json:"title" mapstructure:"title"`
	TemplateID string `json:"templateId,omitempty" mapstructure:"templateId"`
	IsPrimary  bool   `json:"isPrimary" mapstructure:"isPrimary"`

	Personal     PersonalDetails   `json:"personalInfo" mapstructure:"personalInfo"`
	Experiences  []Experience      `json:"experience" mapstructure:"experience"`
	Educations   []Education       `json:"education" mapstructure:"education"`
	Skills       []Skill           `json:"skills" mapstructure:"skills"`
	Projects     []Project         `json:"projects" mapstructure:"projects"`
	Certificates []Certificate     `json:"certificates" mapstructure:"certificates"`
	Languages    []Language        `json:"languages" mapstructure:"languages"`
	SocialLinks  []SocialMediaLink `json:"socialLinks" mapstructure:"socialLinks"`
	Interests    []Interest        `json:"interests" mapstructure:"interests"`

	Embedding Vector    `json:"-" mapstructure:"-"`
	CreatedAt time.Time `json:"createdAt,omitempty" mapstructure:"-"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" mapstructure:"-"`
}

type PersonalDetails struct {
	FirstName string `json:"firstName" mapstructure:"firstName"`
	LastName  string `json:"lastName" mapstructure:"lastName"`
	Title     string `json:"title" mapstructure:"title"`
	Email     string `json:"email" mapstructure:"email"`
	Phone     string `json:"phone" mapstructure:"phone"`
	Location  string `json:"location" mapstructure:"location"`
	Website   string `json:"website" mapstructure:"website"`
	Summary   string `json:"summary" mapstructure:"summary"`
}

// Experience dates are month strings in the "YYYY-MM" form.
type Experience struct {
	ID          string `json:"id,omitempty" mapstructure:"id"`
	Position    string `json:"position" mapstructure:"position"`
	Company     string `json:"company" mapstructure:"company"`
	Location    string `json:"location" mapstructure:"location"`
	StartDate   string `json:"startDate" mapstructure:"startDate"`
	EndDate     string `json:"endDate" mapstructure:"endDate"`
	Current     bool   `json:"current" mapstructure:"current"`
	Description string `json:"description" mapstructure:"description"`
}

type Education struct {
	ID           string `json:"id,omitempty" mapstructure:"id"`
	Institution  string `json:"institution" mapstructure:"institution"`
	Degree       string `json:"degree" mapstructure:"degree"`
	FieldOfStudy string `json:"fieldOfStudy" mapstructure:"fieldOfStudy"`
	StartDate    string `json:"startDate" mapstructure:"startDate"`
	EndDate      string `json:"endDate" mapstructure:"endDate"`
	GPA          string `json:"gpa" mapstructure:"gpa"`
	Description  string `json:"description" mapstructure:"description"`
}

type Skill struct {
	ID          string           `json:"id,omitempty" mapstructure:"id"`
	Name        string           `json:"name" mapstructure:"name"`
	Proficiency SkillProficiency `json:"proficiency" mapstructure:"proficiency"`
	Category    string           `json:"category" mapstructure:"category"`
}

type Project struct {
	ID           string   `json:"id,omitempty" mapstructure:"id"`
	Name         string   `json:"name" mapstructure:"name"`
	Description  string   `json:"description" mapstructure:"description"`
	Technologies []string `json:"technologies" mapstructure:"technologies"`
	URL          string   `json:"url" mapstructure:"url"`
	StartDate    string   `json:"startDate" mapstructure:"startDate"`
	EndDate      string   `json:"endDate" mapstructure:"endDate"`
}

type Certificate struct {
	ID           string `json:"id,omitempty" mapstructure:"id"`
	Name         string `json:"name" mapstructure:"name"`
	Issuer       string `json:"issuer" mapstructure:"issuer"`
	IssueDate    string `json:"issueDate" mapstructure:"issueDate"`
	ExpiryDate   string `json:"expiryDate" mapstructure:"expiryDate"`
	CredentialID string `json:"credentialId" mapstructure:"credentialId"`
	URL          string `json:"url" mapstructure:"url"`
}

type Language struct {
	ID          string              `json:"id,omitempty" mapstructure:"id"`
	Name        string              `json:"name" mapstructure:"name"`
	Proficiency LanguageProficiency `json:"proficiency" mapstructure:"proficiency"`
}

type SocialMediaLink struct {
	ID       string `json:"id,omitempty" mapstructure:"id"`
	Platform string `json:"platform" mapstructure:"platform"`
	URL      string `json:"url" mapstructure:"url"`
}

type Interest struct {
	ID   string `json:"id,omitempty" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

// ResumeSummary is the listing projection shown on dashboards.
type ResumeSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	TemplateID   string    `json:"templateId"`
	IsPrimary    bool      `json:"isPrimary"`
	HasEmbedding bool      `json:"hasEmbedding"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
