package model

import "time"

// Job is a posting stored in the jobs table.
type Job struct {
	ID              string `json:"id,omitempty"`
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	EmploymentType  string `json:"employmentType"`
	ExperienceLevel string `json:"experienceLevel"`
	RemoteType      string `json:"remoteType"`
	CompanySize     string `json:"companySize"`
	Industry        string `json:"industry"`
	EducationLevel  string `json:"educationLevel"`

	YearsExperienceMin *int `json:"yearsExperienceMin,omitempty"`
	YearsExperienceMax *int `json:"yearsExperienceMax,omitempty"`
	SalaryMin          *int `json:"salaryMin,omitempty"`
	SalaryMax          *int `json:"salaryMax,omitempty"`

	Currency string `json:"currency"`
	Language string `json:"language"`
	IsActive bool   `json:"isActive"`

	Responsibilities []string `json:"responsibilities"`
	MustHaveSkills   []string `json:"mustHaveSkills"`
	NiceToHaveSkills []string `json:"niceToHaveSkills"`
	Qualifications   []string `json:"qualifications"`
	Benefits         []string `json:"benefits"`

	Embedding Vector    `json:"-"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// JobMatch is a job ranked by similarity to a resume vector.
type JobMatch struct {
	Job        Job     `json:"job"`
	Similarity float64 `json:"similarity"`
}

// SalaryRange spans all active postings.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
