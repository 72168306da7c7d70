package storage

// JobQuery is the server side part of a job search. Empty fields do not filter.
type JobQuery struct {
	Language         string
	Search           string
	EmploymentTypes  []string
	ExperienceLevels []string
	SalaryMin        *int
	SalaryMax        *int
}
