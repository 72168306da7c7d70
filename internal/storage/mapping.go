package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/cv-sync/internal/model"
)

const (
	monthLayout  = "2006-01"
	dateLayout   = "2006-01-02"
	unknownName  = "Unknown"
	firstOfMonth = "-01"
)

// ParseMonth expands a "YYYY-MM" month string to the first day of that month.
// Full dates are accepted and stored as is, but FormatMonth reads them back
// as "YYYY-MM". An empty string yields nil.
func ParseMonth(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if len(value) == len(monthLayout) {
		value += firstOfMonth
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: %w", value, err)
	}
	return &t, nil
}

// FormatMonth renders a stored date back to the "YYYY-MM" form.
func FormatMonth(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(monthLayout)
}

// FullName joins first and last name, falling back to "Unknown".
func FullName(first, last string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return unknownName
	}
	return name
}

func PersonalDetailsRowOf(resumeID string, p model.PersonalDetails) PersonalDetailsRow {
	return PersonalDetailsRow{
		ResumeID:  resumeID,
		FullName:  FullName(p.FirstName, p.LastName),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Title:     p.Title,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		Website:   p.Website,
		Summary:   p.Summary,
	}
}

func PersonalDetailsFromRow(row *PersonalDetailsRow) model.PersonalDetails {
	if row == nil {
		return model.PersonalDetails{}
	}
	return model.PersonalDetails{
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Title:     row.Title,
		Email:     row.Email,
		Phone:     row.Phone,
		Location:  row.Location,
		Website:   row.Website,
		Summary:   row.Summary,
	}
}

// ExperienceRows maps position to title and company to company_name. A current
// position never stores an end date.
func ExperienceRows(resumeID string, items []model.Experience) ([]ExperienceRow, error) {
	rows := make([]ExperienceRow, 0, len(items))
	for i, e := range items {
		start, err := ParseMonth(e.StartDate)
		if err != nil {
			return nil, fmt.Errorf("experience %d start date: %w", i, err)
		}

		var end *time.Time
		if !e.Current {
			if end, err = ParseMonth(e.EndDate); err != nil {
				return nil, fmt.Errorf("experience %d end date: %w", i, err)
			}
		}

		rows = append(rows, ExperienceRow{
			ResumeID:     resumeID,
			Title:        e.Position,
			CompanyName:  e.Company,
			Location:     e.Location,
			StartDate:    start,
			EndDate:      end,
			IsCurrent:    e.Current,
			Description:  e.Description,
			DisplayOrder: i,
		})
	}
	return rows, nil
}

func ExperiencesFromRows(rows []ExperienceRow) []model.Experience {
	items := make([]model.Experience, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.Experience{
			ID:          r.ID,
			Position:    r.Title,
			Company:     r.CompanyName,
			Location:    r.Location,
			StartDate:   FormatMonth(r.StartDate),
			EndDate:     FormatMonth(r.EndDate),
			Current:     r.IsCurrent,
			Description: r.Description,
		})
	}
	return items
}

func EducationRows(resumeID string, items []model.Education) ([]EducationRow, error) {
	rows := make([]EducationRow, 0, len(items))
	for i, e := range items {
		start, err := ParseMonth(e.StartDate)
		if err != nil {
			return nil, fmt.Errorf("education %d start date: %w", i, err)
		}
		end, err := ParseMonth(e.EndDate)
		if err != nil {
			return nil, fmt.Errorf("education %d end date: %w", i, err)
		}

		rows = append(rows, EducationRow{
			ResumeID:     resumeID,
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    start,
			EndDate:      end,
			GPA:          e.GPA,
			Description:  e.Description,
			DisplayOrder: i,
		})
	}
	return rows, nil
}

func EducationsFromRows(rows []EducationRow) []model.Education {
	items := make([]model.Education, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.Education{
			ID:           r.ID,
			Institution:  r.Institution,
			Degree:       r.Degree,
			FieldOfStudy: r.FieldOfStudy,
			StartDate:    FormatMonth(r.StartDate),
			EndDate:      FormatMonth(r.EndDate),
			GPA:          r.GPA,
			Description:  r.Description,
		})
	}
	return items
}

func SkillRows(resumeID string, items []model.Skill) []SkillRow {
	rows := make([]SkillRow, 0, len(items))
	for i, s := range items {
		rows = append(rows, SkillRow{
			ResumeID:     resumeID,
			Name:         s.Name,
			Level:        string(s.Proficiency),
			Category:     s.Category,
			DisplayOrder: i,
		})
	}
	return rows
}

func SkillsFromRows(rows []SkillRow) []model.Skill {
	items := make([]model.Skill, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.Skill{
			ID:          r.ID,
			Name:        r.Name,
			Proficiency: model.SkillProficiency(r.Level),
			Category:    r.Category,
		})
	}
	return items
}

func ProjectRows(resumeID string, items []model.Project) ([]ProjectRow, error) {
	rows := make([]ProjectRow, 0, len(items))
	for i, p := range items {
		start, err := ParseMonth(p.StartDate)
		if err != nil {
			return nil, fmt.Errorf("project %d start date: %w", i, err)
		}
		end, err := ParseMonth(p.EndDate)
		if err != nil {
			return nil, fmt.Errorf("project %d end date: %w", i, err)
		}

		tech := p.Technologies
		if tech == nil {
			tech = []string{}
		}

		rows = append(rows, ProjectRow{
			ResumeID:     resumeID,
			Name:         p.Name,
			Description:  p.Description,
			Technologies: tech,
			URL:          p.URL,
			StartDate:    start,
			EndDate:      end,
			DisplayOrder: i,
		})
	}
	return rows, nil
}

func ProjectsFromRows(rows []ProjectRow) []model.Project {
	items := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.Project{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			Technologies: r.Technologies,
			URL:          r.URL,
			StartDate:    FormatMonth(r.StartDate),
			EndDate:      FormatMonth(r.EndDate),
		})
	}
	return items
}

func CertificateRows(resumeID string, items []model.Certificate) ([]CertificateRow, error) {
	rows := make([]CertificateRow, 0, len(items))
	for i, c := range items {
		issued, err := ParseMonth(c.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("certificate %d issue date: %w", i, err)
		}
		expires, err := ParseMonth(c.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("certificate %d expiry date: %w", i, err)
		}

		rows = append(rows, CertificateRow{
			ResumeID:     resumeID,
			Name:         c.Name,
			Issuer:       c.Issuer,
			IssueDate:    issued,
			ExpiryDate:   expires,
			CredentialID: c.CredentialID,
			URL:          c.URL,
			DisplayOrder: i,
		})
	}
	return rows, nil
}

func CertificatesFromRows(rows []CertificateRow) []model.Certificate {
	items := make([]model.Certificate, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.Certificate{
			ID:           r.ID,
			Name:         r.Name,
			Issuer:       r.Issuer,
			IssueDate:    FormatMonth(r.IssueDate),
			ExpiryDate:   FormatMonth(r.ExpiryDate),
			CredentialID: r.CredentialID,
			URL:          r.URL,
		})
	}
	return items
}

// LanguageRows translates the UI proficiency vocabulary to the stored one.
func LanguageRows(resumeID string, items []model.Language) []LanguageRow {
	rows := make([]LanguageRow, 0, len(items))
	for i, l := range items {
		rows = append(rows, LanguageRow{
			ResumeID:     resumeID,
			Language:     l.Name,
			Proficiency:  string(l.Proficiency.ToStorage()),
			DisplayOrder: i,
		})
	}
	return rows
}

func LanguagesFromRows(rows []LanguageRow) []model.Language {
	items := make([]model.Language, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.Language{
			ID:          r.ID,
			Name:        r.Language,
			Proficiency: model.StoredLanguageLevel(r.Proficiency).ToUI(),
		})
	}
	return items
}

func SocialLinkRows(resumeID string, items []model.SocialMediaLink) []SocialLinkRow {
	rows := make([]SocialLinkRow, 0, len(items))
	for i, l := range items {
		rows = append(rows, SocialLinkRow{
			ResumeID:     resumeID,
			Platform:     l.Platform,
			URL:          l.URL,
			DisplayOrder: i,
		})
	}
	return rows
}

func SocialLinksFromRows(rows []SocialLinkRow) []model.SocialMediaLink {
	items := make([]model.SocialMediaLink, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.SocialMediaLink{ID: r.ID, Platform: r.Platform, URL: r.URL})
	}
	return items
}

func InterestRows(resumeID string, items []model.Interest) []InterestRow {
	rows := make([]InterestRow, 0, len(items))
	for i, it := range items {
		rows = append(rows, InterestRow{ResumeID: resumeID, Name: it.Name, DisplayOrder: i})
	}
	return rows
}

func InterestsFromRows(rows []InterestRow) []model.Interest {
	items := make([]model.Interest, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.Interest{ID: r.ID, Name: r.Name})
	}
	return items
}

// ResumeRowOf projects the metadata of r.
func ResumeRowOf(r *model.Resume) ResumeRow {
	return ResumeRow{
		ID:         strings.TrimSpace(r.ID),
		UserID:     strings.TrimSpace(r.UserID),
		Title:      r.Title,
		TemplateID: r.TemplateID,
		IsPrimary:  r.IsPrimary,
	}
}
