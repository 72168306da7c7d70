package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/storage"
)

var (
	experienceColumns  = []string{"resume_id", "title", "company_name", "location", "start_date", "end_date", "is_current", "description", "display_order"}
	educationColumns   = []string{"resume_id", "institution", "degree", "field_of_study", "start_date", "end_date", "gpa", "description", "display_order"}
	skillColumns       = []string{"resume_id", "name", "level", "category", "display_order"}
	projectColumns     = []string{"resume_id", "name", "description", "technologies", "url", "start_date", "end_date", "display_order"}
	certificateColumns = []string{"resume_id", "name", "issuer", "issue_date", "expiry_date", "credential_id", "url", "display_order"}
	languageColumns    = []string{"resume_id", "language", "proficiency", "display_order"}
	socialLinkColumns  = []string{"resume_id", "platform", "url", "display_order"}
	interestColumns    = []string{"resume_id", "name", "display_order"}
)

// replaceSection deletes every row of the resume in section and bulk inserts
// values when there are any.
func (s *Store) replaceSection(ctx context.Context, section, resumeID string, columns []string, values [][]any) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM "+section+" WHERE resume_id = $1", resumeID); err != nil {
		return storage.Wrap(section, "delete", err)
	}

	if len(values) == 0 {
		return nil
	}

	n, err := s.db.CopyFrom(ctx, pgx.Identifier{section}, columns, pgx.CopyFromRows(values))
	if err != nil {
		return storage.Wrap(section, "insert", err)
	}

	s.logger.Debug("section replaced",
		zap.String("section", section),
		zap.String("resume_id", resumeID),
		zap.Int64("rows", n),
	)

	return nil
}

// listSection selects the section rows of a resume in display order.
func listSection[T any](ctx context.Context, db querier, section string, columns []string, resumeID string) ([]T, error) {
	selected := make([]string, 0, len(columns)+1)
	selected = append(selected, "id::text AS id")
	for _, c := range columns {
		if c == "resume_id" {
			selected = append(selected, "resume_id::text AS resume_id")
			continue
		}
		selected = append(selected, c)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE resume_id = $1 ORDER BY display_order",
		strings.Join(selected, ", "), section)

	rows, err := db.Query(ctx, query, resumeID)
	if err != nil {
		return nil, storage.Wrap(section, "select", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, storage.Wrap(section, "scan", err)
	}

	return items, nil
}

func (s *Store) ReplaceExperiences(ctx context.Context, resumeID string, rows []storage.ExperienceRow) error {
	id, err := pgUUID(resumeID)
	if err != nil {
		return storage.Wrap(storage.SectionExperience, "insert", err)
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{id, r.Title, r.CompanyName, r.Location, r.StartDate, r.EndDate, r.IsCurrent, r.Description, r.DisplayOrder})
	}
	return s.replaceSection(ctx, storage.SectionExperience, resumeID, experienceColumns, values)
}

func (s *Store) ReplaceEducations(ctx context.Context, resumeID string, rows []storage.EducationRow) error {
	id, err := pgUUID(resumeID)
	if err != nil {
		return storage.Wrap(storage.SectionEducation, "insert", err)
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{id, r.Institution, r.Degree, r.FieldOfStudy, r.StartDate, r.EndDate, r.GPA, r.Description, r.DisplayOrder})
	}
	return s.replaceSection(ctx, storage.SectionEducation, resumeID, educationColumns, values)
}

func (s *Store) ReplaceSkills(ctx context.Context, resumeID string, rows []storage.SkillRow) error {
	id, err := pgUUID(resumeID)
	if err != nil {
		return storage.Wrap(storage.SectionSkills, "insert", err)
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{id, r.Name, r.Level, r.Category, r.DisplayOrder})
	}
	return s.replaceSection(ctx, storage.SectionSkills, resumeID, skillColumns, values)
}

func (s *Store) ReplaceProjects(ctx context.Context, resumeID string, rows []storage.ProjectRow) error {
	id, err := pgUUID(resumeID)
	if err != nil {
		return storage.Wrap(storage.SectionProjects, "insert", err)
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		tech := r.Technologies
		if tech == nil {
			tech = []string{}
		}
		values = append(values, []any{id, r.Name, r.Description, tech, r.URL, r.StartDate, r.EndDate, r.DisplayOrder})
	}
	return s.replaceSection(ctx, storage.SectionProjects, resumeID, projectColumns, values)
}

func (s *Store) ReplaceCertificates(ctx context.Context, resumeID string, rows []storage.CertificateRow) error {
	id, err := pgUUID(resumeID)
	if err != nil {
		return storage.Wrap(storage.SectionCertificates, "insert", err)
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{id, r.Name, r.Issuer, r.IssueDate, r.ExpiryDate, r.CredentialID, r.URL, r.DisplayOrder})
	}
	return s.replaceSection(ctx, storage.SectionCertificates, resumeID, certificateColumns, values)
}

func (s *Store) ReplaceLanguages(ctx context.Context, resumeID string, rows []storage.LanguageRow) error {
	id, err := pgUUID(resumeID)
	if err != nil {
		return storage.Wrap(storage.SectionLanguages, "insert", err)
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{id, r.Language, r.Proficiency, r.DisplayOrder})
	}
	return s.replaceSection(ctx, storage.SectionLanguages, resumeID, languageColumns, values)
}

func (s *Store) ReplaceSocialLinks(ctx context.Context, resumeID string, rows []storage.SocialLinkRow) error {
	id, err := pgUUID(resumeID)
	if err != nil {
		return storage.Wrap(storage.SectionSocialLinks, "insert", err)
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{id, r.Platform, r.URL, r.DisplayOrder})
	}
	return s.replaceSection(ctx, storage.SectionSocialLinks, resumeID, socialLinkColumns, values)
}

func (s *Store) ReplaceInterests(ctx context.Context, resumeID string, rows []storage.InterestRow) error {
	id, err := pgUUID(resumeID)
	if err != nil {
		return storage.Wrap(storage.SectionInterests, "insert", err)
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{id, r.Name, r.DisplayOrder})
	}
	return s.replaceSection(ctx, storage.SectionInterests, resumeID, interestColumns, values)
}

func (s *Store) ListExperiences(ctx context.Context, resumeID string) ([]storage.ExperienceRow, error) {
	return listSection[storage.ExperienceRow](ctx, s.db, storage.SectionExperience, experienceColumns, resumeID)
}

func (s *Store) ListEducations(ctx context.Context, resumeID string) ([]storage.EducationRow, error) {
	return listSection[storage.EducationRow](ctx, s.db, storage.SectionEducation, educationColumns, resumeID)
}

func (s *Store) ListSkills(ctx context.Context, resumeID string) ([]storage.SkillRow, error) {
	return listSection[storage.SkillRow](ctx, s.db, storage.SectionSkills, skillColumns, resumeID)
}

func (s *Store) ListProjects(ctx context.Context, resumeID string) ([]storage.ProjectRow, error) {
	return listSection[storage.ProjectRow](ctx, s.db, storage.SectionProjects, projectColumns, resumeID)
}

func (s *Store) ListCertificates(ctx context.Context, resumeID string) ([]storage.CertificateRow, error) {
	return listSection[storage.CertificateRow](ctx, s.db, storage.SectionCertificates, certificateColumns, resumeID)
}

func (s *Store) ListLanguages(ctx context.Context, resumeID string) ([]storage.LanguageRow, error) {
	return listSection[storage.LanguageRow](ctx, s.db, storage.SectionLanguages, languageColumns, resumeID)
}

func (s *Store) ListSocialLinks(ctx context.Context, resumeID string) ([]storage.SocialLinkRow, error) {
	return listSection[storage.SocialLinkRow](ctx, s.db, storage.SectionSocialLinks, socialLinkColumns, resumeID)
}

func (s *Store) ListInterests(ctx context.Context, resumeID string) ([]storage.InterestRow, error) {
	return listSection[storage.InterestRow](ctx, s.db, storage.SectionInterests, interestColumns, resumeID)
}

// UpsertPersonalDetails updates the row of the resume when one exists and
// inserts it otherwise.
func (s *Store) UpsertPersonalDetails(ctx context.Context, row storage.PersonalDetailsRow) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM personal_details WHERE resume_id = $1)`, row.ResumeID).Scan(&exists)
	if err != nil {
		return storage.Wrap(storage.SectionPersonal, "select", err)
	}

	if exists {
		_, err = s.db.Exec(ctx, `UPDATE personal_details SET
	full_name = $2, first_name = $3, last_name = $4, title = $5, email = $6,
	phone = $7, location = $8, website = $9, summary = $10
WHERE resume_id = $1`,
			row.ResumeID, row.FullName, row.FirstName, row.LastName, row.Title, row.Email,
			row.Phone, row.Location, row.Website, row.Summary)
		return storage.Wrap(storage.SectionPersonal, "update", err)
	}

	_, err = s.db.Exec(ctx, `INSERT INTO personal_details
	(resume_id, full_name, first_name, last_name, title, email, phone, location, website, summary)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.ResumeID, row.FullName, row.FirstName, row.LastName, row.Title, row.Email,
		row.Phone, row.Location, row.Website, row.Summary)
	return storage.Wrap(storage.SectionPersonal, "insert", err)
}

// GetPersonalDetails returns storage.ErrNotFound when the resume has no row.
func (s *Store) GetPersonalDetails(ctx context.Context, resumeID string) (*storage.PersonalDetailsRow, error) {
	rows, err := s.db.Query(ctx, `SELECT resume_id::text AS resume_id, full_name, first_name, last_name, title,
	email, phone, location, website, summary
FROM personal_details WHERE resume_id = $1`, resumeID)
	if err != nil {
		return nil, storage.Wrap(storage.SectionPersonal, "select", err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[storage.PersonalDetailsRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, storage.Wrap(storage.SectionPersonal, "scan", err)
	}

	return &row, nil
}
