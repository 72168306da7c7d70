package embedding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/cv-sync/internal/model"
)

const (
	LabelTopSkills         = "[TOP SKILLS]"
	LabelExperience        = "[EXPERIENCE]"
	LabelCoreRequirements  = "[CORE REQUIREMENTS]"
	LabelAdditionalContext = "[ADDITIONAL CONTEXT]"
	LabelResponsibilities  = "[RESPONSIBILITIES]"

	presentLabel = "Present"
)

// section accumulates the non-empty lines of one labelled block.
type section struct {
	label string
	lines []string
}

func (s *section) add(line string) {
	if line = strings.TrimSpace(line); line != "" {
		s.lines = append(s.lines, line)
	}
}

func render(sections ...*section) string {
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		if len(s.lines) == 0 {
			continue
		}
		blocks = append(blocks, s.label+"\n"+strings.Join(s.lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatResume serializes a resume into the document that is embedded.
// The output depends only on the input, so unchanged resumes produce identical text.
func FormatResume(r *model.Resume) string {
	if r == nil {
		return ""
	}

	top := &section{label: LabelTopSkills}
	topNames := make([]string, 0, len(r.Skills))
	allNames := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		allNames = append(allNames, name)
		if s.Proficiency.IsTop() {
			topNames = append(topNames, name)
		}
	}
	top.add(strings.Join(topNames, ", "))
	top.add(strings.Join(allNames, ", "))

	exp := &section{label: LabelExperience}
	for _, e := range r.Experiences {
		exp.add(formatExperience(e))
	}

	core := &section{label: LabelCoreRequirements}
	core.add(r.Personal.Summary)
	core.add(r.Personal.Title)
	educations := make([]string, 0, len(r.Educations))
	for _, e := range r.Educations {
		if line := formatEducation(e); line != "" {
			educations = append(educations, line)
		}
	}
	core.add(strings.Join(educations, "; "))
	languages := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		languages = append(languages, fmt.Sprintf("%s (%s)", name, l.Proficiency))
	}
	core.add(strings.Join(languages, ", "))

	extra := &section{label: LabelAdditionalContext}
	for _, p := range r.Projects {
		extra.add(formatProject(p))
	}
	for _, c := range r.Certificates {
		extra.add(joinNonEmpty(" by ", c.Name, c.Issuer))
	}
	interests := make([]string, 0, len(r.Interests))
	for _, i := range r.Interests {
		if name := strings.TrimSpace(i.Name); name != "" {
			interests = append(interests, name)
		}
	}
	extra.add(strings.Join(interests, ", "))

	return render(top, exp, core, extra)
}

// FormatJob mirrors FormatResume for postings.
func FormatJob(j *model.Job) string {
	if j == nil {
		return ""
	}

	top := &section{label: LabelTopSkills}
	top.add(labelled("Must have", strings.Join(trimAll(j.MustHaveSkills), ", ")))
	top.add(labelled("Nice to have", strings.Join(trimAll(j.NiceToHaveSkills), ", ")))

	resp := &section{label: LabelResponsibilities}
	for _, r := range j.Responsibilities {
		resp.add(r)
	}

	core := &section{label: LabelCoreRequirements}
	core.add(j.Title)
	core.add(j.Description)
	core.add(labelled("Experience level", j.ExperienceLevel))
	core.add(labelled("Years of experience", formatYears(j.YearsExperienceMin, j.YearsExperienceMax)))
	core.add(labelled("Education", j.EducationLevel))
	for _, q := range j.Qualifications {
		core.add(q)
	}

	extra := &section{label: LabelAdditionalContext}
	extra.add(labelled("Company", j.Company))
	extra.add(labelled("Location", j.Location))
	extra.add(labelled("Employment type", j.EmploymentType))
	extra.add(labelled("Remote", j.RemoteType))
	extra.add(labelled("Company size", j.CompanySize))
	extra.add(labelled("Industry", j.Industry))
	extra.add(labelled("Benefits", strings.Join(trimAll(j.Benefits), ", ")))

	return render(top, resp, core, extra)
}

func formatExperience(e model.Experience) string {
	position := strings.TrimSpace(e.Position)
	company := strings.TrimSpace(e.Company)
	if position == "" && company == "" {
		return ""
	}

	end := strings.TrimSpace(e.EndDate)
	if e.Current || end == "" {
		end = presentLabel
	}

	line := fmt.Sprintf("%s at %s (%s - %s)", position, company, strings.TrimSpace(e.StartDate), end)
	if desc := strings.TrimSpace(e.Description); desc != "" {
		line += ": " + desc
	}
	return line
}

func formatEducation(e model.Education) string {
	degree := strings.TrimSpace(e.Degree)
	if field := strings.TrimSpace(e.FieldOfStudy); field != "" {
		degree = joinNonEmpty(" in ", degree, field)
	}
	return joinNonEmpty(" from ", degree, e.Institution)
}

func formatProject(p model.Project) string {
	line := joinNonEmpty(": ", p.Name, p.Description)
	if line == "" {
		return ""
	}
	if tech := trimAll(p.Technologies); len(tech) > 0 {
		line += fmt.Sprintf(" (Tech: %s)", strings.Join(tech, ", "))
	}
	return line
}

func formatYears(lower, upper *int) string {
	switch {
	case lower != nil && upper != nil:
		return strconv.Itoa(*lower) + "-" + strconv.Itoa(*upper)
	case lower != nil:
		return strconv.Itoa(*lower) + "+"
	case upper != nil:
		return "up to " + strconv.Itoa(*upper)
	default:
		return ""
	}
}

func labelled(label, value string) string {
	if value = strings.TrimSpace(value); value == "" {
		return ""
	}
	return label + ": " + value
}

// joinNonEmpty joins the trimmed parts that are not blank.
func joinNonEmpty(sep string, parts ...string) string {
	kept := trimAll(parts)
	return strings.Join(kept, sep)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
