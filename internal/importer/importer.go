// Package importer turns extractor JSON into a resume aggregate.
package importer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/cv-sync/internal/model"
)

//go:embed schema.json
var schema []byte

// defaultTitle is used when neither the document nor the caller names the resume.
const defaultTitle = "Imported resume"

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "schema validation failed: " + strings.Join(e.Problems, "; ")
}

// Options override document fields.
type Options struct {
	UserID string
	Title  string
}

type Importer struct {
	schema *gojsonschema.Schema
}

func New() (*Importer, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile import schema: %w", err)
	}
	return &Importer{schema: compiled}, nil
}

// Parse validates raw and decodes it. The result has no id, so saving it
// creates a new resume.
func (i *Importer) Parse(raw []byte, opts Options) (*model.Resume, error) {
	result, err := i.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("read import document: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, &ValidationError{Problems: problems}
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode import document: %w", err)
	}

	var resume model.Resume
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &resume,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("map import document: %w", err)
	}

	normalize(&resume, opts)
	return &resume, nil
}

func normalize(r *model.Resume, opts Options) {
	r.ID = ""
	if v := strings.TrimSpace(opts.UserID); v != "" {
		r.UserID = v
	}
	if v := strings.TrimSpace(opts.Title); v != "" {
		r.Title = v
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = defaultTitle
	}

	for idx := range r.Experiences {
		r.Experiences[idx].ID = ""
		if r.Experiences[idx].Current {
			r.Experiences[idx].EndDate = ""
		}
	}
	for idx := range r.Educations {
		r.Educations[idx].ID = ""
	}
	for idx := range r.Skills {
		r.Skills[idx].ID = ""
		r.Skills[idx].Name = strings.TrimSpace(r.Skills[idx].Name)
	}
	for idx := range r.Projects {
		r.Projects[idx].ID = ""
	}
	for idx := range r.Certificates {
		r.Certificates[idx].ID = ""
	}
	for idx := range r.Languages {
		r.Languages[idx].ID = ""
		if r.Languages[idx].Proficiency == "" {
			r.Languages[idx].Proficiency = model.DefaultLanguageProficiency
		}
	}
	for idx := range r.SocialLinks {
		r.SocialLinks[idx].ID = ""
	}
	for idx := range r.Interests {
		r.Interests[idx].ID = ""
	}
}
