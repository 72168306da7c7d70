package model

import "strings"

// EmbeddingDimension is the only vector length ever persisted.
const EmbeddingDimension = 768

// Vector is a resume or job embedding.
type Vector []float32

type SkillProficiency string

const (
	SkillBeginner     SkillProficiency = "beginner"
	SkillIntermediate SkillProficiency = "intermediate"
	SkillAdvanced     SkillProficiency = "advanced"
	SkillExpert       SkillProficiency = "expert"
)

// IsTop reports whether the skill belongs to the top-skills line of the embedding text.
func (p SkillProficiency) IsTop() bool {
	return p == SkillExpert || p == SkillAdvanced
}

// LanguageProficiency is the UI-facing language vocabulary.
type LanguageProficiency string

const (
	LanguageElementary   LanguageProficiency = "elementary"
	LanguageLimited      LanguageProficiency = "limited"
	LanguageProfessional LanguageProficiency = "professional"
	LanguageNative       LanguageProficiency = "native"
)

// StoredLanguageLevel is the storage-facing language vocabulary.
type StoredLanguageLevel string

const (
	StoredBasic        StoredLanguageLevel = "basic"
	StoredIntermediate StoredLanguageLevel = "intermediate"
	StoredFluent       StoredLanguageLevel = "fluent"
	StoredNative       StoredLanguageLevel = "native"
)

// DefaultLanguageProficiency replaces any storage value missing from the table.
const DefaultLanguageProficiency = LanguageLimited

var languageToStorage = map[LanguageProficiency]StoredLanguageLevel{
	LanguageElementary:   StoredBasic,
	LanguageLimited:      StoredIntermediate,
	LanguageProfessional: StoredFluent,
	LanguageNative:       StoredNative,
}

var languageFromStorage = map[StoredLanguageLevel]LanguageProficiency{
	StoredBasic:        LanguageElementary,
	StoredIntermediate: LanguageLimited,
	StoredFluent:       LanguageProfessional,
	StoredNative:       LanguageNative,
}

// ToStorage translates a UI proficiency. Unknown values map to the storage image
// of DefaultLanguageProficiency so that a round trip lands on the default.
func (p LanguageProficiency) ToStorage() StoredLanguageLevel {
	if v, ok := languageToStorage[LanguageProficiency(strings.ToLower(strings.TrimSpace(string(p))))]; ok {
		return v
	}
	return languageToStorage[DefaultLanguageProficiency]
}

// ToUI translates a storage level, falling back to DefaultLanguageProficiency.
func (l StoredLanguageLevel) ToUI() LanguageProficiency {
	if v, ok := languageFromStorage[StoredLanguageLevel(strings.ToLower(strings.TrimSpace(string(l))))]; ok {
		return v
	}
	return DefaultLanguageProficiency
}
