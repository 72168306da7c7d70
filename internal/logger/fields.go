package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the embedding provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the embedding model identifier.
	FieldModel = "ai_model"
	// FieldResumeID identifies the resume aggregate a log entry belongs to.
	FieldResumeID = "resume_id"
	// FieldJobID identifies the job posting a log entry belongs to.
	FieldJobID = "job_id"
	// FieldSection names the resume section being written or read.
	FieldSection = "section"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a
// no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the provider and model fields, skipping empty values.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider and model fields to the logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// ForResume scopes a logger to one resume aggregate.
func ForResume(logger *zap.Logger, resumeID string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldResumeID, Value: resumeID})...)
}

// ForSection scopes a logger to one section of a resume.
func ForSection(logger *zap.Logger, resumeID, section string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldResumeID, Value: resumeID},
		StringField{Key: FieldSection, Value: section},
	)...)
}
