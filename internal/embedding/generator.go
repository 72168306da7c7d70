package embedding

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/logger"
	"github.com/spigell/cv-sync/internal/model"
)

const defaultMaxLogLength = 200

// Embedder is the external model call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
	Provider() string
}

// Cache stores vectors by content hash.
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Put(ctx context.Context, key string, vector []float32) error
}

// DimensionError is returned when the model output has the wrong length.
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// TransportError wraps any failure of the model call itself.
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("embedding request failed: %v", e.Err)
	}
	return fmt.Sprintf("embedding request to %s failed: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Generator turns documents into validated vectors. It does not retry.
type Generator struct {
	embedder  Embedder
	cache     Cache
	logger    *zap.Logger
	maxLogLen int
}

func NewGenerator(embedder Embedder, cache Cache, log *zap.Logger, maxLogLength int) *Generator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	provider, model := "", ""
	if embedder != nil {
		provider, model = embedder.Provider(), embedder.Model()
	}

	return &Generator{
		embedder:  embedder,
		cache:     cache,
		logger:    logger.WithFields(log, logger.CommonFields(provider, model)...),
		maxLogLen: maxLogLength,
	}
}

// Generate embeds text and checks the vector has exactly model.EmbeddingDimension elements.
func (g *Generator) Generate(ctx context.Context, text string) (model.Vector, error) {
	if g == nil || g.embedder == nil {
		return nil, &TransportError{Err: errors.New("embedding generator is not initialized")}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &TransportError{Model: g.embedder.Model(), Err: errors.New("text must not be empty")}
	}

	key := CacheKey(g.embedder.Model(), text)
	if g.cache != nil {
		cached, ok, err := g.cache.Get(ctx, key)
		switch {
		case err != nil:
			g.logger.Warn("embedding cache lookup failed", zap.Error(err))
		case ok && len(cached) == model.EmbeddingDimension:
			g.logger.Debug("embedding cache hit", zap.String("cache_key", key))
			return model.Vector(cached), nil
		case ok:
			g.logger.Warn("ignoring cached embedding with wrong dimension",
				zap.String("cache_key", key),
				zap.Int("dimension", len(cached)),
			)
		}
	}

	g.logger.Debug("embedding request",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", logger.TruncateForLog(text, g.maxLogLen)),
	)

	values, err := g.embedder.Embed(ctx, text)
	if err != nil {
		return nil, &TransportError{Model: g.embedder.Model(), Err: err}
	}

	if len(values) != model.EmbeddingDimension {
		return nil, &DimensionError{Expected: model.EmbeddingDimension, Got: len(values)}
	}

	if g.cache != nil {
		if err := g.cache.Put(ctx, key, values); err != nil {
			g.logger.Warn("embedding cache store failed", zap.Error(err))
		}
	}

	return model.Vector(values), nil
}

// Model returns the model identifier of the underlying embedder.
func (g *Generator) Model() string {
	if g == nil || g.embedder == nil {
		return ""
	}
	return g.embedder.Model()
}

// Provider names the service behind the embedder.
func (g *Generator) Provider() string {
	if g == nil || g.embedder == nil {
		return ""
	}
	return g.embedder.Provider()
}

// CacheKey addresses a vector by model and document content.
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:%x", model, sum[:])
}
