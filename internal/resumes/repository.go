// Package resumes saves and fetches resume aggregates section by section and
// keeps their embeddings current.
package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/embedding"
	"github.com/spigell/cv-sync/internal/logger"
	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

// Generator produces validated resume vectors.
type Generator interface {
	Generate(ctx context.Context, text string) (model.Vector, error)
}

// Notifier is told about every completed save.
type Notifier interface {
	ResumeSaved(ctx context.Context, event SavedEvent) error
}

// SavedEvent describes a completed save, including the sections that failed.
type SavedEvent struct {
	ResumeID       string    `json:"resumeId"`
	UserID         string    `json:"userId,omitempty"`
	FailedSections []string  `json:"failedSections,omitempty"`
	Embedded       bool      `json:"embedded"`
	SavedAt        time.Time `json:"savedAt"`
}

// Options selects the write policy.
type Options struct {
	// Atomic runs the metadata and all sections in one transaction and fails
	// the whole save on the first section error.
	Atomic bool
	// SkipUnchangedEmbedding keeps the stored vector when the change signature
	// of the saved resume matches the one it was generated from.
	SkipUnchangedEmbedding bool
	Notifier               Notifier
}

// SaveResult reports a save. Success is true whenever the metadata row was
// written, even if sections or the embedding failed.
type SaveResult struct {
	Success          bool
	ResumeID         string
	Failures         map[string]error
	EmbeddingErr     error
	EmbeddingSkipped bool
}

// FailedSections lists the failed sections in save order.
func (r *SaveResult) FailedSections() []string {
	if r == nil {
		return nil
	}
	var failed []string
	for _, section := range storage.Sections {
		if _, ok := r.Failures[section]; ok {
			failed = append(failed, section)
		}
	}
	return failed
}

type Repository struct {
	store     storage.ResumeStore
	generator Generator
	opts      Options
	logger    *zap.Logger
}

func New(store storage.ResumeStore, generator Generator, log *zap.Logger, opts Options) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{store: store, generator: generator, opts: opts, logger: log}
}

// Save writes the metadata row and then every section in order. Only a
// metadata failure is returned as an error, unless Options.Atomic is set.
func (r *Repository) Save(ctx context.Context, resume *model.Resume) (*SaveResult, error) {
	if r == nil || r.store == nil {
		return nil, errors.New("resume repository is not initialized")
	}
	if resume == nil {
		return nil, errors.New("resume is required")
	}

	var (
		result  *SaveResult
		created bool
		err     error
	)

	if r.opts.Atomic {
		result, created, err = r.saveAtomic(ctx, resume)
	} else {
		result, created, err = r.saveSections(ctx, r.store, resume, false)
	}
	if err != nil {
		return nil, err
	}

	r.embed(ctx, resume, result, created)
	r.notify(ctx, resume, result)

	return result, nil
}

func (r *Repository) saveAtomic(ctx context.Context, resume *model.Resume) (*SaveResult, bool, error) {
	var (
		result  *SaveResult
		created bool
	)

	err := r.store.InTx(ctx, func(tx storage.ResumeStore) error {
		var err error
		result, created, err = r.saveSections(ctx, tx, resume, true)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("atomic save: %w", err)
	}

	return result, created, nil
}

// saveSections writes the metadata row and the sections against store. With
// failFast the first section error aborts, otherwise it is recorded.
func (r *Repository) saveSections(ctx context.Context, store storage.ResumeStore, resume *model.Resume, failFast bool) (*SaveResult, bool, error) {
	row := storage.ResumeRowOf(resume)
	created := row.ID == ""

	if created {
		id, err := store.InsertResume(ctx, row)
		if err != nil {
			return nil, false, fmt.Errorf("save resume metadata: %w", err)
		}
		row.ID = id
	} else if err := store.UpdateResume(ctx, row); err != nil {
		return nil, false, fmt.Errorf("save resume metadata: %w", err)
	}

	log := logger.ForResume(r.logger, row.ID)
	result := &SaveResult{Success: true, ResumeID: row.ID, Failures: make(map[string]error)}

	for _, step := range sectionSteps(resume) {
		if err := step.save(ctx, store, row.ID); err != nil {
			err = storage.Wrap(step.section, "save", err)
			if failFast {
				return nil, false, err
			}
			result.Failures[step.section] = err
			logger.ForSection(r.logger, row.ID, step.section).Warn("section save failed", zap.Error(err))
			continue
		}
		logger.ForSection(r.logger, row.ID, step.section).Debug("section saved")
	}

	if len(result.Failures) > 0 {
		log.Warn("resume saved with failed sections", zap.Strings("sections", result.FailedSections()))
	} else {
		log.Info("resume saved", zap.Bool("created", created))
	}

	return result, created, nil
}

// embed regenerates the vector of the saved resume. Failures are recorded on
// result and never change the save outcome.
func (r *Repository) embed(ctx context.Context, resume *model.Resume, result *SaveResult, created bool) {
	log := logger.ForResume(r.logger, result.ResumeID)

	if r.generator == nil {
		result.EmbeddingSkipped = true
		return
	}

	sig := embedding.SignatureOf(resume)
	if r.opts.SkipUnchangedEmbedding && !created {
		stale, err := r.isStale(ctx, result.ResumeID, sig)
		if err != nil {
			log.Warn("unable to compare change signature", zap.Error(err))
		} else if !stale {
			log.Debug("embedding is current, skipping regeneration")
			result.EmbeddingSkipped = true
			return
		}
	}

	if err := r.storeEmbedding(ctx, result.ResumeID, resume, sig); err != nil {
		result.EmbeddingErr = err
		log.Warn("embedding regeneration failed", zap.Error(err))
	}
}

func (r *Repository) storeEmbedding(ctx context.Context, id string, resume *model.Resume, sig embedding.Signature) error {
	vector, err := r.generator.Generate(ctx, embedding.FormatResume(resume))
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("encode change signature: %w", err)
	}

	if err := r.store.SetResumeEmbedding(ctx, id, vector, encoded); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	return nil
}

// isStale reports whether the stored vector is missing or was generated from
// a resume with a different change signature.
func (r *Repository) isStale(ctx context.Context, id string, current embedding.Signature) (bool, error) {
	row, err := r.store.GetResume(ctx, id)
	if err != nil {
		return false, err
	}
	if len(row.Embedding) == 0 || len(row.Signature) == 0 {
		return true, nil
	}

	var previous embedding.Signature
	if err := json.Unmarshal(row.Signature, &previous); err != nil {
		return true, nil
	}

	return embedding.ShouldRegenerate(previous, current), nil
}

func (r *Repository) notify(ctx context.Context, resume *model.Resume, result *SaveResult) {
	if r.opts.Notifier == nil {
		return
	}

	event := SavedEvent{
		ResumeID:       result.ResumeID,
		UserID:         strings.TrimSpace(resume.UserID),
		FailedSections: result.FailedSections(),
		Embedded:       result.EmbeddingErr == nil && !result.EmbeddingSkipped,
		SavedAt:        time.Now().UTC(),
	}

	if err := r.opts.Notifier.ResumeSaved(ctx, event); err != nil {
		logger.ForResume(r.logger, result.ResumeID).Warn("resume saved notification failed", zap.Error(err))
	}
}

// ListForUser returns the dashboard projection of a user's resumes.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]model.ResumeSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	summaries, err := r.store.ListResumes(ctx, userID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []model.ResumeSummary{}
	}
	return summaries, nil
}

// ResumeIDs lists every stored resume.
func (r *Repository) ResumeIDs(ctx context.Context) ([]string, error) {
	return r.store.ListResumeIDs(ctx)
}

// RefreshEmbedding regenerates the vector of a stored resume when it is
// missing or stale. It reports whether a new vector was stored.
func (r *Repository) RefreshEmbedding(ctx context.Context, id string) (bool, error) {
	if r.generator == nil {
		return false, errors.New("embedding generator is not configured")
	}

	resume, err := r.Fetch(ctx, id)
	if err != nil {
		return false, err
	}
	if resume == nil {
		return false, fmt.Errorf("resume %s: %w", id, storage.ErrNotFound)
	}

	sig := embedding.SignatureOf(resume)
	stale, err := r.isStale(ctx, id, sig)
	if err != nil {
		return false, err
	}
	if !stale {
		return false, nil
	}

	if err := r.storeEmbedding(ctx, id, resume, sig); err != nil {
		return false, err
	}

	logger.ForResume(r.logger, id).Info("embedding refreshed")
	return true, nil
}
