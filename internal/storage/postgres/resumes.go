package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

func (s *Store) InsertResume(ctx context.Context, row storage.ResumeRow) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `INSERT INTO resumes (user_id, title, template_id, is_primary)
VALUES ($1, $2, $3, $4)
RETURNING id::text`, row.UserID, row.Title, row.TemplateID, row.IsPrimary).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert resume: %w", err)
	}
	return id, nil
}

// UpdateResume keeps the stored owner when row.UserID is empty.
func (s *Store) UpdateResume(ctx context.Context, row storage.ResumeRow) error {
	tag, err := s.db.Exec(ctx, `UPDATE resumes SET
	user_id = COALESCE(NULLIF($2, ''), user_id),
	title = $3,
	template_id = $4,
	is_primary = $5,
	updated_at = now()
WHERE id = $1`, row.ID, row.UserID, row.Title, row.TemplateID, row.IsPrimary)
	if err != nil {
		return fmt.Errorf("update resume %s: %w", row.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update resume %s: %w", row.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) GetResume(ctx context.Context, id string) (*storage.ResumeRow, error) {
	var (
		row       storage.ResumeRow
		embedding *pgvector.Vector
	)

	err := s.db.QueryRow(ctx, `SELECT id::text, user_id, title, template_id, is_primary,
	embedding, embedding_signature, created_at, updated_at
FROM resumes WHERE id = $1`, id).Scan(
		&row.ID, &row.UserID, &row.Title, &row.TemplateID, &row.IsPrimary,
		&embedding, &row.Signature, &row.CreatedAt, &row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get resume %s: %w", id, err)
	}

	if embedding != nil {
		row.Embedding = model.Vector(embedding.Slice())
	}

	return &row, nil
}

// ListResumes returns the dashboard projection of a user's resumes, newest first.
func (s *Store) ListResumes(ctx context.Context, userID string) ([]model.ResumeSummary, error) {
	rows, err := s.db.Query(ctx, `SELECT id::text, title, template_id, is_primary,
	embedding IS NOT NULL, created_at, updated_at
FROM resumes WHERE user_id = $1
ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ResumeSummary, error) {
		var r model.ResumeSummary
		err := row.Scan(&r.ID, &r.Title, &r.TemplateID, &r.IsPrimary, &r.HasEmbedding, &r.CreatedAt, &r.UpdatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan resumes: %w", err)
	}

	return summaries, nil
}

func (s *Store) ListResumeIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT id::text FROM resumes ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("list resume ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan resume ids: %w", err)
	}
	return ids, nil
}

// SetResumeEmbedding stores the vector with the signature it was generated
// from. Vectors of the wrong length are rejected before reaching the database.
func (s *Store) SetResumeEmbedding(ctx context.Context, id string, vector model.Vector, signature []byte) error {
	if len(vector) != model.EmbeddingDimension {
		return fmt.Errorf("store resume embedding: expected %d values, got %d", model.EmbeddingDimension, len(vector))
	}

	tag, err := s.db.Exec(ctx, `UPDATE resumes SET embedding = $2, embedding_signature = $3 WHERE id = $1`,
		id, pgvector.NewVector(vector), signature)
	if err != nil {
		return fmt.Errorf("store resume embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store resume embedding %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
