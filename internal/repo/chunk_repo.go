package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/seclens/auditgate/internal/model"
	appErr "github.com/seclens/auditgate/internal/pkg/errors"
)

// ChunkRepo owns document chunk persistence. Rows are immutable; only Reset
// removes them.
type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertBatch persists chunks with their embeddings in one transaction so a
// reader never observes a torn upload of a single document.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []model.DocumentChunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks vs %d embeddings", appErr.ErrInvalid, len(chunks), len(embeddings))
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin insert: %v", appErr.ErrStorage, err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO document_chunks (id, source, sensitivity, content, embedding, ctime)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, query,
			chunk.ID,
			chunk.Source,
			string(chunk.Sensitivity),
			chunk.Content,
			pgvector.NewVector(embeddings[i]),
			chunk.Ctime,
		); err != nil {
			return fmt.Errorf("%w: insert chunk %s: %v", appErr.ErrStorage, chunk.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit insert: %v", appErr.ErrStorage, err)
	}
	return nil
}

// Search returns at most k chunks ranked by cosine similarity descending.
// A nil allowed slice disables the sensitivity filter.
func (r *ChunkRepo) Search(ctx context.Context, embedding []float32, k int, allowed []model.Sensitivity) ([]model.ScoredChunk, error) {
	vec := pgvector.NewVector(embedding)
	query := `
		SELECT id, source, sensitivity, content, 1 - (embedding <=> ?) AS score
		FROM document_chunks
		ORDER BY embedding <=> ?
		LIMIT ?
	`
	args := []interface{}{vec, vec, k}
	if allowed != nil {
		query = `
			SELECT id, source, sensitivity, content, 1 - (embedding <=> ?) AS score
			FROM document_chunks
			WHERE sensitivity IN (?)
			ORDER BY embedding <=> ?
			LIMIT ?
		`
		var err error
		query, args, err = sqlx.In(query, vec, allowed, vec, k)
		if err != nil {
			return nil, fmt.Errorf("%w: build search: %v", appErr.ErrStorage, err)
		}
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: search chunks: %v", appErr.ErrStorage, err)
	}
	defer rows.Close()

	var results []model.ScoredChunk
	for rows.Next() {
		var item model.ScoredChunk
		var sensitivity string
		if err := rows.Scan(&item.ID, &item.Source, &sensitivity, &item.Content, &item.Score); err != nil {
			return nil, fmt.Errorf("%w: scan chunk: %v", appErr.ErrStorage, err)
		}
		item.Sensitivity = model.Sensitivity(sensitivity)
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate chunks: %v", appErr.ErrStorage, err)
	}
	return results, nil
}

// Reset irrecoverably deletes the whole collection. Resetting an empty store
// is a no-op.
func (r *ChunkRepo) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE TABLE document_chunks`); err != nil {
		return fmt.Errorf("%w: reset chunks: %v", appErr.ErrStorage, err)
	}
	return nil
}

func (r *ChunkRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count chunks: %v", appErr.ErrStorage, err)
	}
	return count, nil
}
