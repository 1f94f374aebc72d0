package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/seclens/auditgate/internal/ai"
	"github.com/seclens/auditgate/internal/model"
	appErr "github.com/seclens/auditgate/internal/pkg/errors"
	"github.com/seclens/auditgate/internal/repo"
)

const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// DocStore is the vector-store boundary used by ingestion, retrieval and
// admin operations. A nil allowed slice on Query disables the sensitivity
// filter.
type DocStore interface {
	Add(ctx context.Context, texts []string, metas []model.ChunkMeta, ids []string) error
	Query(ctx context.Context, text string, k int, allowed []model.Sensitivity) (*model.RetrievalResult, error)
	Reset(ctx context.Context) error
}

// DocumentStore indexes chunks by embedding them and persisting vectors plus
// metadata in the chunk repository.
type DocumentStore struct {
	embedder ai.IEmbedder
	chunks   *repo.ChunkRepo
}

func NewDocumentStore(embedder ai.IEmbedder, chunks *repo.ChunkRepo) *DocumentStore {
	return &DocumentStore{embedder: embedder, chunks: chunks}
}

func (s *DocumentStore) Add(ctx context.Context, texts []string, metas []model.ChunkMeta, ids []string) error {
	if len(texts) != len(metas) || len(texts) != len(ids) {
		return fmt.Errorf("%w: texts/metas/ids must have equal length (%d/%d/%d)",
			appErr.ErrInvalid, len(texts), len(metas), len(ids))
	}
	if len(texts) == 0 {
		return nil
	}
	logger := logutil.GetLogger(ctx).With(zap.Int("chunks", len(texts)), zap.String("source", metas[0].Source))

	now := time.Now().UnixMilli()
	chunks := make([]model.DocumentChunk, 0, len(texts))
	embeddings := make([][]float32, 0, len(texts))
	for i, text := range texts {
		emb, err := s.embedder.Embed(ctx, text, taskTypeDocument)
		if err != nil {
			logger.Error("failed to embed chunk", zap.Int("index", i), zap.Error(err))
			return fmt.Errorf("%w: embed chunk: %v", appErr.ErrModel, err)
		}
		chunks = append(chunks, model.DocumentChunk{
			ID:          ids[i],
			Source:      metas[i].Source,
			Sensitivity: metas[i].Sensitivity,
			Content:     text,
			Ctime:       now,
		})
		embeddings = append(embeddings, emb)
	}
	if err := s.chunks.InsertBatch(ctx, chunks, embeddings); err != nil {
		logger.Error("failed to persist chunks", zap.Error(err))
		return err
	}
	logger.Info("chunks indexed")
	return nil
}

func (s *DocumentStore) Query(ctx context.Context, text string, k int, allowed []model.Sensitivity) (*model.RetrievalResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", appErr.ErrInvalid, k)
	}
	emb, err := s.embedder.Embed(ctx, text, taskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", appErr.ErrModel, err)
	}
	matches, err := s.chunks.Search(ctx, emb, k, allowed)
	if err != nil {
		return nil, err
	}
	return &model.RetrievalResult{Chunks: matches}, nil
}

func (s *DocumentStore) Reset(ctx context.Context) error {
	return s.chunks.Reset(ctx)
}
