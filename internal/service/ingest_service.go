package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/seclens/auditgate/internal/access"
	"github.com/seclens/auditgate/internal/chunker"
	"github.com/seclens/auditgate/internal/extract"
	"github.com/seclens/auditgate/internal/filestore"
	"github.com/seclens/auditgate/internal/model"
)

// IngestService turns an uploaded file into indexed chunks. The raw bytes
// are archived best effort; archiving never fails an upload.
type IngestService struct {
	chunker *chunker.Chunker
	store   DocStore
	audit   *AuditService
	archive filestore.Store
}

func NewIngestService(c *chunker.Chunker, store DocStore, audit *AuditService, archive filestore.Store) *IngestService {
	return &IngestService{chunker: c, store: store, audit: audit, archive: archive}
}

// Upload extracts, chunks and indexes one document. It returns the number of
// chunks indexed. An extraction failure aborts before anything is written; a
// storage failure aborts the upload and records a Failure event. Success is
// logged only after the chunks are durably stored.
func (s *IngestService) Upload(ctx context.Context, actor string, role access.Role, filename string, data []byte, sensitivity model.Sensitivity) (int, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("file", filename), zap.String("sensitivity", string(sensitivity)))

	text, err := extract.Text(filename, data)
	if err != nil {
		logger.Warn("extraction failed", zap.Error(err))
		return 0, err
	}

	texts := s.chunker.SplitAll(text)
	ids := make([]string, 0, len(texts))
	metas := make([]model.ChunkMeta, 0, len(texts))
	for range texts {
		ids = append(ids, fmt.Sprintf("%s_%s", filename, uuid.NewString()))
		metas = append(metas, model.ChunkMeta{Source: filename, Sensitivity: sensitivity})
	}

	if err := s.store.Add(ctx, texts, metas, ids); err != nil {
		s.audit.Record(ctx, actor, string(role), model.ActionUpload, filename, model.OutcomeFailure)
		return 0, err
	}

	s.archiveRaw(ctx, filename, data)

	s.audit.Record(ctx, actor, string(role), model.ActionUpload, filename, model.OutcomeSuccess)
	logger.Info("document ingested", zap.Int("chunks", len(texts)))
	return len(texts), nil
}

func (s *IngestService) archiveRaw(ctx context.Context, filename string, data []byte) {
	if s.archive == nil {
		return
	}
	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	if err := s.archive.Save(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		logutil.GetLogger(ctx).Warn("failed to archive upload",
			zap.String("file", filename),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
