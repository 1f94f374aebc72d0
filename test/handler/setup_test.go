package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/seclens/auditgate/internal/ai"
	"github.com/seclens/auditgate/internal/chunker"
	"github.com/seclens/auditgate/internal/handler"
	"github.com/seclens/auditgate/internal/middleware"
	"github.com/seclens/auditgate/internal/model"
	"github.com/seclens/auditgate/internal/service"
)

// fakeDocStore is an in-memory DocStore with insertion-ordered matching.
type fakeDocStore struct {
	chunks []model.DocumentChunk
}

func (f *fakeDocStore) Add(ctx context.Context, texts []string, metas []model.ChunkMeta, ids []string) error {
	for i := range texts {
		f.chunks = append(f.chunks, model.DocumentChunk{
			ID:          ids[i],
			Source:      metas[i].Source,
			Sensitivity: metas[i].Sensitivity,
			Content:     texts[i],
		})
	}
	return nil
}

func (f *fakeDocStore) Query(ctx context.Context, text string, k int, allowed []model.Sensitivity) (*model.RetrievalResult, error) {
	permitted := func(s model.Sensitivity) bool {
		if allowed == nil {
			return true
		}
		for _, a := range allowed {
			if a == s {
				return true
			}
		}
		return false
	}
	var result model.RetrievalResult
	for _, c := range f.chunks {
		if !permitted(c.Sensitivity) {
			continue
		}
		result.Chunks = append(result.Chunks, model.ScoredChunk{DocumentChunk: c, Score: 1})
		if len(result.Chunks) == k {
			break
		}
	}
	return &result, nil
}

func (f *fakeDocStore) Reset(ctx context.Context) error {
	f.chunks = nil
	return nil
}

// fakeGenerator returns a canned answer without touching any model backend.
type fakeGenerator struct {
	answer string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.answer, nil
}

func (f *fakeGenerator) GenerateStream(ctx context.Context, prompt string, onDelta ai.DeltaFunc) error {
	onDelta(f.answer)
	return nil
}

type memTrail struct {
	events []model.AuditEvent
}

func (m *memTrail) Append(ctx context.Context, event *model.AuditEvent) error {
	e := *event
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, e)
	return nil
}

func (m *memTrail) List(ctx context.Context, limit uint) ([]model.AuditEvent, error) {
	var out []model.AuditEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		out = append(out, m.events[i])
		if uint(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (m *memTrail) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	kept := m.events[:0]
	var removed int64
	for _, e := range m.events {
		if e.Ts < cutoff {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return removed, nil
}

type testEnv struct {
	router http.Handler
	store  *fakeDocStore
	trail  *memTrail
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &fakeDocStore{}
	trail := &memTrail{}

	splitter, err := chunker.New(100, 20)
	require.NoError(t, err)

	auditService := service.NewAuditService(trail)
	ingestService := service.NewIngestService(splitter, store, auditService, nil)
	retrievalService := service.NewRetrievalService(store, auditService, 3, 1)
	answerService := service.NewAnswerService(&fakeGenerator{answer: "the finding is overdue invoices"}, 0)
	adminService := service.NewAdminService(store, auditService)

	deps := handler.RouterDeps{
		Documents: handler.NewDocumentHandler(ingestService),
		Query:     handler.NewQueryHandler(retrievalService, answerService),
		Audit:     handler.NewAuditHandler(auditService),
		Admin:     handler.NewAdminHandler(adminService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return &testEnv{router: engine, store: store, trail: trail}
}
