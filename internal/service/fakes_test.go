package service_test

import (
	"context"
	"sort"

	"github.com/seclens/auditgate/internal/model"
)

// fakeStore is an in-memory DocStore. Matching is insertion-ordered rather
// than semantic, which is enough to exercise the filter logic.
type fakeStore struct {
	chunks   []model.DocumentChunk
	queryErr error
	addErr   error
}

func (f *fakeStore) Add(ctx context.Context, texts []string, metas []model.ChunkMeta, ids []string) error {
	if f.addErr != nil {
		return f.addErr
	}
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

func (f *fakeStore) Query(ctx context.Context, text string, k int, allowed []model.Sensitivity) (*model.RetrievalResult, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
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

func (f *fakeStore) Reset(ctx context.Context) error {
	f.chunks = nil
	return nil
}

// memTrail is an in-memory AuditTrail.
type memTrail struct {
	events    []model.AuditEvent
	appendErr error
}

func (m *memTrail) Append(ctx context.Context, event *model.AuditEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	e := *event
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, e)
	return nil
}

func (m *memTrail) List(ctx context.Context, limit uint) ([]model.AuditEvent, error) {
	out := make([]model.AuditEvent, len(m.events))
	copy(out, m.events)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ts != out[j].Ts {
			return out[i].Ts > out[j].Ts
		}
		return out[i].ID > out[j].ID
	})
	if uint(len(out)) > limit {
		out = out[:limit]
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

func (m *memTrail) last() model.AuditEvent {
	return m.events[len(m.events)-1]
}
