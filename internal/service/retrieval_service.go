package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/seclens/auditgate/internal/access"
	"github.com/seclens/auditgate/internal/model"
)

// RetrievalService performs the sensitivity-filtered search. When the
// filtered query comes back empty it runs one unrestricted probe to tell
// "nothing matches" apart from "matches exist but are blocked". The probe
// only ever discloses existence; blocked content is never returned and never
// logged (the audit detail is the question, not retrieved text).
type RetrievalService struct {
	store  DocStore
	audit  *AuditService
	topK   int
	probeK int
}

func NewRetrievalService(store DocStore, audit *AuditService, topK, probeK int) *RetrievalService {
	if topK < 1 {
		topK = 3
	}
	if probeK < 1 {
		probeK = 1
	}
	return &RetrievalService{store: store, audit: audit, topK: topK, probeK: probeK}
}

// Search resolves to one of three terminal outcomes: StatusSuccess with a
// result, StatusDenied, or StatusNoData. A storage or embedding failure on
// either query records a Failure audit event before propagating the error.
func (s *RetrievalService) Search(ctx context.Context, actor string, role access.Role, question string) (*model.RetrievalResult, model.SearchStatus, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("actor", actor), zap.String("role", string(role)))

	allowed, err := access.PermittedLabels(role)
	if err != nil {
		return nil, "", err
	}

	result, err := s.store.Query(ctx, question, s.topK, allowed)
	if err != nil {
		logger.Error("filtered query failed", zap.Error(err))
		s.audit.Record(ctx, actor, string(role), model.ActionSearch, question, model.OutcomeFailure)
		return nil, "", err
	}
	if !result.Empty() {
		logger.Info("search allowed", zap.Int("matches", len(result.Chunks)))
		s.audit.Record(ctx, actor, string(role), model.ActionSearch, question, model.OutcomeAllowed)
		return result, model.StatusSuccess, nil
	}

	probe, err := s.store.Query(ctx, question, s.probeK, nil)
	if err != nil {
		logger.Error("probe query failed", zap.Error(err))
		s.audit.Record(ctx, actor, string(role), model.ActionSearch, question, model.OutcomeFailure)
		return nil, "", err
	}
	if !probe.Empty() {
		logger.Warn("search denied, matching data above clearance")
		s.audit.Record(ctx, actor, string(role), model.ActionSearch, question, model.OutcomeDenied)
		return nil, model.StatusDenied, nil
	}

	logger.Info("search found no data")
	s.audit.Record(ctx, actor, string(role), model.ActionSearch, question, model.OutcomeNoData)
	return nil, model.StatusNoData, nil
}
