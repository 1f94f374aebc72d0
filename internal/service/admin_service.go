package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/seclens/auditgate/internal/access"
	"github.com/seclens/auditgate/internal/model"
)

// AdminService hosts destructive maintenance operations.
type AdminService struct {
	store DocStore
	audit *AuditService
}

func NewAdminService(store DocStore, audit *AuditService) *AdminService {
	return &AdminService{store: store, audit: audit}
}

// ResetStore irrecoverably deletes every indexed chunk. Idempotent; the
// audit log itself is left untouched.
func (s *AdminService) ResetStore(ctx context.Context, actor string, role access.Role) error {
	if err := s.store.Reset(ctx); err != nil {
		s.audit.Record(ctx, actor, string(role), model.ActionResetDB, "N/A", model.OutcomeFailure)
		return err
	}
	logutil.GetLogger(ctx).Info("document store reset", zap.String("actor", actor))
	s.audit.Record(ctx, actor, string(role), model.ActionResetDB, "N/A", model.OutcomeSuccess)
	return nil
}
