package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/seclens/auditgate/internal/model"
)

// AuditTrail is the persistence boundary of the audit log.
type AuditTrail interface {
	Append(ctx context.Context, event *model.AuditEvent) error
	List(ctx context.Context, limit uint) ([]model.AuditEvent, error)
	DeleteBefore(ctx context.Context, cutoff int64) (int64, error)
}

const defaultAuditListLimit = 500

// AuditService records immutable events with server-generated timestamps.
// Recording never fails the caller's primary operation: a write failure is
// logged and swallowed.
type AuditService struct {
	trail AuditTrail
}

func NewAuditService(trail AuditTrail) *AuditService {
	return &AuditService{trail: trail}
}

func (s *AuditService) Record(ctx context.Context, actor, role, action, detail, outcome string) {
	event := &model.AuditEvent{
		Ts:      time.Now().UnixMilli(),
		Actor:   actor,
		Role:    role,
		Action:  action,
		Detail:  detail,
		Outcome: outcome,
	}
	if err := s.trail.Append(ctx, event); err != nil {
		logutil.GetLogger(ctx).Error("failed to append audit event",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
}

func (s *AuditService) List(ctx context.Context, limit uint) ([]model.AuditEvent, error) {
	if limit == 0 {
		limit = defaultAuditListLimit
	}
	return s.trail.List(ctx, limit)
}

func (s *AuditService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.trail.DeleteBefore(ctx, cutoff.UnixMilli())
}
