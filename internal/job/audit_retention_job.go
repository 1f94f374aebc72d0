package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/seclens/auditgate/internal/service"
)

// AuditRetentionJob prunes audit events older than the retention period.
// A retention of zero days keeps the log forever and turns the job into a
// no-op.
type AuditRetentionJob struct {
	audit         *service.AuditService
	retentionDays int
}

func NewAuditRetentionJob(audit *service.AuditService, retentionDays int) *AuditRetentionJob {
	return &AuditRetentionJob{audit: audit, retentionDays: retentionDays}
}

func (j *AuditRetentionJob) Name() string {
	return "audit_retention"
}

func (j *AuditRetentionJob) Run(ctx context.Context) error {
	if j.audit == nil || j.retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	deleted, err := j.audit.PruneBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("audit retention pruned",
		zap.Int64("deleted", deleted),
		zap.Int64("cutoff_ms", cutoff.UnixMilli()),
	)
	return nil
}
