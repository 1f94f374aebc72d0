package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/seclens/auditgate/internal/model"
	"github.com/seclens/auditgate/internal/pkg/dbutil"
	appErr "github.com/seclens/auditgate/internal/pkg/errors"
)

// AuditRepo owns audit event persistence. Events are append-only.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Append(ctx context.Context, event *model.AuditEvent) error {
	data := map[string]interface{}{
		"ts":      event.Ts,
		"actor":   event.Actor,
		"role":    event.Role,
		"action":  event.Action,
		"detail":  event.Detail,
		"outcome": event.Outcome,
	}
	sqlStr, args, err := builder.BuildInsert("audit_events", []map[string]interface{}{data})
	if err != nil {
		return fmt.Errorf("%w: build audit insert: %v", appErr.ErrStorage, err)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%w: append audit event: %v", appErr.ErrStorage, err)
	}
	return nil
}

// List returns events ordered by timestamp descending, newest insert first on
// ties. An empty log yields an empty slice, never an error.
func (r *AuditRepo) List(ctx context.Context, limit uint) ([]model.AuditEvent, error) {
	where := map[string]interface{}{
		"_orderby": "ts DESC, id DESC",
		"_limit":   []uint{0, limit},
	}
	fields := []string{"id", "ts", "actor", "role", "action", "detail", "outcome"}
	sqlStr, args, err := builder.BuildSelect("audit_events", where, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: build audit select: %v", appErr.ErrStorage, err)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list audit events: %v", appErr.ErrStorage, err)
	}
	defer rows.Close()

	events := make([]model.AuditEvent, 0)
	for rows.Next() {
		var item model.AuditEvent
		if err := rows.Scan(&item.ID, &item.Ts, &item.Actor, &item.Role, &item.Action, &item.Detail, &item.Outcome); err != nil {
			return nil, fmt.Errorf("%w: scan audit event: %v", appErr.ErrStorage, err)
		}
		events = append(events, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate audit events: %v", appErr.ErrStorage, err)
	}
	return events, nil
}

// DeleteBefore removes events older than the cutoff timestamp. Used by the
// retention job only; the API never deletes audit rows.
func (r *AuditRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_events WHERE ts < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: delete audit events: %v", appErr.ErrStorage, err)
	}
	return res.RowsAffected()
}
