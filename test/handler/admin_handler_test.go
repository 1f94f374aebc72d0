package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seclens/auditgate/internal/model"
)

func TestAdminResetClearsStoreAndAudits(t *testing.T) {
	env := setupRouter(t)
	seedChunk(t, env, "findings.txt_1", "findings.txt", "overdue invoices", model.SensitivityLow)

	payload, err := json.Marshal(map[string]string{"actor": "Alice", "role": "Admin"})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/v1/admin/reset", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, env.store.chunks)

	require.Len(t, env.trail.events, 1)
	require.Equal(t, model.ActionResetDB, env.trail.events[0].Action)
	require.Equal(t, model.OutcomeSuccess, env.trail.events[0].Outcome)
}

func TestAdminResetRejectsUnknownRole(t *testing.T) {
	env := setupRouter(t)
	seedChunk(t, env, "findings.txt_1", "findings.txt", "overdue invoices", model.SensitivityLow)

	payload, err := json.Marshal(map[string]string{"actor": "Eve", "role": "Guest"})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/v1/admin/reset", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.store.chunks, 1)
}
