package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seclens/auditgate/internal/model"
)

func multipartUpload(t *testing.T, filename, content, sensitivity, role, actor string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("sensitivity", sensitivity))
	require.NoError(t, writer.WriteField("role", role))
	if actor != "" {
		require.NoError(t, writer.WriteField("actor", actor))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadDocumentIndexesAndAudits(t *testing.T) {
	env := setupRouter(t)

	body, contentType := multipartUpload(t, "findings.txt", "overdue invoices in Q3", "low", "Admin", "Alice")
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			File   string `json:"file"`
			Chunks int    `json:"chunks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "findings.txt", resp.Data.File)
	require.Equal(t, 1, resp.Data.Chunks)

	require.Len(t, env.store.chunks, 1)
	require.Equal(t, model.SensitivityLow, env.store.chunks[0].Sensitivity)

	require.Len(t, env.trail.events, 1)
	require.Equal(t, model.ActionUpload, env.trail.events[0].Action)
	require.Equal(t, model.OutcomeSuccess, env.trail.events[0].Outcome)
	require.Equal(t, "Alice", env.trail.events[0].Actor)
}

func TestUploadDocumentRejectsBadSensitivity(t *testing.T) {
	env := setupRouter(t)

	body, contentType := multipartUpload(t, "findings.txt", "text", "classified", "Admin", "")
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, env.store.chunks)
	require.Empty(t, env.trail.events)
}

func TestUploadDocumentRejectsUnknownRole(t *testing.T) {
	env := setupRouter(t)

	body, contentType := multipartUpload(t, "findings.txt", "text", "low", "Intern", "")
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, env.store.chunks)
}

func TestUploadDocumentRejectsUnsupportedExtension(t *testing.T) {
	env := setupRouter(t)

	body, contentType := multipartUpload(t, "findings.docx", "text", "low", "Admin", "")
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, env.store.chunks)
	// Nothing was extracted, so nothing is audited.
	require.Empty(t, env.trail.events)
}
