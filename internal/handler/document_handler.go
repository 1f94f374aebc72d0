package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seclens/auditgate/internal/access"
	"github.com/seclens/auditgate/internal/model"
	"github.com/seclens/auditgate/internal/pkg/response"
	"github.com/seclens/auditgate/internal/service"
)

const maxUploadBytes = 32 << 20

type DocumentHandler struct {
	ingest *service.IngestService
}

func NewDocumentHandler(ingest *service.IngestService) *DocumentHandler {
	return &DocumentHandler{ingest: ingest}
}

type uploadResponse struct {
	File   string `json:"file"`
	Chunks int    `json:"chunks"`
}

// Upload accepts a multipart document (file, sensitivity, actor, role) and
// indexes it.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "file is required")
		return
	}
	if file.Size > maxUploadBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit of "+formatUploadLimit(maxUploadBytes))
		return
	}
	sensitivity, err := model.ParseSensitivity(c.PostForm("sensitivity"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_sensitivity", "sensitivity must be low, medium or high")
		return
	}
	role, err := access.ParseRole(c.PostForm("role"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unknown_role", "unknown role")
		return
	}
	actor := c.PostForm("actor")
	if actor == "" {
		actor = "System"
	}

	opened, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "failed to open file")
		return
	}
	defer opened.Close()
	data, err := io.ReadAll(opened)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "failed to read file")
		return
	}

	chunks, err := h.ingest.Upload(c.Request.Context(), actor, role, file.Filename, data, sensitivity)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, uploadResponse{File: file.Filename, Chunks: chunks})
}
