package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/seclens/auditgate/internal/pkg/errors"
	"github.com/seclens/auditgate/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrUnknownRole):
		response.Error(c, http.StatusBadRequest, "unknown_role", "unknown role")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
	case errors.Is(err, appErr.ErrExtraction):
		response.Error(c, http.StatusBadRequest, "extraction_failed", "could not extract text from file")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, appErr.ErrModel):
		response.Error(c, http.StatusBadGateway, "model_failed", "language model unavailable")
	case errors.Is(err, appErr.ErrStorage):
		response.Error(c, http.StatusServiceUnavailable, "storage_failed", "document store unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
