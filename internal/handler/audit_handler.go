package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seclens/auditgate/internal/pkg/response"
	"github.com/seclens/auditgate/internal/service"
)

type AuditHandler struct {
	audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns audit events, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	var limit uint
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err == nil {
			limit = uint(parsed)
		}
	}
	events, err := h.audit.List(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"events": events})
}
