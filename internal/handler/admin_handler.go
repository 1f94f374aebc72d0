package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seclens/auditgate/internal/access"
	"github.com/seclens/auditgate/internal/pkg/response"
	"github.com/seclens/auditgate/internal/service"
)

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type resetRequest struct {
	Actor string `json:"actor"`
	Role  string `json:"role"`
}

// Reset deletes the whole document collection.
func (h *AdminHandler) Reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	role, err := access.ParseRole(req.Role)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unknown_role", "unknown role")
		return
	}
	actor := req.Actor
	if actor == "" {
		actor = "System"
	}
	if err := h.admin.ResetStore(c.Request.Context(), actor, role); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"reset": true})
}
