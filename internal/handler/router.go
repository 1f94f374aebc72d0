package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Documents *DocumentHandler
	Query     *QueryHandler
	Audit     *AuditHandler
	Admin     *AdminHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/documents", deps.Documents.Upload)
	api.POST("/query", deps.Query.Ask)
	api.GET("/audit", deps.Audit.List)
	api.POST("/admin/reset", deps.Admin.Reset)
}
