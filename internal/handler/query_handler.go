package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seclens/auditgate/internal/access"
	"github.com/seclens/auditgate/internal/model"
	"github.com/seclens/auditgate/internal/pkg/response"
	"github.com/seclens/auditgate/internal/service"
)

type QueryHandler struct {
	retrieval *service.RetrievalService
	answers   *service.AnswerService
}

func NewQueryHandler(retrieval *service.RetrievalService, answers *service.AnswerService) *QueryHandler {
	return &QueryHandler{retrieval: retrieval, answers: answers}
}

type queryRequest struct {
	Question string `json:"question"`
	Role     string `json:"role"`
	User     string `json:"user"`
}

type queryResponse struct {
	Status  model.SearchStatus `json:"status"`
	Answer  string             `json:"answer"`
	Sources []string           `json:"sources,omitempty"`
}

// Ask answers a question with chunks the caller's role may see. With
// ?stream=true the answer is delivered as server-sent events; the terminal
// outcome is always one of success, denied or no_data.
func (h *QueryHandler) Ask(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	if req.Question == "" {
		response.Error(c, http.StatusBadRequest, "invalid", "question is required")
		return
	}
	role, err := access.ParseRole(req.Role)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unknown_role", "unknown role")
		return
	}
	actor := req.User
	if actor == "" {
		actor = "Auditor"
	}

	result, status, err := h.retrieval.Search(c.Request.Context(), actor, role, req.Question)
	if err != nil {
		handleError(c, err)
		return
	}

	if c.Query("stream") == "true" {
		h.streamAnswer(c, req.Question, role, result, status)
		return
	}

	answer, sources := h.composeAnswer(c, req.Question, role, result, status)
	response.Success(c, queryResponse{Status: status, Answer: answer, Sources: sources})
}

func (h *QueryHandler) composeAnswer(c *gin.Context, question string, role access.Role, result *model.RetrievalResult, status model.SearchStatus) (string, []string) {
	switch status {
	case model.StatusDenied:
		return deniedMessage(role), nil
	case model.StatusNoData:
		return service.NoInformationMessage, nil
	}
	answer, _ := h.answers.Answer(c.Request.Context(), question, result, nil)
	return answer, result.Sources()
}

func (h *QueryHandler) streamAnswer(c *gin.Context, question string, role access.Role, result *model.RetrievalResult, status model.SearchStatus) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("status", string(status))
	c.Writer.Flush()

	switch status {
	case model.StatusDenied:
		c.SSEvent("delta", deniedMessage(role))
	case model.StatusNoData:
		c.SSEvent("delta", service.NoInformationMessage)
	default:
		_, _ = h.answers.Answer(c.Request.Context(), question, result, func(delta string) {
			c.SSEvent("delta", delta)
			c.Writer.Flush()
		})
	}
	c.SSEvent("done", "")
	c.Writer.Flush()
}

func deniedMessage(role access.Role) string {
	return fmt.Sprintf("ACCESS BLOCKED: documents exist, but they are classified above your level (%s).", role)
}
