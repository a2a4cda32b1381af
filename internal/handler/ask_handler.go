package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/dto"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/service"
)

type AskHandler struct {
	svc *service.ChatService
}

func NewAskHandler(svc *service.ChatService) *AskHandler {
	return &AskHandler{svc: svc}
}

// Ask returns the retrieval context for a question.
// POST /api/v1/ask
func (h *AskHandler) Ask(c *gin.Context) {
	var req dto.AskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, cached := h.svc.Ask(c.Request.Context(), req.Question, req.TopK)
	c.JSON(http.StatusOK, dto.AskResp{
		Question: req.Question,
		Context:  answer,
		Cached:   cached,
	})
}
