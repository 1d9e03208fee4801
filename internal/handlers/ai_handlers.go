package handlers

import (
	"net/http"

	"knoxshield/internal/services"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	ai     services.AIServiceMethods
	logger *logger.Logger
}

func NewAIHandler(ai services.AIServiceMethods, log *logger.Logger) *AIHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AIHandler{ai: ai, logger: log}
}

func (h *AIHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, h.logger, err)
		return
	}

	reply, err := h.ai.Chat(c.Request.Context(), req.ToolID, req.Message, langOf(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *AIHandler) History(c *gin.Context) {
	history := h.ai.History(c.Param("tool"))
	if history == nil {
		c.JSON(http.StatusOK, []interface{}{})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *AIHandler) ResetChat(c *gin.Context) {
	h.ai.ResetChat(c.Param("tool"))
	c.Status(http.StatusNoContent)
}
