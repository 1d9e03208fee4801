package handlers

import (
	"fmt"
	"net/http"

	"knoxshield/internal/services"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
)

type OperationHandler struct {
	operations services.OperationServiceMethods
	ai         services.AIServiceMethods
	logger     *logger.Logger
}

func NewOperationHandler(operations services.OperationServiceMethods, ai services.AIServiceMethods, log *logger.Logger) *OperationHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OperationHandler{operations: operations, ai: ai, logger: log}
}

func (h *OperationHandler) StartOperation(c *gin.Context) {
	var req StartOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, h.logger, err)
		return
	}

	op, err := h.operations.StartOperation(services.StartOperationRequest{
		ToolID:     req.ToolID,
		CategoryID: req.CategoryID,
		Task:       req.Task,
		Params:     req.Params,
		Lang:       langOf(c),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to start operation")
		return
	}
	c.JSON(http.StatusCreated, op)
}

func (h *OperationHandler) ListOperations(c *gin.Context) {
	c.JSON(http.StatusOK, h.operations.ListOperations())
}

func (h *OperationHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.operations.Stats())
}

func (h *OperationHandler) GetOperation(c *gin.Context) {
	op, err := h.operations.GetOperation(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get operation")
		return
	}
	c.JSON(http.StatusOK, op)
}

func (h *OperationHandler) ApplyAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, h.logger, err)
		return
	}

	op, err := h.operations.ApplyAction(c.Param("id"), req.Action)
	if err != nil {
		respondError(c, h.logger, err, "Failed to apply action")
		return
	}
	c.JSON(http.StatusOK, op)
}

func (h *OperationHandler) DeleteOperation(c *gin.Context) {
	id := c.Param("id")
	if err := h.operations.DeleteOperation(id); err != nil {
		respondError(c, h.logger, err, "Failed to delete operation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

// Analyze asks the AI service to assess the findings of a finished scan.
func (h *OperationHandler) Analyze(c *gin.Context) {
	if h.ai == nil || !h.ai.Available() {
		respondError(c, h.logger, apperrors.ErrAIUnavailable, "")
		return
	}

	op, err := h.operations.GetOperation(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get operation")
		return
	}
	if op.ScanResults == nil {
		respondError(c, h.logger, fmt.Errorf("%w: operation %s has no scan results", apperrors.ErrInvalidState, op.ID), "")
		return
	}

	content, err := h.ai.Analyze(c.Request.Context(), *op.ScanResults, langOf(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate AI analysis")
		return
	}
	c.JSON(http.StatusOK, content)
}
