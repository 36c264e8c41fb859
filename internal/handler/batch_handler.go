package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// BatchHandler previews payments for uploaded records.
type BatchHandler struct {
	batchSvc *service.BatchService
}

// NewBatchHandler constructs a BatchHandler.
func NewBatchHandler(batchSvc *service.BatchService) *BatchHandler {
	return &BatchHandler{batchSvc: batchSvc}
}

// Preview handles POST /v1/batch/preview
func (h *BatchHandler) Preview(c *gin.Context) {
	var req service.BatchPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	out, err := h.batchSvc.Preview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Batch preview composed", out)
}
