package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// SyncHandler exposes the webhook sync queue to operators.
type SyncHandler struct {
	syncSvc *service.SyncService
}

// NewSyncHandler constructs a SyncHandler.
func NewSyncHandler(syncSvc *service.SyncService) *SyncHandler {
	return &SyncHandler{syncSvc: syncSvc}
}

// ListQueue handles GET /v1/admin/sync-queue?status=
func (h *SyncHandler) ListQueue(c *gin.Context) {
	var status *models.SyncStatus
	if raw := c.Query("status"); raw != "" {
		s := models.SyncStatus(raw)
		status = &s
	}
	items, err := h.syncSvc.ListQueue(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Sync queue retrieved", items)
}

// GetItem handles GET /v1/admin/sync-queue/:id
func (h *SyncHandler) GetItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	item, err := h.syncSvc.GetQueueItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Queue item retrieved", item)
}

// Process handles POST /v1/admin/sync-queue/process
func (h *SyncHandler) Process(c *gin.Context) {
	result, err := h.syncSvc.ProcessSyncQueue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Sync queue processed", result)
}

// Retry handles POST /v1/admin/sync-queue/retry with optional {"maxAttempts": n}.
func (h *SyncHandler) Retry(c *gin.Context) {
	var req struct {
		MaxAttempts int `json:"maxAttempts"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			invalidRequest(c, err)
			return
		}
	}
	result, err := h.syncSvc.RetryFailedItems(c.Request.Context(), req.MaxAttempts)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Failed items retried", result)
}

// Acknowledge handles POST /v1/admin/sync-queue/:id/ack
func (h *SyncHandler) Acknowledge(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	item, err := h.syncSvc.AcknowledgeQueueItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Queue item acknowledged", item)
}

// Reset handles POST /v1/admin/sync-queue/reset with {"global": true} or
// {"fromPaymentId": n}.
func (h *SyncHandler) Reset(c *gin.Context) {
	var req models.SyncReset
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	n, err := h.syncSvc.ResetSyncItems(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Sync items reset", gin.H{"count": n})
}
