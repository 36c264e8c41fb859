package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// maxQRSize bounds the requested QR edge length in pixels.
const maxQRSize = 2048

// PaymentHandler handles payment generation and lookup.
type PaymentHandler struct {
	paymentSvc *service.PaymentService
	syncSvc    *service.SyncService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(paymentSvc *service.PaymentService, syncSvc *service.SyncService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, syncSvc: syncSvc}
}

// CreatePayment handles POST /v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req service.GeneratePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	result, err := h.paymentSvc.GeneratePayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithWarnings(c, 201, "Payment generated", result, result.Warnings)
}

// ListPayments handles GET /v1/payments?accountId=&eventId=&page=&limit=
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var f models.PaymentFilter
	var ok bool
	if f.AccountID, ok = queryInt64(c, "accountId"); !ok {
		return
	}
	if f.EventID, ok = queryInt64(c, "eventId"); !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	f.Offset = (page - 1) * f.Limit

	payments, total, err := h.paymentSvc.ListPayments(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Payments retrieved", payments, page, f.Limit, total)
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := h.paymentSvc.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Payment retrieved", p)
}

// GetQRCode handles GET /v1/payments/:id/qr?size=
func (h *PaymentHandler) GetQRCode(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	if size < 0 || size > maxQRSize {
		utils.Error(c, 400, "INVALID_QUERY", "size must be between 0 and "+strconv.Itoa(maxQRSize))
		return
	}

	png, err := h.paymentSvc.QRCode(c.Request.Context(), id, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Data(200, "image/png", png)
}

// GetSyncStatus handles GET /v1/payments/:id/sync
func (h *PaymentHandler) GetSyncStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if _, err := h.paymentSvc.GetPayment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	item, err := h.syncSvc.GetPaymentSyncStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Sync status retrieved", item)
}
