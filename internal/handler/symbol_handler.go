package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// SymbolHandler exposes stateless symbol composition.
type SymbolHandler struct {
	symbolSvc *service.SymbolService
}

// NewSymbolHandler constructs a SymbolHandler.
func NewSymbolHandler(symbolSvc *service.SymbolService) *SymbolHandler {
	return &SymbolHandler{symbolSvc: symbolSvc}
}

// Preview handles POST /v1/symbols/preview
func (h *SymbolHandler) Preview(c *gin.Context) {
	var req service.SymbolPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	preview := h.symbolSvc.Preview(req)
	messages := make([]string, len(preview.Warnings))
	for i, w := range preview.Warnings {
		messages[i] = w.String()
	}
	utils.SuccessWithWarnings(c, 200, "Symbols composed", preview, messages)
}
