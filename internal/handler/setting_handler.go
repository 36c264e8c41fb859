package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// SettingHandler exposes global settings.
type SettingHandler struct {
	settingSvc *service.SettingService
}

// NewSettingHandler constructs a SettingHandler.
func NewSettingHandler(settingSvc *service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// GetSettings handles GET /v1/admin/settings
func (h *SettingHandler) GetSettings(c *gin.Context) {
	s, err := h.settingSvc.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Settings retrieved", s)
}

// UpdateSettings handles PUT /v1/admin/settings
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var in service.Settings
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidRequest(c, err)
		return
	}
	s, err := h.settingSvc.Update(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Settings updated", s)
}
